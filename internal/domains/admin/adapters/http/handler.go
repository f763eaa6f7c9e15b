package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	adminports "github.com/nexashop/storefront/internal/domains/admin/ports"
	catalogdomain "github.com/nexashop/storefront/internal/domains/catalog/domain"
	orderhttp "github.com/nexashop/storefront/internal/domains/orders/adapters/http"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
	orderports "github.com/nexashop/storefront/internal/domains/orders/ports"
	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
)

// Handler serves the admin reconciliation routes. The caller applies
// both the identity and the admin-gate middleware before these routes.
type Handler struct {
	service   adminports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service adminports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", orderhttp.MapOrderError, mapStatusError),
	}
}

func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/stats", h.stats)
	r.GET("/orders", h.listOrders)
	r.PATCH("/orders/:id/status", h.updateOrderStatus)
	r.GET("/products", h.listProducts)
}

type statsResponse struct {
	TotalOrders   int64   `json:"totalOrders"`
	PendingOrders int64   `json:"pendingOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalProducts int64   `json:"totalProducts"`
	LowStockCount int64   `json:"lowStockCount"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type inventoryResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Stock       *int64  `json:"stock"`
	Category    string  `json:"category,omitempty"`
	OutOfStock  bool    `json:"outOfStock"`
	ReviewCount int64   `json:"reviewCount"`
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statsResponse{
		TotalOrders:   stats.TotalOrders,
		PendingOrders: stats.PendingOrders,
		TotalRevenue:  stats.TotalRevenue,
		TotalProducts: stats.TotalProducts,
		LowStockCount: stats.LowStockCount,
	})
}

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	resp := make([]orderhttp.OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, orderhttp.ToOrderResponse(order))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	status, err := orderdomain.ParseStatus(req.Status)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	order, err := h.service.UpdateOrderStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttp.ToOrderResponse(order))
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	resp := make([]inventoryResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, toInventoryResponse(product))
	}
	c.JSON(http.StatusOK, resp)
}

func toInventoryResponse(product *catalogdomain.Product) inventoryResponse {
	return inventoryResponse{
		ID:          product.ID,
		Title:       product.Title,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		OutOfStock:  product.OutOfStock(),
		ReviewCount: product.ReviewCount,
	}
}

func mapStatusError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderdomain.ErrInvalidStatus):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, orderports.ErrNotFound):
		return sharederrors.NewNotFoundProblem("order", ""), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}

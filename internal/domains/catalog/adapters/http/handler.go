package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexashop/storefront/internal/domains/catalog/application"
	"github.com/nexashop/storefront/internal/domains/catalog/domain"
	"github.com/nexashop/storefront/internal/domains/catalog/ports"
	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
)

// Handler serves the catalog routes.
type Handler struct {
	service   ports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", mapCatalogError),
	}
}

// Register mounts the public catalog routes.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/products", h.listProducts)
	r.GET("/products/:id", h.getProduct)
	r.GET("/categories", h.listCategories)
}

// RegisterAdmin mounts the stock-correction route; the caller applies the
// admin guard.
func (h *Handler) RegisterAdmin(r gin.IRoutes) {
	r.PATCH("/products/:id/stock", h.correctStock)
}

type productResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Stock       *int64  `json:"stock"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Rating      float64 `json:"rating"`
	ReviewCount int64   `json:"reviewCount"`
}

type correctStockRequest struct {
	Stock *int64 `json:"stock" binding:"required"`
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponses(products))
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) correctStock(c *gin.Context) {
	var req correctStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	product, err := h.service.CorrectStock(c.Request.Context(), c.Param("id"), *req.Stock)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProductResponse(product))
}

func toProductResponse(product *domain.Product) productResponse {
	return productResponse{
		ID:          product.ID,
		Title:       product.Title,
		Price:       product.Price,
		Stock:       product.Stock,
		Category:    product.Category,
		Image:       product.Image,
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
	}
}

func toProductResponses(products []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, product := range products {
		out = append(out, toProductResponse(product))
	}
	return out
}

func mapCatalogError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		return sharederrors.NewNotFoundProblem("product", ""), true
	case errors.Is(err, application.ErrInvalidInput):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}

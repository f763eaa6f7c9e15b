package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	orderapp "github.com/nexashop/storefront/internal/domains/orders/application"
	orderdomain "github.com/nexashop/storefront/internal/domains/orders/domain"
	orderports "github.com/nexashop/storefront/internal/domains/orders/ports"
	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
	"github.com/nexashop/storefront/internal/shared/identity"
)

// Handler serves the order history routes for the authenticated user.
type Handler struct {
	service   orderports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service orderports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", MapOrderError),
	}
}

// Register mounts the order routes; the caller applies the identity
// middleware.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/orders", h.listOrders)
	r.GET("/orders/:id", h.getOrder)
}

type itemResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Image     string  `json:"image,omitempty"`
	Quantity  int64   `json:"quantity"`
}

type shippingResponse struct {
	Label      string `json:"label"`
	FullName   string `json:"fullName,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// OrderResponse is the wire shape of an order. Shared with the admin
// handlers so both surfaces render orders identically.
type OrderResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	UserName  string           `json:"userName,omitempty"`
	UserEmail string           `json:"userEmail,omitempty"`
	Items     []itemResponse   `json:"items"`
	Subtotal  float64          `json:"subtotal"`
	Tax       float64          `json:"tax"`
	Total     float64          `json:"total"`
	Status    string           `json:"status"`
	Shipping  shippingResponse `json:"shippingAddress"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (h *Handler) listOrders(c *gin.Context) {
	user, _ := identity.FromContext(c)
	orders, err := h.service.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	resp := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		resp = append(resp, ToOrderResponse(order))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getOrder(c *gin.Context) {
	user, _ := identity.FromContext(c)
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	// Order history is private; non-admins only see their own orders.
	if order.UserID != user.ID && !user.Admin {
		h.responder.RespondError(c, orderports.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, ToOrderResponse(order))
}

// ToOrderResponse maps a domain order to its wire shape.
func ToOrderResponse(order *orderdomain.Order) OrderResponse {
	items := make([]itemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, itemResponse{
			ProductID: item.ProductID,
			Title:     item.Title,
			Price:     item.Price,
			Image:     item.Image,
			Quantity:  item.Quantity,
		})
	}
	return OrderResponse{
		ID:        order.ID,
		UserID:    order.UserID,
		UserName:  order.UserName,
		UserEmail: order.UserEmail,
		Items:     items,
		Subtotal:  order.Subtotal,
		Tax:       order.Tax,
		Total:     order.Total,
		Status:    string(order.Status),
		Shipping: shippingResponse{
			Label:      order.Shipping.Label,
			FullName:   order.Shipping.FullName,
			Street:     order.Shipping.Street,
			City:       order.Shipping.City,
			State:      order.Shipping.State,
			PostalCode: order.Shipping.PostalCode,
			Country:    order.Shipping.Country,
			Phone:      order.Shipping.Phone,
		},
		CreatedAt: order.CreatedAt,
	}
}

// MapOrderError converts order errors into problem responses. Exported
// for reuse by the admin handlers.
func MapOrderError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return sharederrors.NewNotFoundProblem("order", ""), true
	case errors.Is(err, orderapp.ErrInvalidInput):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}

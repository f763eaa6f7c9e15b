package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	cartapp "github.com/nexashop/storefront/internal/domains/cart/application"
	cartdomain "github.com/nexashop/storefront/internal/domains/cart/domain"
	cartports "github.com/nexashop/storefront/internal/domains/cart/ports"
	catalogports "github.com/nexashop/storefront/internal/domains/catalog/ports"
	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
	"github.com/nexashop/storefront/internal/shared/identity"
)

// Handler serves the cart and wishlist routes for the authenticated user.
type Handler struct {
	service   cartports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service cartports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", mapCartError),
	}
}

// Register mounts the cart/wishlist routes; the caller applies the identity
// middleware.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/cart", h.getCart)
	r.POST("/cart/items", h.addItem)
	r.PATCH("/cart/items/:productId", h.updateQuantity)
	r.DELETE("/cart/items/:productId", h.removeItem)
	r.DELETE("/cart", h.clearCart)

	r.GET("/wishlist", h.getWishlist)
	r.POST("/wishlist", h.addWish)
	r.DELETE("/wishlist/:productId", h.removeWish)
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity *int64 `json:"quantity" binding:"required"`
}

type lineResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Stock     *int64  `json:"stock,omitempty"`
	Category  string  `json:"category,omitempty"`
	Image     string  `json:"image,omitempty"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type wishResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Stock     *int64  `json:"stock,omitempty"`
	Category  string  `json:"category,omitempty"`
	Image     string  `json:"image,omitempty"`
}

type cartResponse struct {
	Items      []lineResponse `json:"items"`
	Total      float64        `json:"total"`
	ItemsCount int64          `json:"itemsCount"`
}

type wishlistResponse struct {
	Items []wishResponse `json:"items"`
}

func (h *Handler) getCart(c *gin.Context) {
	user, _ := identity.FromContext(c)
	state, err := h.service.Cart(c.Request.Context(), user.ID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *Handler) addItem(c *gin.Context) {
	user, _ := identity.FromContext(c)
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	state, err := h.service.AddToCart(c.Request.Context(), user.ID, req.ProductID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *Handler) updateQuantity(c *gin.Context) {
	user, _ := identity.FromContext(c)
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	state, err := h.service.UpdateQuantity(c.Request.Context(), user.ID, c.Param("productId"), *req.Quantity)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *Handler) removeItem(c *gin.Context) {
	user, _ := identity.FromContext(c)
	state, err := h.service.RemoveFromCart(c.Request.Context(), user.ID, c.Param("productId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *Handler) clearCart(c *gin.Context) {
	user, _ := identity.FromContext(c)
	state, err := h.service.ClearCart(c.Request.Context(), user.ID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartResponse(state))
}

func (h *Handler) getWishlist(c *gin.Context) {
	user, _ := identity.FromContext(c)
	state, err := h.service.Cart(c.Request.Context(), user.ID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWishlistResponse(state))
}

func (h *Handler) addWish(c *gin.Context) {
	user, _ := identity.FromContext(c)
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	state, err := h.service.AddToWishlist(c.Request.Context(), user.ID, req.ProductID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWishlistResponse(state))
}

func (h *Handler) removeWish(c *gin.Context) {
	user, _ := identity.FromContext(c)
	state, err := h.service.RemoveFromWishlist(c.Request.Context(), user.ID, c.Param("productId"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toWishlistResponse(state))
}

func toCartResponse(state cartdomain.State) cartResponse {
	resp := cartResponse{
		Items:      make([]lineResponse, 0, len(state.Lines)),
		Total:      state.Total(),
		ItemsCount: state.ItemsCount(),
	}
	for _, line := range state.Lines {
		resp.Items = append(resp.Items, lineResponse{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Stock:     line.Stock,
			Category:  line.Category,
			Image:     line.Image,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}
	return resp
}

func toWishlistResponse(state cartdomain.State) wishlistResponse {
	resp := wishlistResponse{Items: make([]wishResponse, 0, len(state.Wishlist))}
	for _, entry := range state.Wishlist {
		resp.Items = append(resp.Items, wishResponse{
			ProductID: entry.ProductID,
			Title:     entry.Title,
			Price:     entry.Price,
			Stock:     entry.Stock,
			Category:  entry.Category,
			Image:     entry.Image,
		})
	}
	return resp
}

func mapCartError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, cartapp.ErrRejected):
		return sharederrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, catalogports.ErrNotFound):
		return sharederrors.NewNotFoundProblem("product", ""), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}

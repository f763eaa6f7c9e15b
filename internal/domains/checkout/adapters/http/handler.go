package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	addressdomain "github.com/nexashop/storefront/internal/domains/addresses/domain"
	checkoutdomain "github.com/nexashop/storefront/internal/domains/checkout/domain"
	checkoutports "github.com/nexashop/storefront/internal/domains/checkout/ports"
	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
	"github.com/nexashop/storefront/internal/shared/identity"
)

// Handler serves the checkout routes for the authenticated user.
type Handler struct {
	service   checkoutports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service checkoutports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", mapCheckoutError),
	}
}

// Register mounts the checkout routes; the caller applies the identity
// middleware.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/checkout", h.begin)
	r.POST("/checkout", h.submit)
}

type submitRequest struct {
	AddressID string `json:"addressId"`
}

type lineResponse struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
}

type addressResponse struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	FullName string `json:"fullName,omitempty"`
	Street   string `json:"street"`
	City     string `json:"city"`
	Country  string `json:"country,omitempty"`
}

type totalsResponse struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

type viewResponse struct {
	Phase           string            `json:"phase"`
	Items           []lineResponse    `json:"items"`
	Totals          totalsResponse    `json:"totals"`
	Addresses       []addressResponse `json:"addresses"`
	SelectedAddress string            `json:"selectedAddressId,omitempty"`
	RequiresAddress bool              `json:"requiresAddress"`
}

type receiptResponse struct {
	OrderID string         `json:"orderId"`
	Totals  totalsResponse `json:"totals"`
}

func (h *Handler) begin(c *gin.Context) {
	user, _ := identity.FromContext(c)
	view, err := h.service.Begin(c.Request.Context(), user.ID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViewResponse(view))
}

func (h *Handler) submit(c *gin.Context) {
	user, _ := identity.FromContext(c)
	var req submitRequest
	// The body is optional; an earlier Begin may have selected the
	// default address already.
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.responder.BadRequest(c, err.Error())
			return
		}
	}
	receipt, err := h.service.Submit(c.Request.Context(), checkoutports.SubmitInput{
		UserID:    user.ID,
		UserName:  user.DisplayName,
		UserEmail: user.Email,
		AddressID: req.AddressID,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receiptResponse{
		OrderID: receipt.OrderID,
		Totals:  toTotalsResponse(receipt.Totals),
	})
}

func toViewResponse(view *checkoutports.View) viewResponse {
	resp := viewResponse{
		Phase:           string(view.Attempt.Phase),
		Items:           make([]lineResponse, 0, len(view.Cart.Lines)),
		Totals:          toTotalsResponse(view.Totals),
		Addresses:       make([]addressResponse, 0, len(view.Addresses)),
		SelectedAddress: view.SelectedAddress,
		RequiresAddress: view.RequiresAddress,
	}
	for _, line := range view.Cart.Lines {
		resp.Items = append(resp.Items, lineResponse{
			ProductID: line.ProductID,
			Title:     line.Title,
			Price:     line.Price,
			Quantity:  line.Quantity,
			LineTotal: line.LineTotal(),
		})
	}
	for _, address := range view.Addresses {
		resp.Addresses = append(resp.Addresses, toAddressResponse(address))
	}
	return resp
}

func toAddressResponse(address *addressdomain.Address) addressResponse {
	return addressResponse{
		ID:       address.ID,
		Label:    address.Label,
		FullName: address.FullName,
		Street:   address.Street,
		City:     address.City,
		Country:  address.Country,
	}
}

func toTotalsResponse(totals checkoutdomain.Totals) totalsResponse {
	return totalsResponse{
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	}
}

func mapCheckoutError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, checkoutdomain.ErrEmptyCart),
		errors.Is(err, checkoutdomain.ErrUnknownAddress):
		return sharederrors.ErrUnprocessable.WithDetail(err.Error()), true
	case errors.Is(err, checkoutdomain.ErrNoAddressSelected):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	case errors.Is(err, checkoutdomain.ErrSubmissionInFlight):
		return sharederrors.ErrConflict.WithDetail(err.Error()), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}

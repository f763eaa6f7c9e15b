package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	addressapp "github.com/nexashop/storefront/internal/domains/addresses/application"
	addressdomain "github.com/nexashop/storefront/internal/domains/addresses/domain"
	addressports "github.com/nexashop/storefront/internal/domains/addresses/ports"
	sharederrors "github.com/nexashop/storefront/internal/shared/errors"
	"github.com/nexashop/storefront/internal/shared/identity"
)

// Handler serves the address book routes for the authenticated user.
type Handler struct {
	service   addressports.Service
	responder *sharederrors.ChainedResponder
}

func NewHandler(service addressports.Service) *Handler {
	return &Handler{
		service:   service,
		responder: sharederrors.NewChainedResponder("", mapAddressError),
	}
}

// Register mounts the address routes; the caller applies the identity
// middleware.
func (h *Handler) Register(r gin.IRoutes) {
	r.GET("/addresses", h.listAddresses)
	r.POST("/addresses", h.createAddress)
	r.GET("/addresses/:id", h.getAddress)
}

type createAddressRequest struct {
	Label      string `json:"label" binding:"required"`
	FullName   string `json:"fullName"`
	Street     string `json:"street" binding:"required"`
	City       string `json:"city" binding:"required"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

type addressResponse struct {
	ID         string `json:"id"`
	Label      string `json:"label"`
	FullName   string `json:"fullName,omitempty"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

func (h *Handler) listAddresses(c *gin.Context) {
	user, _ := identity.FromContext(c)
	addresses, err := h.service.ListAddresses(c.Request.Context(), user.ID)
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	resp := make([]addressResponse, 0, len(addresses))
	for _, address := range addresses {
		resp = append(resp, toAddressResponse(address))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createAddress(c *gin.Context) {
	user, _ := identity.FromContext(c)
	var req createAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.responder.BadRequest(c, err.Error())
		return
	}
	address, err := h.service.CreateAddress(c.Request.Context(), user.ID, addressports.CreateAddressInput{
		Label:      req.Label,
		FullName:   req.FullName,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Country:    req.Country,
		Phone:      req.Phone,
	})
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAddressResponse(address))
}

func (h *Handler) getAddress(c *gin.Context) {
	user, _ := identity.FromContext(c)
	address, err := h.service.GetAddress(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.responder.RespondError(c, err)
		return
	}
	// Address books are private; never leak another user's entries.
	if address.UserID != user.ID {
		h.responder.RespondError(c, addressports.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, toAddressResponse(address))
}

func toAddressResponse(address *addressdomain.Address) addressResponse {
	return addressResponse{
		ID:         address.ID,
		Label:      address.Label,
		FullName:   address.FullName,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
	}
}

func mapAddressError(err error) (sharederrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, addressports.ErrNotFound):
		return sharederrors.NewNotFoundProblem("address", ""), true
	case errors.Is(err, addressapp.ErrInvalidInput):
		return sharederrors.ErrValidation.WithDetail(err.Error()), true
	default:
		return sharederrors.ProblemDetail{}, false
	}
}

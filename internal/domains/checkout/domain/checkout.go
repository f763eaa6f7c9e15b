package domain

import (
	"errors"
	"math"
)

// TaxRate is the flat rate applied to the cart subtotal at submission.
const TaxRate = 0.10

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoAddressSelected  = errors.New("no shipping address selected")
	ErrUnknownAddress     = errors.New("selected address is not among the user's saved addresses")
	ErrSubmissionInFlight = errors.New("a submission is already in progress")
	ErrInvalidTransition  = errors.New("invalid checkout state transition")
)

// Phase is the state of a checkout attempt.
type Phase string

const (
	PhaseIdle          Phase = "Idle"
	PhaseAddressLoaded Phase = "AddressLoaded"
	PhaseSubmitting    Phase = "Submitting"
	PhaseCompleted     Phase = "Completed"
	PhaseFailed        Phase = "Failed"
)

// Totals is the priced breakdown of a checkout attempt. Values are
// recomputed from the live cart at submission, never cached from an
// earlier render.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// ComputeTotals applies the flat tax rate to a subtotal, rounding each
// figure to cents.
func ComputeTotals(subtotal float64) Totals {
	subtotal = roundCents(subtotal)
	tax := roundCents(subtotal * TaxRate)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    roundCents(subtotal + tax),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Attempt tracks a single user's checkout through
// Idle -> AddressLoaded -> Submitting -> {Completed | Failed}.
// Failed is retryable: the next submission restarts from AddressLoaded
// with the cart and selection untouched.
type Attempt struct {
	Phase     Phase
	AddressID string
	Totals    Totals
	OrderID   string
	LastError string
}

// NewAttempt starts in the Idle phase.
func NewAttempt() *Attempt {
	return &Attempt{Phase: PhaseIdle}
}

// LoadAddresses marks the address book as fetched and records the
// selection. Allowed from any non-submitting phase; reloading after a
// terminal phase starts a fresh attempt.
func (a *Attempt) LoadAddresses(selectedID string) error {
	if a.Phase == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	a.Phase = PhaseAddressLoaded
	a.AddressID = selectedID
	a.OrderID = ""
	a.LastError = ""
	return nil
}

// BeginSubmission transitions into Submitting, blocking a second
// concurrent submission for the same user.
func (a *Attempt) BeginSubmission(addressID string, totals Totals) error {
	if a.Phase == PhaseSubmitting {
		return ErrSubmissionInFlight
	}
	a.Phase = PhaseSubmitting
	a.AddressID = addressID
	a.Totals = totals
	a.OrderID = ""
	a.LastError = ""
	return nil
}

// Complete records the order identifier returned by the backend.
func (a *Attempt) Complete(orderID string) error {
	if a.Phase != PhaseSubmitting {
		return ErrInvalidTransition
	}
	a.Phase = PhaseCompleted
	a.OrderID = orderID
	return nil
}

// Fail moves to the retryable failure phase. Cart contents and the
// address selection are deliberately left alone.
func (a *Attempt) Fail(err error) {
	a.Phase = PhaseFailed
	if err != nil {
		a.LastError = err.Error()
	}
}

// InFlight reports whether a submission is currently underway.
func (a *Attempt) InFlight() bool {
	return a.Phase == PhaseSubmitting
}

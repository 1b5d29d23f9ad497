// Package checkout drives the five-step order wizard. Transitions are
// strictly linear; each forward transition is guarded by what the customer
// has supplied so far.
package checkout

import (
	"errors"
	"sync"

	"github.com/EtomCoda/bobchi-backend/internal/cart"
	"github.com/EtomCoda/bobchi-backend/internal/models"
)

type Step int

const (
	StepSelection Step = iota + 1
	StepReview
	StepDeliveryInfo
	StepPayment
	StepConfirmation
)

func (s Step) String() string {
	switch s {
	case StepSelection:
		return "selection"
	case StepReview:
		return "review"
	case StepDeliveryInfo:
		return "delivery_info"
	case StepPayment:
		return "payment"
	case StepConfirmation:
		return "confirmation"
	}
	return "unknown"
}

var (
	ErrEmptyCart        = errors.New("cart is empty")
	ErrDeliveryRequired = errors.New("delivery information is required")
	ErrSubmitRequired   = errors.New("completing payment submits the order")
	ErrWizardComplete   = errors.New("order already confirmed")
	ErrAtFirstStep      = errors.New("already at the first step")
	ErrNotConfirmed     = errors.New("order has not been submitted")
)

// Session is one customer's wizard state: the cart being assembled, the
// current step, and whatever the later steps have captured so far.
//
// Simultaneous requests from the same user (a double-click, two tabs) land
// on separate goroutines, so callers must hold the embedded lock for the
// duration of any read or mutation of the session or its cart.
type Session struct {
	sync.Mutex

	Cart        *cart.Cart
	Step        Step
	Delivery    *models.DeliveryInfo
	LastOrderID string
}

func NewSession() *Session {
	return &Session{
		Cart: cart.New(),
		Step: StepSelection,
	}
}

// Advance moves the wizard one step forward, enforcing the guard of the
// current step. The Payment step never advances here: the order submission
// path confirms the session on success.
func (s *Session) Advance() error {
	switch s.Step {
	case StepSelection:
		if s.Cart.IsEmpty() {
			return ErrEmptyCart
		}
	case StepReview:
		// Reviewing is unguarded; the cart was non-empty to get here.
	case StepDeliveryInfo:
		if s.Delivery == nil {
			return ErrDeliveryRequired
		}
	case StepPayment:
		return ErrSubmitRequired
	case StepConfirmation:
		return ErrWizardComplete
	}
	s.Step++
	return nil
}

// Back moves the wizard one step backward. Captured state is kept so the
// customer can resume forward without re-entering anything.
func (s *Session) Back() error {
	switch s.Step {
	case StepSelection:
		return ErrAtFirstStep
	case StepConfirmation:
		return ErrWizardComplete
	}
	s.Step--
	return nil
}

// SetDelivery records the validated delivery form on the session.
func (s *Session) SetDelivery(info models.DeliveryInfo) {
	s.Delivery = &info
}

// Confirm transitions the session to the confirmation step after a
// successful order submission. The cart is emptied; the order reference is
// kept for display.
func (s *Session) Confirm(orderID string) error {
	if s.Step != StepPayment {
		return ErrNotConfirmed
	}
	s.Step = StepConfirmation
	s.LastOrderID = orderID
	s.Cart.Clear()
	return nil
}

// Reset starts a fresh wizard for the next order.
func (s *Session) Reset() {
	s.Cart = cart.New()
	s.Step = StepSelection
	s.Delivery = nil
	s.LastOrderID = ""
}

package checkout

import (
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/xenking/eservices-storefront/internal/domain/cart"
)

// Status is the position of an order in the checkout sequence.
type Status string

// Checkout statuses. Confirmed is terminal.
const (
	AwaitingShipping Status = "AwaitingShipping"
	AwaitingPayment  Status = "AwaitingPayment"
	Confirmed        Status = "Confirmed"
)

// Action is a user step in the checkout form.
type Action string

// Checkout actions.
const (
	ActionContinue Action = "continue"
	ActionBack     Action = "back"
	ActionPay      Action = "pay"
)

// ErrUnknownAction is returned by ParseAction for unrecognized input.
var ErrUnknownAction = errors.New("unknown checkout action")

// ParseAction maps text to an Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionContinue, ActionBack, ActionPay:
		return a, nil
	default:
		return "", errors.Wrapf(ErrUnknownAction, "%q", s)
	}
}

// TransitionError reports an action that is not allowed from the current
// status. The flow is left unchanged.
type TransitionError struct {
	From   Status
	Action Action
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s from %s", e.Action, e.From)
}

var transitions = map[Status]map[Action]Status{
	AwaitingShipping: {ActionContinue: AwaitingPayment},
	AwaitingPayment: {
		ActionBack: AwaitingShipping,
		ActionPay:  Confirmed,
	},
}

// Receipt records a confirmed order.
type Receipt struct {
	ID          string
	Lines       []cart.Line
	Totals      Totals
	ConfirmedAt time.Time
}

// Flow tracks one checkout from shipping details to confirmation. Shipping
// and payment fields are not validated; payment is not processed.
type Flow struct {
	status  Status
	receipt *Receipt
	now     func() time.Time
}

// NewFlow starts a checkout at AwaitingShipping.
func NewFlow() *Flow {
	return &Flow{status: AwaitingShipping, now: time.Now}
}

// Status returns the current status.
func (f *Flow) Status() Status {
	return f.status
}

// Receipt returns the confirmed order, or nil before payment.
func (f *Flow) Receipt() *Receipt {
	return f.receipt
}

// Continue moves from shipping to payment.
func (f *Flow) Continue() error {
	return f.transition(ActionContinue)
}

// Back returns from payment to shipping.
func (f *Flow) Back() error {
	return f.transition(ActionBack)
}

// Pay confirms the order and records a receipt for lines.
func (f *Flow) Pay(lines []cart.Line) (*Receipt, error) {
	if err := f.transition(ActionPay); err != nil {
		return nil, err
	}
	snapshot := append([]cart.Line(nil), lines...)
	f.receipt = &Receipt{
		ID:          uuid.New().String(),
		Lines:       snapshot,
		Totals:      ComputeTotals(snapshot),
		ConfirmedAt: f.now(),
	}
	return f.receipt, nil
}

// Fire applies a by name. lines is only used by ActionPay.
func (f *Flow) Fire(a Action, lines []cart.Line) error {
	switch a {
	case ActionContinue:
		return f.Continue()
	case ActionBack:
		return f.Back()
	case ActionPay:
		_, err := f.Pay(lines)
		return err
	default:
		return errors.Wrapf(ErrUnknownAction, "%q", a)
	}
}

func (f *Flow) transition(a Action) error {
	next, ok := transitions[f.status][a]
	if !ok {
		return &TransitionError{From: f.status, Action: a}
	}
	f.status = next
	return nil
}

// View is what the checkout page presents.
type View string

// Checkout views.
const (
	ViewEmptyCart    View = "empty_cart"
	ViewForm         View = "form"
	ViewConfirmation View = "confirmation"
)

// ViewFor applies the entry guard: an empty cart shows the empty-cart view
// unless the order is already confirmed.
func ViewFor(cartEmpty bool, status Status) View {
	switch {
	case status == Confirmed:
		return ViewConfirmation
	case cartEmpty:
		return ViewEmptyCart
	default:
		return ViewForm
	}
}

// Package lifecycle drives one visit from table claim through cart, kitchen
// confirmation, and payment, releasing the table on every way out.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"tableside/internal/client/api"
	"tableside/internal/client/cart"
	"tableside/internal/client/occupancy"
	"tableside/internal/client/poller"
	"tableside/internal/client/session"
	"tableside/internal/logger"
	"tableside/internal/models"
)

// State is where the visit currently stands.
type State int

const (
	StateIdle State = iota
	StateTableClaimed
	StateCartOpen
	StateSubmitting
	StateConfirmed
	StatePaying
	StatePaid
	StateRejected
	StateExhausted
	StateCancelled
	StateTableReleased
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTableClaimed:
		return "table-claimed"
	case StateCartOpen:
		return "cart-open"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	case StatePaying:
		return "paying"
	case StatePaid:
		return "paid"
	case StateRejected:
		return "rejected"
	case StateExhausted:
		return "exhausted"
	case StateCancelled:
		return "cancelled"
	case StateTableReleased:
		return "table-released"
	default:
		return "unknown"
	}
}

// ErrAddOnDeclined is returned when the diner backs out of merging new
// dishes onto an order the kitchen already has. The cart stays open.
var ErrAddOnDeclined = errors.New("add-on declined")

// Result is the record of one submission run. Final is the state the run
// ended in; for non-terminal exits such as a declined add-on there is no
// Result, only an error.
type Result struct {
	OrderID string
	PayID   string
	Amount  float64
	Poll    *poller.Result
	Final   State
}

// Flow owns the visit's state machine. Prompts are how the UI participates:
// ApprovePayment shows the amount and asks to pay, ApproveAddOn warns that
// new dishes will join an order already in the kitchen. A nil prompt
// approves automatically.
type Flow struct {
	Session *session.Session
	Guard   *occupancy.Guard
	Cart    *cart.Reconciler
	Poller  *poller.Poller
	API     *api.API
	Logger  *logger.Logger

	ApprovePayment func(amount float64) bool
	ApproveAddOn   func(draft *models.Order) bool

	state State
}

// State reports the current position in the visit.
func (f *Flow) State() State {
	return f.state
}

// Start opens the visit: login, table claim, then the empty cart. A denied
// claim leaves the flow idle with no cart call made; the diner picks another
// table and starts again.
func (f *Flow) Start(ctx context.Context, userID string, storeID, tableID int64, consumeType models.ConsumeType) error {
	if err := f.Session.Begin(ctx, userID, storeID, tableID, consumeType); err != nil {
		return err
	}

	if err := f.Guard.Claim(ctx, storeID, tableID, consumeType); err != nil {
		f.state = StateIdle
		return err
	}
	f.state = StateTableClaimed

	if f.Cart.Ledger != nil {
		dishes, _, err := f.API.Catalog(ctx, storeID)
		if err != nil {
			return err
		}
		f.Cart.Ledger.LoadCatalog(dishes)
	}

	if err := f.Cart.Refresh(ctx); err != nil {
		return err
	}
	f.state = StateCartOpen
	return nil
}

// Resume reopens the cart on top of an order already in the kitchen, so
// everything added next becomes an add-on to it.
func (f *Flow) Resume(ctx context.Context, orderID string) error {
	if err := f.Cart.LoadExisting(ctx, orderID); err != nil {
		return err
	}
	f.state = StateCartOpen
	return nil
}

// Submit prices the cart, places the order, waits for the kitchen, and runs
// payment when the order type calls for one. The draft snapshot is fetched
// fresh here; whatever totals the UI showed earlier are display only.
// Transport failures before placement return the flow to the open cart.
func (f *Flow) Submit(ctx context.Context, seated bool, parentOrderID string) (*Result, error) {
	if f.state != StateCartOpen {
		return nil, fmt.Errorf("cannot submit from state %s", f.state)
	}
	f.state = StateSubmitting

	s := f.Session
	draft, err := f.API.GetOrder(ctx, s.StoreID, s.TableID, s.ConsumeType, seated)
	if err != nil {
		f.state = StateCartOpen
		return nil, err
	}

	if parentOrderID != "" {
		draft.ParentID = parentOrderID
		if f.ApproveAddOn != nil && !f.ApproveAddOn(draft) {
			f.state = StateCartOpen
			return nil, ErrAddOnDeclined
		}
	}

	placed, err := f.API.PlaceOrder(ctx, draft)
	if err != nil {
		f.state = StateCartOpen
		return nil, err
	}
	if f.Logger != nil {
		f.Logger.LogOrder("SUBMIT", placed.OrderID, fmt.Sprintf("placed, amount due %.2f", placed.Amount))
	}

	poll, err := f.Poller.Wait(ctx, placed.OrderID)
	if err != nil {
		// An aborted wait is not an exhausted budget; the visit was called
		// off mid-poll.
		f.finish(StateCancelled)
		return nil, err
	}

	result := &Result{OrderID: placed.OrderID, PayID: placed.PayID, Amount: placed.Amount, Poll: poll}
	switch poll.Outcome {
	case poller.OutcomeRejected:
		result.Final = f.finish(StateRejected)
	case poller.OutcomeExhausted:
		result.Final = f.finish(StateExhausted)
	case poller.OutcomeConfirmed:
		f.state = StateConfirmed
		result.Final = f.settle(ctx, result)
	}
	return result, nil
}

// settle runs payment for a confirmed order and returns the terminal it
// landed on. Orders with nothing due up front, such as scan-to-order, go
// straight to done.
func (f *Flow) settle(ctx context.Context, result *Result) State {
	if result.Amount <= 0 {
		return f.finish(StateConfirmed)
	}

	f.state = StatePaying
	if f.ApprovePayment != nil && !f.ApprovePayment(result.Amount) {
		if err := f.API.CancelPay(ctx, result.OrderID); err != nil && f.Logger != nil {
			f.Logger.LogOrder("CANCEL", result.OrderID, "cancel after declined payment failed: "+err.Error())
		}
		return f.finish(StateCancelled)
	}

	if err := f.API.Pay(ctx, result.PayID); err != nil {
		if f.Logger != nil {
			f.Logger.LogOrder("PAY", result.OrderID, "payment failed: "+err.Error())
		}
		return f.finish(StateCancelled)
	}
	return f.finish(StatePaid)
}

// finish hands the table back and parks the flow in the released state,
// returning the terminal the submission ended on. Every path out of a
// submission ends here, so no table lock outlives its visit.
func (f *Flow) finish(terminal State) State {
	f.state = terminal
	f.Session.End()
	f.state = StateTableReleased
	return terminal
}

// Abandon ends the visit without submitting anything.
func (f *Flow) Abandon() {
	f.Session.End()
	f.state = StateTableReleased
}

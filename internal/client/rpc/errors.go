package rpc

import (
	"errors"
	"fmt"
)

// Kind classifies a call failure by what the diner can do about it.
type Kind int

const (
	// KindTransport covers network failures and malformed envelopes. The
	// call may succeed if retried.
	KindTransport Kind = iota
	// KindAuthorization means the session token was rejected and could not
	// be refreshed.
	KindAuthorization
	// KindConflict means the backend refused the request because of state
	// owned by someone else, such as an occupied table or a rejected order.
	// Retrying the same call cannot succeed.
	KindConflict
	// KindValidation means the request itself was malformed.
	KindValidation
	// KindKitchenBusy means a cart line already submitted to the kitchen
	// cannot be taken back. Staff have to intervene.
	KindKitchenBusy
	// KindExhaustion means a bounded retry budget ran out without a
	// definitive answer.
	KindExhaustion
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindKitchenBusy:
		return "kitchen-busy"
	case KindExhaustion:
		return "exhaustion"
	default:
		return "unknown"
	}
}

// Error is the failure type every call in this package returns. Callers
// route on Kind; Advice is what a UI should show the diner.
type Error struct {
	Kind Kind
	Code int
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether repeating the same call could produce a
// different outcome.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport || e.Kind == KindExhaustion
}

// Advice is a user-facing hint matched to the failure class.
func (e *Error) Advice() string {
	switch e.Kind {
	case KindTransport, KindExhaustion:
		return "please check your connection and try again"
	case KindAuthorization:
		return "please log in again"
	case KindKitchenBusy:
		return "the kitchen has started on this item, please ask the staff"
	case KindConflict:
		return "this cannot be completed, please pick another option"
	default:
		return "the request was invalid"
	}
}

// ErrorKind extracts the Kind from any error returned by this package.
// Errors from elsewhere report as transport failures, the safest class to
// retry.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransport
}

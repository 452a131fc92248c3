// Package poller waits for a submitted order to be confirmed or rejected by
// the kitchen, under a fixed budget of status checks.
package poller

import (
	"context"
	"fmt"
	"time"

	"tableside/internal/logger"
	"tableside/internal/models"
)

const (
	// DefaultBudget is how many status checks one submission gets before
	// the diner is told to ask the staff.
	DefaultBudget = 10
	// DefaultDelay runs before every check, the first one included, to give
	// the kitchen a moment before the client starts asking.
	DefaultDelay = time.Second
)

// Outcome is the terminal answer of one polling run.
type Outcome int

const (
	// OutcomeConfirmed means the kitchen accepted the order.
	OutcomeConfirmed Outcome = iota
	// OutcomeRejected means the order cannot be fulfilled. Repolling the
	// same order will never change this.
	OutcomeRejected
	// OutcomeExhausted means the budget ran out without a definitive
	// answer. The order may still resolve later.
	OutcomeExhausted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeRejected:
		return "rejected"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Checker answers one status check with the backend's envelope code.
type Checker interface {
	Check(ctx context.Context, orderID string) (int, error)
}

// Result reports how the run ended. An exhausted run keeps pending answers
// and transport failures apart so the UI can say "still cooking" rather than
// "connection trouble" when that is what actually happened.
type Result struct {
	Outcome           Outcome
	Attempts          int
	Pending           int
	TransportFailures int
}

// Poller runs bounded, strictly sequential status checks. Zero values fall
// back to the defaults.
type Poller struct {
	Checker Checker
	Logger  *logger.Logger
	Budget  int
	Delay   time.Duration
}

func New(checker Checker, log *logger.Logger) *Poller {
	return &Poller{Checker: checker, Logger: log}
}

// Wait polls until the order resolves or the budget runs out. Each attempt
// waits the delay first; a failed check spends budget like any other
// attempt, so a dead network cannot poll forever. Context cancellation
// abandons the run immediately.
func (p *Poller) Wait(ctx context.Context, orderID string) (*Result, error) {
	budget := p.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	delay := p.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}

	result := &Result{}
	timer := time.NewTimer(delay)
	defer timer.Stop()

	for attempt := 1; attempt <= budget; attempt++ {
		if attempt > 1 {
			timer.Reset(delay)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("polling order %s: %w", orderID, ctx.Err())
		case <-timer.C:
		}

		result.Attempts = attempt
		code, err := p.Checker.Check(ctx, orderID)
		if err != nil {
			result.TransportFailures++
			if p.Logger != nil {
				p.Logger.LogPoll(orderID, attempt, "check failed: "+err.Error())
			}
			continue
		}

		// Any answered code other than pending is terminal: the backend has
		// resolved the order one way or the other, and repolling cannot
		// change its mind.
		switch code {
		case models.CodeOK:
			result.Outcome = OutcomeConfirmed
			if p.Logger != nil {
				p.Logger.LogPoll(orderID, attempt, "order confirmed")
			}
			return result, nil
		case models.CodePending:
			result.Pending++
			if p.Logger != nil {
				p.Logger.LogPoll(orderID, attempt, "still pending")
			}
		default:
			result.Outcome = OutcomeRejected
			if p.Logger != nil {
				p.Logger.LogPoll(orderID, attempt, fmt.Sprintf("order not fulfillable, code %d", code))
			}
			return result, nil
		}
	}

	result.Outcome = OutcomeExhausted
	return result, nil
}

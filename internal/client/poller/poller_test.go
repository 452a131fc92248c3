package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/client/rpc"
	"tableside/internal/models"
)

// scriptedChecker answers checks from a fixed script, then repeats the last
// entry forever.
type scriptedChecker struct {
	script []func() (int, error)
	checks int
}

func pending() func() (int, error) {
	return func() (int, error) { return models.CodePending, nil }
}

func confirmed() func() (int, error) {
	return func() (int, error) { return models.CodeOK, nil }
}

func rejected() func() (int, error) {
	return func() (int, error) { return models.CodeConflict, nil }
}

func transportDown() func() (int, error) {
	return func() (int, error) { return 0, &rpc.Error{Kind: rpc.KindTransport, Msg: "down"} }
}

func (c *scriptedChecker) Check(ctx context.Context, orderID string) (int, error) {
	i := c.checks
	if i >= len(c.script) {
		i = len(c.script) - 1
	}
	c.checks++
	return c.script[i]()
}

func newPoller(c Checker, budget int) *Poller {
	p := New(c, nil)
	p.Budget = budget
	p.Delay = time.Millisecond
	return p
}

func TestWaitExhaustsBudgetOnEndlessPending(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){pending()}}
	p := newPoller(checker, 3)

	result, err := p.Wait(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, result.Outcome)
	assert.Equal(t, 3, checker.checks, "budget bounds the checks exactly")
	assert.Equal(t, 3, result.Pending)
	assert.Zero(t, result.TransportFailures)
}

func TestWaitStopsAtConfirmation(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){pending(), confirmed()}}
	p := newPoller(checker, 10)

	result, err := p.Wait(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, result.Outcome)
	assert.Equal(t, 2, checker.checks)
	assert.Equal(t, 2, result.Attempts)
}

func TestWaitStopsAtRejection(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){rejected()}}
	p := newPoller(checker, 10)

	result, err := p.Wait(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, 1, result.Attempts)
}

func TestTransportFailuresSpendBudgetButAreCountedApart(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){
		transportDown(), pending(), transportDown(),
	}}
	p := newPoller(checker, 3)

	result, err := p.Wait(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, result.Outcome)
	assert.Equal(t, 2, result.TransportFailures)
	assert.Equal(t, 1, result.Pending)
}

func TestUnknownTerminalCodeStopsImmediately(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){
		func() (int, error) { return models.CodeBadRequest, nil },
	}}
	p := newPoller(checker, 5)

	result, err := p.Wait(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeRejected, result.Outcome)
	assert.Equal(t, 1, checker.checks, "an answered non-pending code must not spend more budget")
	assert.Zero(t, result.Pending)
}

func TestWaitDelaysBeforeFirstCheck(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){confirmed()}}
	p := New(checker, nil)
	p.Budget = 1
	p.Delay = 30 * time.Millisecond

	start := time.Now()
	result, err := p.Wait(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeConfirmed, result.Outcome)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestWaitHonorsCancellation(t *testing.T) {
	checker := &scriptedChecker{script: []func() (int, error){pending()}}
	p := New(checker, nil)
	p.Delay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Wait(ctx, "order-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, checker.checks)
}

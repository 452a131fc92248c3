package occupancy

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/client/api"
	"tableside/internal/client/rpc"
	"tableside/internal/models"
)

type scriptedCaller struct {
	calls []string
	errs  map[string]error
}

func (c *scriptedCaller) Call(ctx context.Context, path string, params url.Values) (*rpc.Response, error) {
	c.calls = append(c.calls, path)
	if err := c.errs[path]; err != nil {
		return nil, err
	}
	return &rpc.Response{Code: models.CodeOK}, nil
}

func newGuard(caller *scriptedCaller) *Guard {
	return NewGuard(api.New(caller), nil)
}

func TestClaimSkipsTablelessTypes(t *testing.T) {
	caller := &scriptedCaller{}
	g := newGuard(caller)

	require.NoError(t, g.Claim(context.Background(), 7, 12, models.Pickup))
	require.NoError(t, g.Claim(context.Background(), 7, 12, models.Delivery))
	assert.Empty(t, caller.calls)
	assert.False(t, g.Held())
}

func TestClaimHoldsOnSuccess(t *testing.T) {
	caller := &scriptedCaller{}
	g := newGuard(caller)

	require.NoError(t, g.Claim(context.Background(), 7, 12, models.DineIn))
	assert.True(t, g.Held())
	assert.Equal(t, []string{"/is_occupied"}, caller.calls)
}

func TestDeniedClaimLeavesNothingHeld(t *testing.T) {
	caller := &scriptedCaller{errs: map[string]error{
		"/is_occupied": &rpc.Error{Kind: rpc.KindConflict, Msg: "table is occupied"},
	}}
	g := newGuard(caller)

	err := g.Claim(context.Background(), 7, 12, models.DineIn)
	require.Error(t, err)
	assert.Equal(t, rpc.KindConflict, rpc.ErrorKind(err))
	assert.False(t, g.Held())

	g.Release()
	assert.Equal(t, []string{"/is_occupied"}, caller.calls, "release after denied claim must not call the backend")
}

func TestReleaseIsIdempotent(t *testing.T) {
	caller := &scriptedCaller{}
	g := newGuard(caller)

	require.NoError(t, g.Claim(context.Background(), 7, 12, models.ScanToOrder))
	g.Release()
	g.Release()
	assert.Equal(t, []string{"/is_occupied", "/relieve_occupied"}, caller.calls)
	assert.False(t, g.Held())
}

func TestReleaseSwallowsBackendFailure(t *testing.T) {
	caller := &scriptedCaller{errs: map[string]error{
		"/relieve_occupied": &rpc.Error{Kind: rpc.KindTransport, Msg: "down"},
	}}
	g := newGuard(caller)

	require.NoError(t, g.Claim(context.Background(), 7, 12, models.DineIn))
	g.Release()
	assert.False(t, g.Held())
}

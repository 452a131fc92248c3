package cart

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/client/api"
	"tableside/internal/client/rpc"
	"tableside/internal/models"
)

// cartBackend mimics the backend's cart split: submitted lines are frozen
// once the kitchen has them, additions absorb every change.
type cartBackend struct {
	submitted map[int64]models.DishOrder
	additions map[int64]models.DishOrder
	calls     []string
	failAfter int // fail the nth mutation, 0 disables
	mutations int
}

func newCartBackend() *cartBackend {
	return &cartBackend{
		submitted: make(map[int64]models.DishOrder),
		additions: make(map[int64]models.DishOrder),
	}
}

func (b *cartBackend) payload() *rpc.Response {
	p := models.CartPayload{
		DishOrders:    make(map[int64]models.DishOrder),
		NewDishOrders: make(map[int64]models.DishOrder),
	}
	for id, line := range b.submitted {
		p.DishOrders[id] = line
		p.TotalPrice += line.DishPrice * float64(line.Quantity)
	}
	for id, line := range b.additions {
		p.NewDishOrders[id] = line
		p.TotalPrice += line.DishPrice * float64(line.Quantity)
	}
	body, _ := json.Marshal(p)
	return &rpc.Response{Code: models.CodeOK, Body: body}
}

func (b *cartBackend) Call(ctx context.Context, path string, params url.Values) (*rpc.Response, error) {
	b.calls = append(b.calls, path)
	dishID, _ := strconv.ParseInt(params.Get("dishId"), 10, 64)

	switch path {
	case "/get_cart":
		return b.payload(), nil
	case "/add_dish":
		b.mutations++
		if b.failAfter > 0 && b.mutations >= b.failAfter {
			return nil, &rpc.Error{Kind: rpc.KindTransport, Msg: "down"}
		}
		line := b.additions[dishID]
		line.DishID = dishID
		line.DishPrice = 28
		line.Quantity++
		line.IsAddition = true
		b.additions[dishID] = line
		return b.payload(), nil
	case "/remove_dish":
		b.mutations++
		line, ok := b.additions[dishID]
		if !ok || line.Quantity == 0 {
			if s, frozen := b.submitted[dishID]; frozen && s.Quantity > 0 {
				return &rpc.Response{Code: models.CodeKitchenBusy, Msg: "already cooking"},
					&rpc.Error{Kind: rpc.KindKitchenBusy, Code: models.CodeKitchenBusy, Msg: "already cooking"}
			}
			return &rpc.Response{Code: models.CodeBadRequest, Msg: "not in cart"},
				&rpc.Error{Kind: rpc.KindValidation, Code: models.CodeBadRequest, Msg: "not in cart"}
		}
		line.Quantity--
		if line.Quantity == 0 {
			delete(b.additions, dishID)
		} else {
			b.additions[dishID] = line
		}
		return b.payload(), nil
	}
	return &rpc.Response{Code: models.CodeOK}, nil
}

func newReconciler(b *cartBackend) *Reconciler {
	return NewReconciler(api.New(b), nil, nil, 7, 12)
}

func TestMergeAddsBothHalvesPerDish(t *testing.T) {
	merged := Merge(&models.CartPayload{
		DishOrders: map[int64]models.DishOrder{
			1: {DishID: 1, Quantity: 2, DiscountUsedCount: 1},
		},
		NewDishOrders: map[int64]models.DishOrder{
			1: {DishID: 1, Quantity: 1, DiscountUsedCount: 0, IsAddition: true},
			2: {DishID: 2, Quantity: 1, IsAddition: true},
		},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, 3, merged[1].Quantity)
	assert.Equal(t, 1, merged[1].DiscountUsedCount)
	assert.True(t, merged[1].IsAddition)
	assert.Equal(t, 1, merged[2].Quantity)
}

func TestApplyDeltaMatchingTargetMakesNoCall(t *testing.T) {
	b := newCartBackend()
	r := newReconciler(b)

	require.NoError(t, r.ApplyDelta(context.Background(), 1, 0))
	assert.Empty(t, b.calls)
}

func TestApplyDeltaWalksUpOneUnitPerCall(t *testing.T) {
	b := newCartBackend()
	r := newReconciler(b)

	require.NoError(t, r.ApplyDelta(context.Background(), 1, 3))
	assert.Equal(t, 3, r.Quantity(1))
	assert.Equal(t, []string{"/add_dish", "/add_dish", "/add_dish"}, b.calls)

	total, _ := r.Totals()
	assert.Equal(t, 84.0, total)
}

func TestApplyDeltaFailureKeepsLastAcceptedState(t *testing.T) {
	b := newCartBackend()
	b.failAfter = 3
	r := newReconciler(b)

	err := r.ApplyDelta(context.Background(), 1, 5)
	require.Error(t, err)
	assert.Equal(t, rpc.KindTransport, rpc.ErrorKind(err))
	assert.Equal(t, 2, r.Quantity(1), "only confirmed units stay in the cart")
}

func TestApplyDeltaCannotShrinkSubmittedLines(t *testing.T) {
	b := newCartBackend()
	b.submitted[1] = models.DishOrder{DishID: 1, DishPrice: 28, Quantity: 2}
	r := newReconciler(b)
	require.NoError(t, r.Refresh(context.Background()))
	require.Equal(t, 2, r.Quantity(1))

	err := r.ApplyDelta(context.Background(), 1, 1)
	require.Error(t, err)
	assert.Equal(t, rpc.KindKitchenBusy, rpc.ErrorKind(err))
	assert.Equal(t, 2, r.Quantity(1))
}

func TestAdditionsMergeOnTopOfSubmittedLines(t *testing.T) {
	b := newCartBackend()
	b.submitted[1] = models.DishOrder{DishID: 1, DishPrice: 28, Quantity: 2, DiscountUsedCount: 1}
	r := newReconciler(b)
	require.NoError(t, r.LoadExisting(context.Background(), "order-1"))

	require.NoError(t, r.ApplyDelta(context.Background(), 1, 3))
	line := r.Lines()[1]
	assert.Equal(t, 3, line.Quantity)
	assert.Equal(t, 1, line.DiscountUsedCount)
	assert.True(t, line.IsAddition)
}

func TestComboCapIsScarcestConstituent(t *testing.T) {
	r := newReconciler(newCartBackend())
	combo := models.Combo{ID: 9, DishIDs: []int64{1, 2, 3}}
	units := r.ComboCap(combo, map[int64]int{1: 4, 2: 1, 3: 6})
	assert.Equal(t, 1, units)
}

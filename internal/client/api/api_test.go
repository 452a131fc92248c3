package api

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/client/rpc"
	"tableside/internal/models"
)

type scriptedCaller struct {
	lastPath   string
	lastParams url.Values
	resp       *rpc.Response
	err        error
}

func (c *scriptedCaller) Call(ctx context.Context, path string, params url.Values) (*rpc.Response, error) {
	c.lastPath = path
	c.lastParams = params
	return c.resp, c.err
}

func body(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestClaimTableSendsTableIdentity(t *testing.T) {
	caller := &scriptedCaller{resp: &rpc.Response{Code: models.CodeOK}}
	a := New(caller)

	require.NoError(t, a.ClaimTable(context.Background(), 7, 12, models.DineIn))
	assert.Equal(t, "/is_occupied", caller.lastPath)
	assert.Equal(t, "7", caller.lastParams.Get("sid"))
	assert.Equal(t, "12", caller.lastParams.Get("tid"))
	assert.Equal(t, "1", caller.lastParams.Get("consumeType"))
}

func TestAddDishDecodesCartPayload(t *testing.T) {
	payload := models.CartPayload{TotalPrice: 56, Discount: 10}
	caller := &scriptedCaller{resp: &rpc.Response{Code: models.CodeOK, Body: body(t, payload)}}
	a := New(caller)

	got, err := a.AddDish(context.Background(), 3, 7, 12)
	require.NoError(t, err)
	assert.Equal(t, "/add_dish", caller.lastPath)
	assert.Equal(t, 56.0, got.TotalPrice)
	assert.Equal(t, 10.0, got.Discount)
}

func TestCheckReturnsCodeOnConflictEnvelope(t *testing.T) {
	caller := &scriptedCaller{
		resp: &rpc.Response{Code: models.CodeConflict, Msg: "rejected"},
		err:  &rpc.Error{Kind: rpc.KindConflict, Code: models.CodeConflict, Msg: "rejected"},
	}
	a := New(caller)

	code, err := a.Check(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.CodeConflict, code)
}

func TestCheckPropagatesTransportFailure(t *testing.T) {
	caller := &scriptedCaller{err: &rpc.Error{Kind: rpc.KindTransport, Msg: "down"}}
	a := New(caller)

	_, err := a.Check(context.Background(), "order-1")
	require.Error(t, err)
	assert.Equal(t, rpc.KindTransport, rpc.ErrorKind(err))
}

func TestPlaceOrderSerializesSnapshot(t *testing.T) {
	result := models.PlaceOrderResult{OrderID: "o-1", PayID: "p-1", Amount: 17}
	caller := &scriptedCaller{resp: &rpc.Response{Code: models.CodeOK, Body: body(t, result)}}
	a := New(caller)

	order := &models.Order{StoreID: 7, TableID: 12, OriginalPrice: 85}
	got, err := a.PlaceOrder(context.Background(), order)
	require.NoError(t, err)
	assert.Equal(t, "/add_user_order", caller.lastPath)
	assert.Equal(t, "o-1", got.OrderID)
	assert.Equal(t, 17.0, got.Amount)

	var sent models.Order
	require.NoError(t, json.Unmarshal([]byte(caller.lastParams.Get("order")), &sent))
	assert.Equal(t, 85.0, sent.OriginalPrice)
}

func TestCatalogDecodesDishesAndCombos(t *testing.T) {
	caller := &scriptedCaller{resp: &rpc.Response{Code: models.CodeOK, Body: body(t, map[string]interface{}{
		"dishes": []models.Dish{{ID: 1, Name: "Braised Pork", Price: 28, Stock: 5}},
		"combos": []models.Combo{{ID: 101, Name: "Pork Set", Price: 40, DishIDs: []int64{1, 2}, Stock: 2}},
	})}}
	a := New(caller)

	dishes, combos, err := a.Catalog(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/get_order_dish_info", caller.lastPath)
	assert.Equal(t, "7", caller.lastParams.Get("storeId"))
	require.Len(t, dishes, 1)
	require.Len(t, combos, 1)
	assert.Equal(t, []int64{1, 2}, combos[0].DishIDs)
	assert.Equal(t, 2, combos[0].Stock)
}

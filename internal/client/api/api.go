// Package api wraps the ordering backend's form endpoints in typed calls.
// Every method goes through a single rpc.Caller, so the whole surface can be
// scripted in tests.
package api

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"tableside/internal/client/rpc"
	"tableside/internal/models"
)

const (
	pathLogin           = "/login"
	pathIsOccupied      = "/is_occupied"
	pathRelieveOccupied = "/relieve_occupied"
	pathAddDish         = "/add_dish"
	pathRemoveDish      = "/remove_dish"
	pathGetCart         = "/get_cart"
	pathGetOrder        = "/get_order"
	pathAddOrder        = "/add_user_order"
	pathCheck           = "/check"
	pathPay             = "/pay"
	pathCancelPay       = "/cancelpay"
	pathOrderDishInfo   = "/get_order_dish_info"
)

// API is the typed client surface over the backend wire contract.
type API struct {
	Caller rpc.Caller
}

func New(caller rpc.Caller) *API {
	return &API{Caller: caller}
}

func (a *API) decode(resp *rpc.Response, out interface{}) error {
	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &rpc.Error{Kind: rpc.KindTransport, Msg: "decoding body", Err: err}
	}
	return nil
}

// LoginResult carries the identity the backend issued for this session.
type LoginResult struct {
	OpenID string `json:"openid"`
	Token  string `json:"token"`
}

func (a *API) Login(ctx context.Context, userID string) (*LoginResult, error) {
	resp, err := a.Caller.Call(ctx, pathLogin, url.Values{"userId": {userID}})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if err := a.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ClaimTable asks the backend to lock the table for this session. A denial
// comes back as a conflict error.
func (a *API) ClaimTable(ctx context.Context, storeID, tableID int64, consumeType models.ConsumeType) error {
	_, err := a.Caller.Call(ctx, pathIsOccupied, url.Values{
		"sid":         {formatInt(storeID)},
		"tid":         {formatInt(tableID)},
		"consumeType": {strconv.Itoa(int(consumeType))},
	})
	return err
}

// ReleaseTable frees the table lock. Releasing a free table is not an error.
func (a *API) ReleaseTable(ctx context.Context, storeID, tableID int64, consumeType models.ConsumeType) error {
	_, err := a.Caller.Call(ctx, pathRelieveOccupied, url.Values{
		"sid":         {formatInt(storeID)},
		"tid":         {formatInt(tableID)},
		"consumeType": {strconv.Itoa(int(consumeType))},
	})
	return err
}

func (a *API) AddDish(ctx context.Context, dishID, storeID, tableID int64) (*models.CartPayload, error) {
	resp, err := a.Caller.Call(ctx, pathAddDish, url.Values{
		"dishId": {formatInt(dishID)},
		"sid":    {formatInt(storeID)},
		"tid":    {formatInt(tableID)},
	})
	if err != nil {
		return nil, err
	}
	var payload models.CartPayload
	if err := a.decode(resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (a *API) RemoveDish(ctx context.Context, dishID, storeID int64) (*models.CartPayload, error) {
	resp, err := a.Caller.Call(ctx, pathRemoveDish, url.Values{
		"dishId": {formatInt(dishID)},
		"sid":    {formatInt(storeID)},
	})
	if err != nil {
		return nil, err
	}
	var payload models.CartPayload
	if err := a.decode(resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetCart fetches the session cart. A non-empty orderID seeds the cart from
// that order's lines so add-ons merge on top of what the kitchen already has.
func (a *API) GetCart(ctx context.Context, storeID int64, orderID string) (*models.CartPayload, error) {
	resp, err := a.Caller.Call(ctx, pathGetCart, url.Values{
		"sid":     {formatInt(storeID)},
		"orderId": {orderID},
	})
	if err != nil {
		return nil, err
	}
	var payload models.CartPayload
	if err := a.decode(resp, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GetOrder fetches the priced draft the backend computed from the cart. The
// client resubmits this snapshot verbatim; it never prices anything itself.
func (a *API) GetOrder(ctx context.Context, storeID, tableID int64, consumeType models.ConsumeType, seated bool) (*models.Order, error) {
	params := url.Values{
		"sid":         {formatInt(storeID)},
		"tid":         {formatInt(tableID)},
		"consumeType": {strconv.Itoa(int(consumeType))},
	}
	if seated {
		params.Set("seated", "1")
	}
	resp, err := a.Caller.Call(ctx, pathGetOrder, params)
	if err != nil {
		return nil, err
	}
	var order models.Order
	if err := a.decode(resp, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *API) PlaceOrder(ctx context.Context, order *models.Order) (*models.PlaceOrderResult, error) {
	raw, err := json.Marshal(order)
	if err != nil {
		return nil, &rpc.Error{Kind: rpc.KindValidation, Msg: "encoding order", Err: err}
	}
	resp, err := a.Caller.Call(ctx, pathAddOrder, url.Values{"order": {string(raw)}})
	if err != nil {
		return nil, err
	}
	var result models.PlaceOrderResult
	if err := a.decode(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Check returns the raw envelope code for the order's resolution state. The
// poller routes on the code, so a pending answer must not surface as an
// error here.
func (a *API) Check(ctx context.Context, orderID string) (int, error) {
	resp, err := a.Caller.Call(ctx, pathCheck, url.Values{"orderId": {orderID}})
	if err != nil {
		if resp != nil {
			return resp.Code, nil
		}
		return 0, err
	}
	return resp.Code, nil
}

func (a *API) Pay(ctx context.Context, payID string) error {
	_, err := a.Caller.Call(ctx, pathPay, url.Values{"payId": {payID}})
	return err
}

func (a *API) CancelPay(ctx context.Context, orderID string) error {
	_, err := a.Caller.Call(ctx, pathCancelPay, url.Values{"orderId": {orderID}})
	return err
}

// Catalog fetches the store's dishes and combos. Dishes arrive with the
// caller's remaining discount quota annotated; combos carry the sellable
// stock their scarcest constituent allows.
func (a *API) Catalog(ctx context.Context, storeID int64) ([]models.Dish, []models.Combo, error) {
	resp, err := a.Caller.Call(ctx, pathOrderDishInfo, url.Values{"storeId": {formatInt(storeID)}})
	if err != nil {
		return nil, nil, err
	}
	var body struct {
		Dishes []models.Dish  `json:"dishes"`
		Combos []models.Combo `json:"combos"`
	}
	if err := a.decode(resp, &body); err != nil {
		return nil, nil, err
	}
	return body.Dishes, body.Combos, nil
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

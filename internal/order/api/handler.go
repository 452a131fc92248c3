package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"tableside/internal/auth"
	"tableside/internal/models"
	"tableside/internal/order"
	"tableside/internal/pickup"
	"tableside/internal/utils"
)

// Handler exposes the wire contract the ordering client consumes. Every
// response is a {code,msg,body} envelope; HTTP status stays 200 for business
// failures so the client can route on the envelope code.
type Handler struct {
	OrderService *order.OrderService
	Sessions     *auth.SessionIssuer
	PickupQR     *pickup.QRGenerator
}

func formInt64(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(r.FormValue(key), 10, 64)
}

// writeServiceError maps business failures onto wire codes. Unknown errors
// are internal.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, order.ErrTableOccupied):
		utils.WriteCode(w, models.CodeConflict, "table is occupied, choose another or retry later", nil)
	case errors.Is(err, order.ErrStockExhausted):
		utils.WriteCode(w, models.CodeConflict, "the dish is sold out, someone was faster", nil)
	case errors.Is(err, order.ErrKitchenBusy):
		utils.WriteCode(w, models.CodeKitchenBusy, "the dish may already be cooking, please ask the staff to reduce it", nil)
	case errors.Is(err, order.ErrNotInCart), errors.Is(err, order.ErrEmptyCart):
		utils.WriteCode(w, models.CodeBadRequest, err.Error(), nil)
	default:
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// Login issues a session token. Upstream the app exchanges its platform code
// for a stable user id; here the id arrives directly.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	userID := r.FormValue("userId")
	if userID == "" {
		utils.WriteError(w, http.StatusBadRequest, "userId is required")
		return
	}
	token, err := h.Sessions.IssueToken(userID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteOK(w, map[string]string{"openid": userID, "token": token})
}

// IsOccupied claims the table for the calling session. Denied claims answer
// with a conflict code and leave all cart state untouched.
func (h *Handler) IsOccupied(w http.ResponseWriter, r *http.Request) {
	storeID, err := formInt64(r, "sid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid sid")
		return
	}
	tableID, err := formInt64(r, "tid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid tid")
		return
	}

	consumeType := models.DineIn
	if v := r.FormValue("consumeType"); v != "" {
		n, _ := strconv.Atoi(v)
		consumeType = models.ConsumeType(n)
	}

	userID := auth.UserID(r.Context())
	if err := h.OrderService.ClaimTable(r.Context(), storeID, tableID, consumeType, userID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, map[string]bool{"occupied": false})
}

// RelieveOccupied releases the table. The client calls this best-effort on
// teardown, so releasing a free table is not an error.
func (h *Handler) RelieveOccupied(w http.ResponseWriter, r *http.Request) {
	storeID, err := formInt64(r, "sid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid sid")
		return
	}
	tableID, err := formInt64(r, "tid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid tid")
		return
	}
	consumeType, _ := strconv.Atoi(r.FormValue("consumeType"))

	userID := auth.UserID(r.Context())
	if err := h.OrderService.ReleaseTable(r.Context(), storeID, tableID, models.ConsumeType(consumeType), userID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, nil)
}

func (h *Handler) AddDish(w http.ResponseWriter, r *http.Request) {
	dishID, err := formInt64(r, "dishId")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dishId")
		return
	}
	storeID, err := formInt64(r, "sid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid sid")
		return
	}
	tableID, _ := formInt64(r, "tid")

	payload, err := h.OrderService.AddDish(auth.UserID(r.Context()), dishID, storeID, tableID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, payload)
}

func (h *Handler) RemoveDish(w http.ResponseWriter, r *http.Request) {
	dishID, err := formInt64(r, "dishId")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid dishId")
		return
	}
	storeID, err := formInt64(r, "sid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid sid")
		return
	}

	payload, err := h.OrderService.RemoveDish(auth.UserID(r.Context()), dishID, storeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, payload)
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	storeID, err := formInt64(r, "sid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid sid")
		return
	}
	orderID := r.FormValue("orderId")

	payload, err := h.OrderService.GetCart(auth.UserID(r.Context()), orderID, storeID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, payload)
}

// GetOrder returns the authoritative draft snapshot the client must fetch
// immediately before submission.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	storeID, err := formInt64(r, "sid")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid sid")
		return
	}
	tableID, _ := formInt64(r, "tid")
	consumeType, _ := strconv.Atoi(r.FormValue("consumeType"))
	seated := r.FormValue("seated") == "1"

	draft, err := h.OrderService.DraftOrder(auth.UserID(r.Context()), storeID, tableID, models.ConsumeType(consumeType), seated)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, draft)
}

func (h *Handler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var o models.Order
	if err := json.Unmarshal([]byte(r.FormValue("order")), &o); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid order JSON: "+err.Error())
		return
	}
	o.UserID = auth.UserID(r.Context())

	result, err := h.OrderService.PlaceOrder(&o)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, result)
}

// Check answers the order's resolution state: PENDING until the resolver
// settles it, then OK or a conflict code.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	orderID := r.FormValue("orderId")
	if orderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	code, err := h.OrderService.Check(orderID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	switch code {
	case models.CodePending:
		utils.WriteCode(w, models.CodePending, "order is queued", nil)
	case models.CodeConflict:
		utils.WriteCode(w, models.CodeConflict, "order was rejected, the dishes were taken while you ordered", nil)
	default:
		utils.WriteOK(w, nil)
	}
}

func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	payID := r.FormValue("payId")
	if payID == "" {
		utils.WriteError(w, http.StatusBadRequest, "payId is required")
		return
	}
	if err := h.OrderService.Pay(payID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, nil)
}

func (h *Handler) CancelPay(w http.ResponseWriter, r *http.Request) {
	orderID := r.FormValue("orderId")
	if orderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId is required")
		return
	}
	if err := h.OrderService.CancelPay(orderID); err != nil {
		writeServiceError(w, err)
		return
	}
	utils.WriteOK(w, nil)
}

// GetOrderDishInfo returns the store catalog annotated with the caller's
// remaining discount quota.
func (h *Handler) GetOrderDishInfo(w http.ResponseWriter, r *http.Request) {
	storeID, err := formInt64(r, "storeId")
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid storeId")
		return
	}

	dishes, err := h.OrderService.CatalogForUser(auth.UserID(r.Context()), storeID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	combos, err := h.OrderService.ComboCatalog(storeID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteOK(w, map[string]interface{}{"dishes": dishes, "combos": combos})
}

// PickupCode renders the encrypted QR image the counter scans when a pickup
// order is collected.
func (h *Handler) PickupCode(w http.ResponseWriter, r *http.Request) {
	orderID := r.FormValue("orderId")
	if orderID == "" {
		utils.WriteError(w, http.StatusBadRequest, "orderId is required")
		return
	}

	o, err := h.OrderService.PickupOrder(auth.UserID(r.Context()), orderID)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	png, err := h.PickupQR.GenerateEncryptedQR(pickup.Code{
		OrderID:  o.ID,
		StoreID:  o.StoreID,
		UserID:   o.UserID,
		IssuedAt: time.Now(),
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/diewo77/go-stock/httpx"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/diewo77/go-stock/validation"
	"github.com/sirupsen/logrus"
)

type OrderHandler struct {
	shop services.Shop
	log  logrus.FieldLogger
}

func NewOrderHandler(shop services.Shop, log logrus.FieldLogger) *OrderHandler {
	return &OrderHandler{shop: shop, log: log}
}

// List is the order history, completed orders included.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.shop.ListAllOrders(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "total": len(orders)})
}

// Active is the board of unfinished orders.
func (h *OrderHandler) Active(w http.ResponseWriter, r *http.Request) {
	active, err := h.shop.ListActiveOrders(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"open":        active.Open,
		"in_progress": active.InProgress,
		"finalized":   active.Finalized,
		"total":       active.Count(),
	})
}

type createOrderRequest struct {
	Customer string               `json:"customer"`
	Items    []services.OrderLine `json:"items"`
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			badBody(w, err)
			return
		}
	} else {
		var ok bool
		if req, ok = h.orderFromForm(w, r); !ok {
			return
		}
	}

	order, err := h.shop.CreateOrder(r.Context(), req.Customer, req.Items)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

// orderFromForm reads repeated product_id/quantity pairs.
func (h *OrderHandler) orderFromForm(w http.ResponseWriter, r *http.Request) (createOrderRequest, bool) {
	if err := r.ParseForm(); err != nil {
		badBody(w, err)
		return createOrderRequest{}, false
	}
	req := createOrderRequest{Customer: r.PostForm.Get("customer")}
	ids, qtys := r.PostForm["product_id"], r.PostForm["quantity"]
	v := validation.Violations{}
	if len(ids) != len(qtys) {
		v["items"] = "product_id_quantity_mismatch"
	}
	for i := 0; i < len(ids) && i < len(qtys); i++ {
		id := validation.Integer("items["+strconv.Itoa(i)+"].product_id", ids[i], v)
		qty := validation.Integer("items["+strconv.Itoa(i)+"].quantity", qtys[i], v)
		if id < 0 {
			id = 0
		}
		req.Items = append(req.Items, services.OrderLine{ProductID: uint(id), Quantity: qty})
	}
	if !v.Empty() {
		writeError(w, r, h.log, &services.ValidationError{Violations: v})
		return createOrderRequest{}, false
	}
	return req, true
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.shop.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.shop.Advance(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.shop.Complete(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

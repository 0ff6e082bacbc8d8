package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-stock/httpx"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/diewo77/go-stock/validation"
	"github.com/sirupsen/logrus"
)

type CashFlowHandler struct {
	shop services.Shop
	log  logrus.FieldLogger
	now  func() time.Time
}

func NewCashFlowHandler(shop services.Shop, log logrus.FieldLogger) *CashFlowHandler {
	return &CashFlowHandler{shop: shop, log: log, now: time.Now}
}

// Entries lists the cash flow of ?date=, today by default.
func (h *CashFlowHandler) Entries(w http.ResponseWriter, r *http.Request) {
	date := dateParam(r, h.now)
	entries, err := h.shop.EntriesOn(r.Context(), date)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"date": date, "items": entries, "total": len(entries)})
}

func (h *CashFlowHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r)
	if err != nil {
		badBody(w, err)
		return
	}
	v := validation.Violations{}
	amount := validation.Decimal("amount", f["amount"], v)
	if !v.Empty() {
		writeError(w, r, h.log, &services.ValidationError{Violations: v})
		return
	}
	entry, err := h.shop.RecordExpense(r.Context(), amount, f["description"])
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *CashFlowHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	f, err := readFields(r)
	if err != nil {
		badBody(w, err)
		return
	}
	v := validation.Violations{}
	amount := validation.Decimal("amount", f["amount"], v)
	if !v.Empty() {
		writeError(w, r, h.log, &services.ValidationError{Violations: v})
		return
	}
	date := f["date"]
	if date == "" {
		date = h.now().Format(validation.DateLayout)
	}
	entry, err := h.shop.RecordSale(r.Context(), amount, date)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func dateParam(r *http.Request, now func() time.Time) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return now().Format(validation.DateLayout)
}

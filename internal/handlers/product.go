package handlers

import (
	"net/http"

	"github.com/diewo77/go-stock/httpx"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/sirupsen/logrus"
)

type ProductHandler struct {
	shop services.Shop
	log  logrus.FieldLogger
}

func NewProductHandler(shop services.Shop, log logrus.FieldLogger) *ProductHandler {
	return &ProductHandler{shop: shop, log: log}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.shop.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := h.productInput(w, r)
	if !ok {
		return
	}
	p, err := h.shop.AddProduct(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, p)
}

func (h *ProductHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.shop.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	in, ok := h.productInput(w, r)
	if !ok {
		return
	}
	p, err := h.shop.UpdateProduct(r.Context(), id, in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.shop.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

func (h *ProductHandler) productInput(w http.ResponseWriter, r *http.Request) (services.ProductInput, bool) {
	f, err := readFields(r)
	if err != nil {
		badBody(w, err)
		return services.ProductInput{}, false
	}
	return services.ProductInput{Name: f["name"], Quantity: f["quantity"], Price: f["price"]}, true
}

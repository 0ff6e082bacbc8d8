package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-stock/httpx"
	"github.com/diewo77/go-stock/i18n"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/sirupsen/logrus"
)

// writeError maps a service error kind to its HTTP status.
func writeError(w http.ResponseWriter, r *http.Request, log logrus.FieldLogger, err error) {
	lang := i18n.LangFromContext(r.Context())
	respond := func(status int, code string, details any) {
		httpx.JSONErrorMessage(w, status, code, i18n.T(lang, code), details)
	}

	var (
		verr *services.ValidationError
		oos  *services.OutOfStockError
	)
	switch {
	case errors.As(err, &verr):
		respond(http.StatusBadRequest, "validation_failed", verr.Violations)
	case errors.As(err, &oos):
		respond(http.StatusConflict, "out_of_stock", map[string]any{
			"product_id": oos.ProductID,
			"name":       oos.Name,
			"requested":  oos.Requested,
			"available":  oos.Available,
		})
	case errors.Is(err, services.ErrNotFound):
		respond(http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrInvalidTransition):
		respond(http.StatusConflict, "invalid_transition", err.Error())
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("request failed")
		respond(http.StatusInternalServerError, "storage_error", nil)
	}
}

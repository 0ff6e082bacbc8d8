package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/go-stock/httpx"
	"github.com/diewo77/go-stock/i18n"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/sirupsen/logrus"
)

type ReportHandler struct {
	shop     services.Shop
	log      logrus.FieldLogger
	currency string
	now      func() time.Time
}

func NewReportHandler(shop services.Shop, log logrus.FieldLogger, currency string) *ReportHandler {
	return &ReportHandler{shop: shop, log: log, currency: currency, now: time.Now}
}

// Daily serves the report of ?date= as JSON, or as the rendered
// statement when format=text or the client accepts text/plain.
func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.shop.DailyReport(r.Context(), dateParam(r, h.now))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	q := r.URL.Query()
	if q.Get("format") == "text" || strings.HasPrefix(r.Header.Get("Accept"), "text/plain") {
		lang := q.Get("lang")
		if !i18n.Supported(lang) {
			lang = i18n.LangFromContext(r.Context())
		}
		httpx.Text(w, http.StatusOK, report.Render(lang, h.currency))
		return
	}
	httpx.JSON(w, http.StatusOK, report)
}

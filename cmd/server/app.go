package main

import (
	"net/http"

	"github.com/diewo77/go-stock/httpx"
	"github.com/diewo77/go-stock/i18n"
	"github.com/diewo77/go-stock/internal/handlers"
	"github.com/diewo77/go-stock/internal/services"
	"github.com/sirupsen/logrus"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux      *http.ServeMux
	shop     services.Shop
	log      logrus.FieldLogger
	lang     string
	currency string
}

// NewApp creates a new application with all routes configured.
func NewApp(shop services.Shop, log logrus.FieldLogger, lang, currency string) *App {
	if !i18n.Supported(lang) {
		lang = i18n.DefaultLang
	}
	app := &App{
		mux:      http.NewServeMux(),
		shop:     shop,
		log:      log,
		lang:     lang,
		currency: currency,
	}
	app.setupRoutes()
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withPreferences(a.lang, a.mux).ServeHTTP(w, r)
}

// setupRoutes configures all application routes.
func (a *App) setupRoutes() {
	a.mux.HandleFunc("GET /healthz", a.health)

	ph := handlers.NewProductHandler(a.shop, a.log)
	a.mux.HandleFunc("GET /products", ph.List)
	a.mux.HandleFunc("POST /products", ph.Create)
	a.mux.HandleFunc("GET /products/{id}", ph.View)
	a.mux.HandleFunc("POST /products/{id}", ph.Update)
	a.mux.HandleFunc("POST /products/{id}/delete", ph.Delete)

	oh := handlers.NewOrderHandler(a.shop, a.log)
	a.mux.HandleFunc("GET /orders", oh.List)
	a.mux.HandleFunc("GET /orders/active", oh.Active)
	a.mux.HandleFunc("POST /orders", oh.Create)
	a.mux.HandleFunc("GET /orders/{id}", oh.View)
	a.mux.HandleFunc("POST /orders/{id}/advance", oh.Advance)
	a.mux.HandleFunc("POST /orders/{id}/complete", oh.Complete)

	ch := handlers.NewCashFlowHandler(a.shop, a.log)
	a.mux.HandleFunc("GET /cashflow", ch.Entries)
	a.mux.HandleFunc("POST /expenses", ch.RecordExpense)
	a.mux.HandleFunc("POST /sales", ch.RecordSale)

	rh := handlers.NewReportHandler(a.shop, a.log, a.currency)
	a.mux.HandleFunc("GET /reports/daily", rh.Daily)
}

func (a *App) health(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withPreferences picks the response language from ?lang=, then the lang
// cookie, then Accept-Language, then the configured default.
func withPreferences(def string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := def
		if h := r.Header.Get("Accept-Language"); h != "" {
			lang = i18n.DetectLanguage(h)
		}
		if c, err := r.Cookie("lang"); err == nil && i18n.Supported(c.Value) {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); i18n.Supported(q) {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

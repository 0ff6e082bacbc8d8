// Package i18n holds the user-facing strings of the shop in pt and en.
package i18n

import (
	"context"
	"strings"
)

// DefaultLang is used when no supported language is requested.
const DefaultLang = "pt"

var catalog = map[string]map[string]string{
	"pt": {
		// validation codes
		"required":             "Obrigatório",
		"not_an_integer":       "Deve ser um número inteiro",
		"not_a_number":         "Deve ser um número",
		"must_be_positive":     "Deve ser maior que zero",
		"too_large":            "Valor grande demais",
		"must_not_be_negative": "Não pode ser negativo",
		"invalid_date":         "Data inválida (AAAA-MM-DD)",
		// errors
		"validation_failed":  "Dados inválidos",
		"not_found":          "Não encontrado",
		"out_of_stock":       "Estoque insuficiente",
		"invalid_transition": "Mudança de status não permitida",
		"storage_error":      "Erro ao acessar o banco de dados",
		"bad_request":        "Requisição inválida",
		// report
		"report.title":    "Relatório de Caixa",
		"report.sales":    "Total de Vendas",
		"report.expenses": "Total de Despesas",
		"report.balance":  "Saldo do Dia",
		"report.details":  "Detalhes",
		"report.sale":     "Venda",
		"report.customer": "Cliente",
		"report.items":    "Itens",
		// order status
		"status.open":        "Aberto",
		"status.in_progress": "Em Andamento",
		"status.finalized":   "Finalizado",
		"status.completed":   "Concluído",
	},
	"en": {
		"required":             "Required",
		"not_an_integer":       "Must be a whole number",
		"not_a_number":         "Must be a number",
		"must_be_positive":     "Must be greater than zero",
		"too_large":            "Value is too large",
		"must_not_be_negative": "Must not be negative",
		"invalid_date":         "Invalid date (YYYY-MM-DD)",

		"validation_failed":  "Invalid input",
		"not_found":          "Not found",
		"out_of_stock":       "Not enough stock",
		"invalid_transition": "Status change not allowed",
		"storage_error":      "Database error",
		"bad_request":        "Bad request",

		"report.title":    "Cash Report",
		"report.sales":    "Total Sales",
		"report.expenses": "Total Expenses",
		"report.balance":  "Daily Balance",
		"report.details":  "Details",
		"report.sale":     "Sale",
		"report.customer": "Customer",
		"report.items":    "Items",

		"status.open":        "Open",
		"status.in_progress": "In Progress",
		"status.finalized":   "Finalized",
		"status.completed":   "Completed",
	},
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// T translates code into lang, falling back to the default language and
// then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// TranslateAll maps every value of codes (field -> code) through T.
func TranslateAll(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for field, code := range codes {
		out[field] = T(lang, code)
	}
	return out
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, ignoring region and quality suffixes.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if Supported(base) {
			return base
		}
	}
	return DefaultLang
}

type ctxKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, ctxKey{}, lang)
}

// LangFromContext returns the language stored by WithLang or DefaultLang.
func LangFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return DefaultLang
}

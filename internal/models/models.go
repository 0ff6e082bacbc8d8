// Package models holds the persisted shop entities.
package models

// All lists every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&Product{},
		&Order{},
		&OrderItem{},
		&CashFlowEntry{},
	}
}

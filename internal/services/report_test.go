package services

import (
	"context"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDailyReport_ExpenseAndSale(t *testing.T) {
	f := newFixture(t, jan1)
	ctx := context.Background()

	_, err := f.shop.RecordExpense(ctx, decimal.RequireFromString("20.00"), "Rent")
	require.NoError(t, err)
	_, err = f.shop.RecordSale(ctx, decimal.RequireFromString("50.00"), "2024-01-01")
	require.NoError(t, err)

	r, err := f.shop.DailyReport(ctx, "2024-01-01")
	require.NoError(t, err)
	assertMoney(t, "50.00", r.Sales)
	assertMoney(t, "20.00", r.Expenses)
	assertMoney(t, "30.00", r.Balance)
	assert.Len(t, r.Entries, 2)
}

func TestDailyReport_EmptyDay(t *testing.T) {
	f := newFixture(t, jan1)
	r, err := f.shop.DailyReport(context.Background(), "2024-02-29")
	require.NoError(t, err)
	assert.True(t, r.Sales.IsZero())
	assert.True(t, r.Expenses.IsZero())
	assert.True(t, r.Balance.IsZero())
	assert.Empty(t, r.Entries)

	_, err = f.shop.DailyReport(context.Background(), "2024-02-30")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDailyReport_BalanceOverInterleavings(t *testing.T) {
	f := newFixture(t, jan1)
	ctx := context.Background()
	widget := addProduct(t, f, "Widget", "1000", "2.50")
	rng := rand.New(rand.NewSource(7))

	sales, expenses := decimal.Zero, decimal.Zero
	for i := 0; i < 40; i++ {
		if rng.Intn(2) == 0 {
			amount := decimal.New(int64(rng.Intn(10000)+1), -2)
			_, err := f.shop.RecordExpense(ctx, amount, "misc")
			require.NoError(t, err)
			expenses = expenses.Add(amount)
			continue
		}
		qty := rng.Intn(5) + 1
		o, err := f.shop.CreateOrder(ctx, "C", []OrderLine{{ProductID: widget.ID, Quantity: qty}})
		require.NoError(t, err)
		sales = sales.Add(o.Total())
	}

	// the step clock stays within one day for 40 calls
	r, err := f.shop.DailyReport(ctx, "2024-01-01")
	require.NoError(t, err)
	assertMoney(t, sales.StringFixed(2), r.Sales)
	assertMoney(t, expenses.StringFixed(2), r.Expenses)
	assert.True(t, r.Balance.Equal(r.Sales.Sub(r.Expenses)))
}

func TestReport_Render(t *testing.T) {
	f := newFixture(t, jan1)
	ctx := context.Background()
	widget := addProduct(t, f, "Widget", "10", "2.50")

	order, err := f.shop.CreateOrder(ctx, "Ana", []OrderLine{{ProductID: widget.ID, Quantity: 3}})
	require.NoError(t, err)
	_, err = f.shop.RecordExpense(ctx, decimal.RequireFromString("20"), "Rent")
	require.NoError(t, err)
	_, err = f.shop.RecordSale(ctx, decimal.RequireFromString("50"), "2024-01-01")
	require.NoError(t, err)

	r, err := f.shop.DailyReport(ctx, "2024-01-01")
	require.NoError(t, err)
	require.NotNil(t, r.Entries[0].OrderID)
	assert.Equal(t, order.ID, *r.Entries[0].OrderID)
	assert.Equal(t, "Ana", r.Entries[0].Customer)

	want := "Relatório de Caixa - 2024-01-01\n\n" +
		"Total de Vendas: R$ 57.50\n" +
		"Total de Despesas: R$ 20.00\n" +
		"Saldo do Dia: R$ 37.50\n\n" +
		"Detalhes:\n" +
		"Venda #1 - Cliente: Ana - R$ 7.50\n" +
		"  Itens: 3x Widget\n" +
		"Despesa: Rent: R$ 20.00\n" +
		"Venda: R$ 50.00\n"
	assert.Equal(t, want, r.Render("pt", "R$"))

	en := r.Render("en", "$")
	assert.Contains(t, en, "Cash Report - 2024-01-01")
	assert.Contains(t, en, "Daily Balance: $ 37.50")
	assert.Contains(t, en, "Sale #1 - Customer: Ana - $ 7.50")
}

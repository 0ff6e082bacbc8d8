package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/diewo77/go-stock/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct_ListedAsGiven(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	p, err := f.shop.AddProduct(ctx, ProductInput{Name: " Widget ", Quantity: "10", Price: "2.50"})
	require.NoError(t, err)
	assert.NotZero(t, p.ID)

	products, err := f.shop.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, p.ID, products[0].ID)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, 10, products[0].Quantity)
	assertMoney(t, "2.50", products[0].Price)
}

func TestAddProduct_Validation(t *testing.T) {
	f := newFixture(t, time.Now())

	tests := []struct {
		name  string
		in    ProductInput
		field string
		code  string
	}{
		{"missing name", ProductInput{Quantity: "1", Price: "1"}, "name", "required"},
		{"fractional quantity", ProductInput{Name: "A", Quantity: "1.5", Price: "1"}, "quantity", "not_an_integer"},
		{"negative quantity", ProductInput{Name: "A", Quantity: "-1", Price: "1"}, "quantity", "must_not_be_negative"},
		{"price text", ProductInput{Name: "A", Quantity: "1", Price: "abc"}, "price", "not_a_number"},
		{"negative price", ProductInput{Name: "A", Quantity: "1", Price: "-0.01"}, "price", "must_not_be_negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.shop.AddProduct(context.Background(), tt.in)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.code, verr.Violations[tt.field])
		})
	}

	products, err := f.shop.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAddProduct_CommaDecimal(t *testing.T) {
	f := newFixture(t, time.Now())
	p, err := f.shop.AddProduct(context.Background(), ProductInput{Name: "Bolo", Quantity: "0", Price: "25,9"})
	require.NoError(t, err)
	assertMoney(t, "25.90", p.Price)
	assert.Equal(t, 0, p.Quantity)
}

func TestUpdateProduct(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	p, err := f.shop.AddProduct(ctx, ProductInput{Name: "Widget", Quantity: "10", Price: "2.50"})
	require.NoError(t, err)

	updated, err := f.shop.UpdateProduct(ctx, p.ID, ProductInput{Name: "Widget XL", Quantity: "0", Price: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Name)

	got, err := f.shop.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", got.Name)
	assert.Equal(t, 0, got.Quantity)
	assertMoney(t, "3.00", got.Price)

	_, err = f.shop.UpdateProduct(ctx, 999, ProductInput{Name: "X", Quantity: "1", Price: "1"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.shop.UpdateProduct(ctx, p.ID, ProductInput{Name: "", Quantity: "1", Price: "1"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteProduct(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	p, err := f.shop.AddProduct(ctx, ProductInput{Name: "Widget", Quantity: "1", Price: "1"})
	require.NoError(t, err)

	require.NoError(t, f.shop.DeleteProduct(ctx, p.ID))
	_, err = f.shop.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// unknown id is a silent no-op
	assert.NoError(t, f.shop.DeleteProduct(ctx, p.ID))
}

func TestDecrementStock(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	p, err := f.shop.AddProduct(ctx, ProductInput{Name: "Widget", Quantity: "10", Price: "2.50"})
	require.NoError(t, err)

	after, err := f.shop.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, after.Quantity)

	_, err = f.shop.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)

	got, err := f.shop.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "decrements are additive")

	_, err = f.shop.DecrementStock(ctx, p.ID, 6)
	require.ErrorIs(t, err, ErrOutOfStock)
	var oos *OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, "Widget", oos.Name)
	assert.Equal(t, 6, oos.Requested)
	assert.Equal(t, 5, oos.Available)

	got, err = f.shop.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity, "failed decrement leaves stock alone")

	_, err = f.shop.DecrementStock(ctx, p.ID, 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.shop.DecrementStock(ctx, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, []string{events.TypeStockDecremented, events.TypeStockDecremented}, f.events.types())
}

func TestCheckStock(t *testing.T) {
	f := newFixture(t, time.Now())
	ctx := context.Background()

	p, err := f.shop.AddProduct(ctx, ProductInput{Name: "Widget", Quantity: "2", Price: "1"})
	require.NoError(t, err)

	_, err = f.shop.CheckStock(ctx, p.ID, 2)
	assert.NoError(t, err)

	_, err = f.shop.CheckStock(ctx, p.ID, 3)
	var oos *OutOfStockError
	require.True(t, errors.As(err, &oos))
	assert.Equal(t, 2, oos.Available)
}

func TestStorageFailure(t *testing.T) {
	f := newFixture(t, time.Now())
	sqlDB, err := f.conn.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.shop.ListProducts(context.Background())
	require.ErrorIs(t, err, ErrStorage)
	var serr *StorageError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "list products", serr.Op)
	assert.Error(t, serr.Unwrap())
}

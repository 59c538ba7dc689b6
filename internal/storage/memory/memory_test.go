package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

func TestProducts_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()

	p := product.Product{
		ID:        "p1",
		Name:      "Jus Alpukat",
		Price:     decimal.NewFromInt(15000),
		Stock:     2,
		Category:  "Minuman",
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Save(ctx, p))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Jus Alpukat", got.Name)

	name := "Jus Alpukat Besar"
	stock := 10
	require.NoError(t, repo.Update(ctx, "p1", product.Update{Name: &name, Stock: &stock}))

	got, err = repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Jus Alpukat Besar", got.Name)
	assert.Equal(t, 10, got.Stock)
	assert.True(t, decimal.NewFromInt(15000).Equal(got.Price))

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.GetByID(ctx, "p1")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProducts_ListInsertionOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Products()

	require.NoError(t, repo.Save(ctx, product.Product{ID: "p1", Name: "A"}))
	require.NoError(t, repo.Save(ctx, product.Product{ID: "p2", Name: "B"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p2", list[1].ID)
}

func TestProducts_UpdateUnknown(t *testing.T) {
	repo := NewStore().Products()

	name := "x"
	err := repo.Update(context.Background(), "missing", product.Update{Name: &name})
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestProducts_DeleteUnknownIsNoop(t *testing.T) {
	repo := NewStore().Products()

	require.NoError(t, repo.Delete(context.Background(), "missing"))
}

func TestTransactions_PrependOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Transactions()

	require.NoError(t, repo.Prepend(ctx, transaction.Transaction{ID: "1", Total: decimal.NewFromInt(10000)}))
	require.NoError(t, repo.Prepend(ctx, transaction.Transaction{ID: "2", Total: decimal.NewFromInt(20000)}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2", list[0].ID)
	assert.Equal(t, "1", list[1].ID)
}

func TestList_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.Products().Save(ctx, product.Product{ID: "p1", Name: "A"}))

	list, err := store.Products().List(ctx)
	require.NoError(t, err)
	list[0].Name = "mutated"

	got, err := store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "A", got.Name)
}

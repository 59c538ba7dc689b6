package cart

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arunika/kasir-pos/internal/domain/product"
)

// --- Mock implementations ---

type mockProductRepo struct {
	byID   map[string]*product.Product
	getErr error
}

func (m *mockProductRepo) List(_ context.Context) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (m *mockProductRepo) Save(_ context.Context, p product.Product) error {
	m.byID[p.ID] = &p
	return nil
}

func (m *mockProductRepo) Update(_ context.Context, id string, u product.Update) error {
	p, ok := m.byID[id]
	if !ok {
		return product.ErrNotFound
	}
	u.Apply(p)
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

// --- Helpers ---

func newTestProduct(id, name string, price int64, stock int) product.Product {
	return product.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Category: "Minuman",
	}
}

func newProductRepo(products ...product.Product) *mockProductRepo {
	byID := make(map[string]*product.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &mockProductRepo{byID: byID}
}

// --- Tests ---

func TestAddProduct_NewLine(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 2)))
	c := New()

	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ProductID)
	assert.Equal(t, "Jus Alpukat", items[0].Name)
	assert.Equal(t, 1, items[0].Quantity)
	assert.NotEmpty(t, items[0].ID)
	assert.True(t, decimal.NewFromInt(15000).Equal(items[0].Price))
}

func TestAddProduct_IncrementsExistingLine(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 2)))
	c := New()

	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestAddProduct_StockLimit(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 2)))
	c := New()

	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	err := svc.AddProduct(context.Background(), c, "p1")

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, "p1", isErr.ProductID)
	assert.Equal(t, 2, isErr.Stock)
	assert.Equal(t, 2, c.Items()[0].Quantity)
}

func TestAddProduct_OutOfStock(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 0)))
	c := New()

	err := svc.AddProduct(context.Background(), c, "p1")
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 0, c.Len())
}

func TestAddProduct_UnknownProduct(t *testing.T) {
	svc := NewService(newProductRepo())
	c := New()

	err := svc.AddProduct(context.Background(), c, "missing")
	require.ErrorIs(t, err, product.ErrNotFound)
}

func TestAddProduct_ChecksLiveStock(t *testing.T) {
	repo := newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 2))
	svc := NewService(repo)
	c := New()

	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	// Restock mid-session; the next add must see the new stock.
	stock := 3
	require.NoError(t, repo.Update(context.Background(), "p1", product.Update{Stock: &stock}))

	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	assert.Equal(t, 3, c.Items()[0].Quantity)
}

func TestAddProduct_SnapshotsPriceAtAddTime(t *testing.T) {
	repo := newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 5))
	svc := NewService(repo)
	c := New()

	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	price := decimal.NewFromInt(20000)
	require.NoError(t, repo.Update(context.Background(), "p1", product.Update{Price: &price}))

	assert.True(t, decimal.NewFromInt(15000).Equal(c.Items()[0].Price))
	assert.True(t, decimal.NewFromInt(15000).Equal(c.Total()))
}

func TestUpdateQuantity_Increment(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 5)))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	itemID := c.Items()[0].ID

	require.NoError(t, svc.UpdateQuantity(context.Background(), c, itemID, 1))
	assert.Equal(t, 2, c.Items()[0].Quantity)
}

func TestUpdateQuantity_BelowOneIsNoop(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 5)))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	itemID := c.Items()[0].ID

	require.NoError(t, svc.UpdateQuantity(context.Background(), c, itemID, -1))

	require.Len(t, c.Items(), 1)
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestUpdateQuantity_ExceedsStock(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 2)))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	itemID := c.Items()[0].ID

	err := svc.UpdateQuantity(context.Background(), c, itemID, 5)

	var isErr *InsufficientStockError
	require.ErrorAs(t, err, &isErr)
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestUpdateQuantity_UnknownItemIsNoop(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 5)))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	require.NoError(t, svc.UpdateQuantity(context.Background(), c, "missing", 1))
	assert.Equal(t, 1, c.Items()[0].Quantity)
}

func TestRemoveItem(t *testing.T) {
	svc := NewService(newProductRepo(
		newTestProduct("p1", "Jus Alpukat", 15000, 5),
		newTestProduct("p2", "Es Teh Manis", 5000, 5),
	))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	require.NoError(t, svc.AddProduct(context.Background(), c, "p2"))

	c.RemoveItem(c.Items()[0].ID)

	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ProductID)

	c.RemoveItem("missing")
	assert.Len(t, c.Items(), 1)
}

func TestTotal(t *testing.T) {
	svc := NewService(newProductRepo(
		newTestProduct("p1", "Jus Alpukat", 15000, 5),
		newTestProduct("p2", "Es Teh Manis", 5000, 5),
	))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))
	require.NoError(t, svc.AddProduct(context.Background(), c, "p2"))

	assert.True(t, decimal.NewFromInt(35000).Equal(c.Total()))
}

func TestClear(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 5)))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.True(t, decimal.Zero.Equal(c.Total()))
}

func TestItems_ReturnsCopy(t *testing.T) {
	svc := NewService(newProductRepo(newTestProduct("p1", "Jus Alpukat", 15000, 5)))
	c := New()
	require.NoError(t, svc.AddProduct(context.Background(), c, "p1"))

	items := c.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, c.Items()[0].Quantity)
}

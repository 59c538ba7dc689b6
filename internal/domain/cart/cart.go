// Package cart implements the session-local order aggregate a cashier
// assembles before checkout. Stock limits are always checked against the
// live catalog, never against a cached snapshot, so catalog edits made
// elsewhere in the same session are respected immediately.
package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arunika/kasir-pos/internal/domain/product"
)

// ErrOutOfStock is returned when a product with zero stock is added to a cart.
var ErrOutOfStock = errors.New("product is out of stock")

// InsufficientStockError indicates a requested quantity exceeds the
// product's current stock.
type InsufficientStockError struct {
	ProductID string
	Stock     int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: only %d available", e.ProductID, e.Stock)
}

// Item is a single cart line. Name and Price are captured from the product
// at add-time, so later catalog edits do not change lines already in the cart.
type Item struct {
	ID        string
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

// Cart holds the lines of an in-progress order. A cart belongs to exactly
// one cashier session and must not be shared across sessions.
type Cart struct {
	ID        string
	CreatedAt time.Time

	items []Item
}

// New creates an empty cart with a fresh identifier.
func New() *Cart {
	return &Cart{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
	}
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines in the cart.
func (c *Cart) Len() int {
	return len(c.items)
}

// Total returns the sum of price*quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

// RemoveItem removes the line with the given ID. Removing an unknown ID is
// a no-op.
func (c *Cart) RemoveItem(itemID string) {
	for i, it := range c.items {
		if it.ID == itemID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Clear discards all lines.
func (c *Cart) Clear() {
	c.items = nil
}

// Service mutates carts against the live product catalog.
type Service struct {
	products product.Repository
}

// NewService creates a cart Service backed by the given catalog.
func NewService(products product.Repository) *Service {
	return &Service{products: products}
}

// AddProduct adds one unit of the product to the cart. If a line for the
// product already exists its quantity is incremented instead of appending a
// duplicate line.
//
// Returns ErrOutOfStock when the product has zero stock, and
// InsufficientStockError when the incremented quantity would exceed the
// product's current stock.
func (s *Service) AddProduct(ctx context.Context, c *Cart, productID string) error {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if p.Stock == 0 {
		return ErrOutOfStock
	}

	for i, it := range c.items {
		if it.ProductID == productID {
			if it.Quantity+1 > p.Stock {
				return &InsufficientStockError{ProductID: productID, Stock: p.Stock}
			}
			c.items[i].Quantity++
			return nil
		}
	}

	c.items = append(c.items, Item{
		ID:        uuid.New().String(),
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
	return nil
}

// UpdateQuantity adjusts a line's quantity by delta against the product's
// current stock. A resulting quantity below 1 is a no-op rather than a
// removal; use RemoveItem to drop a line. Unknown item IDs are a no-op.
func (s *Service) UpdateQuantity(ctx context.Context, c *Cart, itemID string, delta int) error {
	for i, it := range c.items {
		if it.ID != itemID {
			continue
		}

		newQuantity := it.Quantity + delta
		if newQuantity < 1 {
			return nil
		}

		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return err
		}
		if newQuantity > p.Stock {
			return &InsufficientStockError{ProductID: it.ProductID, Stock: p.Stock}
		}

		c.items[i].Quantity = newQuantity
		return nil
	}
	return nil
}

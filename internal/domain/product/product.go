package product

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Categories is the set of catalog categories suggested by the UI.
// Category is free text, so values outside this list are accepted.
var Categories = []string{"Makanan", "Minuman", "Snack", "Lainnya"}

// Product represents a catalog item available for sale.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Description string
	CreatedAt   time.Time
}

// Update describes a partial modification of a product. Nil fields are
// left unchanged.
type Update struct {
	Name        *string
	Price       *decimal.Decimal
	Stock       *int
	Category    *string
	Description *string
}

// Apply merges the update into p.
func (u Update) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
}

// Repository defines persistence operations for the product catalog.
//
// Implementations rewrite the whole persisted collection on every mutation.
// The store assumes a single active cashier session; concurrent writers from
// separate processes are last-write-wins.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p Product) error
	Update(ctx context.Context, id string, upd Update) error
	Delete(ctx context.Context, id string) error
}

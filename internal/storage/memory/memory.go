// Package memory provides an in-process storage backend. It is the default
// for development and the storage double used by unit tests.
package memory

import (
	"context"
	"sync"

	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

// Store keeps the product catalog and transaction log in memory.
type Store struct {
	mu           sync.RWMutex
	products     []product.Product
	transactions []transaction.Transaction
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Ping reports the store as always available.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op; it exists so all backends share a lifecycle.
func (s *Store) Close() error { return nil }

// Products exposes the catalog as a product.Repository.
func (s *Store) Products() product.Repository { return productView{s} }

// Transactions exposes the log as a transaction.Repository.
func (s *Store) Transactions() transaction.Repository { return transactionView{s} }

type productView struct{ s *Store }

var _ product.Repository = productView{}

// List returns the catalog in insertion order.
func (v productView) List(context.Context) ([]product.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	out := make([]product.Product, len(v.s.products))
	copy(out, v.s.products)
	return out, nil
}

// GetByID returns the product with the given ID, or product.ErrNotFound.
func (v productView) GetByID(_ context.Context, id string) (*product.Product, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	for _, p := range v.s.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, product.ErrNotFound
}

// Save appends the product to the catalog. No dedup by ID is performed.
func (v productView) Save(_ context.Context, p product.Product) error {
	v.s.mu.Lock()
	v.s.products = append(v.s.products, p)
	v.s.mu.Unlock()
	return nil
}

// Update applies a partial update to the product with the given ID.
func (v productView) Update(_ context.Context, id string, upd product.Update) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for i := range v.s.products {
		if v.s.products[i].ID == id {
			upd.Apply(&v.s.products[i])
			return nil
		}
	}
	return product.ErrNotFound
}

// Delete removes the product with the given ID. Unknown IDs are a no-op,
// matching the filter semantics of the persisted collection.
func (v productView) Delete(_ context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	for i := range v.s.products {
		if v.s.products[i].ID == id {
			v.s.products = append(v.s.products[:i], v.s.products[i+1:]...)
			return nil
		}
	}
	return nil
}

type transactionView struct{ s *Store }

var _ transaction.Repository = transactionView{}

// List returns the transaction log, most recent first.
func (v transactionView) List(context.Context) ([]transaction.Transaction, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	out := make([]transaction.Transaction, len(v.s.transactions))
	copy(out, v.s.transactions)
	return out, nil
}

// Prepend inserts the transaction at the head of the log.
func (v transactionView) Prepend(_ context.Context, tx transaction.Transaction) error {
	v.s.mu.Lock()
	v.s.transactions = append([]transaction.Transaction{tx}, v.s.transactions...)
	v.s.mu.Unlock()
	return nil
}

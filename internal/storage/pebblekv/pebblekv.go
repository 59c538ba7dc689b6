// Package pebblekv persists the catalog and transaction log in an embedded
// Pebble key-value store. Each named collection lives under a single key as
// a JSON document; every mutation reads the whole collection and rewrites
// it, which keeps the storage contract identical to the in-memory backend
// at single-store scale.
package pebblekv

import (
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

const (
	productsKey     = "products"
	transactionsKey = "transactions"

	// schemaVersion tags the persisted envelope. Version 0 (a bare JSON
	// array, the shape the legacy frontend wrote) is still readable and
	// is upgraded on the next write.
	schemaVersion = 1
)

// Store is a Pebble-backed storage backend.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) the store in dir.
func Open(dir string) (*Store, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, errors.Wrap(err, "pebble open")
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database answers reads.
func (s *Store) Ping(context.Context) error {
	_, closer, err := s.db.Get([]byte(productsKey))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "pebble get")
	}
	return closer.Close()
}

// Products exposes the catalog as a product.Repository.
func (s *Store) Products() product.Repository { return productView{s} }

// Transactions exposes the log as a transaction.Repository.
func (s *Store) Transactions() transaction.Repository { return transactionView{s} }

// envelope wraps a persisted collection with its schema version.
type envelope struct {
	Schema  int             `json:"schema"`
	Records json.RawMessage `json:"records"`
}

// readCollection loads the raw records array stored under key. A missing
// key yields an empty collection; a bare array (legacy shape) is accepted
// as-is.
func (s *Store) readCollection(key string) (json.RawMessage, error) {
	val, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return json.RawMessage("[]"), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	buf := append([]byte(nil), val...)
	if err := closer.Close(); err != nil {
		return nil, errors.Wrap(err, "close value")
	}

	if len(buf) > 0 && buf[0] == '[' {
		return json.RawMessage(buf), nil
	}

	var env envelope
	if err := json.Unmarshal(buf, &env); err != nil {
		return nil, errors.Wrapf(err, "decode %s envelope", key)
	}
	if env.Records == nil {
		return json.RawMessage("[]"), nil
	}
	return env.Records, nil
}

// writeCollection stores records under key inside a versioned envelope.
// The write is synced so a completed mutation survives process loss.
func (s *Store) writeCollection(key string, records any) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	buf, err := json.Marshal(envelope{Schema: schemaVersion, Records: raw})
	if err != nil {
		return errors.Wrapf(err, "encode %s envelope", key)
	}
	if err := s.db.Set([]byte(key), buf, pebble.Sync); err != nil {
		return errors.Wrapf(err, "set %s", key)
	}
	return nil
}

// productRecord is the persisted product shape. Field names match the
// legacy localStorage documents so old data stays readable.
type productRecord struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func toProductRecord(p product.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func (r productRecord) toDomain() product.Product {
	return product.Product{
		ID:          r.ID,
		Name:        r.Name,
		Price:       r.Price,
		Stock:       r.Stock,
		Category:    r.Category,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *Store) readProducts() ([]productRecord, error) {
	raw, err := s.readCollection(productsKey)
	if err != nil {
		return nil, err
	}
	var records []productRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return records, nil
}

type productView struct{ s *Store }

var _ product.Repository = productView{}

func (v productView) List(context.Context) ([]product.Product, error) {
	records, err := v.s.readProducts()
	if err != nil {
		return nil, err
	}
	out := make([]product.Product, len(records))
	for i, r := range records {
		out[i] = r.toDomain()
	}
	return out, nil
}

func (v productView) GetByID(_ context.Context, id string) (*product.Product, error) {
	records, err := v.s.readProducts()
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if r.ID == id {
			p := r.toDomain()
			return &p, nil
		}
	}
	return nil, product.ErrNotFound
}

func (v productView) Save(_ context.Context, p product.Product) error {
	records, err := v.s.readProducts()
	if err != nil {
		return err
	}
	records = append(records, toProductRecord(p))
	return v.s.writeCollection(productsKey, records)
}

func (v productView) Update(_ context.Context, id string, upd product.Update) error {
	records, err := v.s.readProducts()
	if err != nil {
		return err
	}
	for i, r := range records {
		if r.ID == id {
			p := r.toDomain()
			upd.Apply(&p)
			records[i] = toProductRecord(p)
			return v.s.writeCollection(productsKey, records)
		}
	}
	return product.ErrNotFound
}

func (v productView) Delete(_ context.Context, id string) error {
	records, err := v.s.readProducts()
	if err != nil {
		return err
	}
	kept := records[:0]
	for _, r := range records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return v.s.writeCollection(productsKey, kept)
}

// transactionRecord is the persisted transaction shape.
type transactionRecord struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Items         []itemRecord    `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentStatus string          `json:"paymentStatus"`
}

type itemRecord struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

func toTransactionRecord(tx transaction.Transaction) transactionRecord {
	items := make([]itemRecord, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = itemRecord{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}
	return transactionRecord{
		ID:            tx.ID,
		Date:          tx.Date,
		Items:         items,
		Total:         tx.Total,
		CustomerName:  tx.CustomerName,
		CustomerPhone: tx.CustomerPhone,
		PaymentMethod: tx.PaymentMethod,
		PaymentStatus: tx.PaymentStatus,
	}
}

func (r transactionRecord) toDomain() transaction.Transaction {
	items := make([]cart.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = cart.Item{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		}
	}
	return transaction.Transaction{
		ID:            r.ID,
		Date:          r.Date,
		Items:         items,
		Total:         r.Total,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		PaymentMethod: r.PaymentMethod,
		PaymentStatus: r.PaymentStatus,
	}
}

func (s *Store) readTransactions() ([]transactionRecord, error) {
	raw, err := s.readCollection(transactionsKey)
	if err != nil {
		return nil, err
	}
	var records []transactionRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, errors.Wrap(err, "decode transactions")
	}
	return records, nil
}

type transactionView struct{ s *Store }

var _ transaction.Repository = transactionView{}

// List returns the log in stored order, which is most recent first.
func (v transactionView) List(context.Context) ([]transaction.Transaction, error) {
	records, err := v.s.readTransactions()
	if err != nil {
		return nil, err
	}
	out := make([]transaction.Transaction, len(records))
	for i, r := range records {
		out[i] = r.toDomain()
	}
	return out, nil
}

// Prepend inserts the transaction at the head of the log.
func (v transactionView) Prepend(_ context.Context, tx transaction.Transaction) error {
	records, err := v.s.readTransactions()
	if err != nil {
		return err
	}
	records = append([]transactionRecord{toTransactionRecord(tx)}, records...)
	return v.s.writeCollection(transactionsKey, records)
}

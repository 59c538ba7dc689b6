package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

var _ transaction.Repository = (*TransactionRepository)(nil)

// TransactionRepository implements transaction.Repository backed by
// PostgreSQL. Line items are stored as JSONB snapshots, the way the log was
// persisted originally; they are never joined against the live catalog.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// itemJSON is the persisted line-item shape inside the JSONB column.
type itemJSON struct {
	ID        string `json:"id"`
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

// List returns the transaction log, most recent first.
func (r *TransactionRepository) List(ctx context.Context) ([]transaction.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, date, items, total, customer_name, customer_phone, payment_method, payment_status
		 FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	defer rows.Close()

	var out []transaction.Transaction
	for rows.Next() {
		var (
			tx       transaction.Transaction
			rawItems []byte
		)
		err := rows.Scan(&tx.ID, &tx.Date, &rawItems, &tx.Total,
			&tx.CustomerName, &tx.CustomerPhone, &tx.PaymentMethod, &tx.PaymentStatus)
		if err != nil {
			return nil, errors.Wrap(err, "scan transaction")
		}

		var items []itemJSON
		if err := json.Unmarshal(rawItems, &items); err != nil {
			return nil, errors.Wrapf(err, "decode items of transaction %q", tx.ID)
		}
		tx.Items = make([]cart.Item, len(items))
		for i, it := range items {
			price, err := decimalFromString(it.Price)
			if err != nil {
				return nil, errors.Wrapf(err, "decode price of transaction %q", tx.ID)
			}
			tx.Items[i] = cart.Item{
				ID:        it.ID,
				ProductID: it.ProductID,
				Name:      it.Name,
				Price:     price,
				Quantity:  it.Quantity,
			}
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// Prepend persists the transaction. Ordering is by date, so an insert is
// all that is needed; the row is immutable afterwards.
func (r *TransactionRepository) Prepend(ctx context.Context, tx transaction.Transaction) error {
	items := make([]itemJSON, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = itemJSON{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.String(),
			Quantity:  it.Quantity,
		}
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "encode items")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO transactions (id, date, items, total, customer_name, customer_phone, payment_method, payment_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		tx.ID, tx.Date, rawItems, tx.Total,
		tx.CustomerName, tx.CustomerPhone, tx.PaymentMethod, tx.PaymentStatus,
	)
	if err != nil {
		return errors.Wrapf(err, "insert transaction %q", tx.ID)
	}
	return nil
}

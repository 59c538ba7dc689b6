package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/arunika/kasir-pos/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

const productColumns = `id, name, price, stock, category, description, created_at`

func scanProduct(row pgx.Row) (product.Product, error) {
	var p product.Product
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.Description, &p.CreatedAt)
	return p, err
}

// List returns the catalog in creation order.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at, id`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	var out []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan product")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID returns a single product, or product.ErrNotFound.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, errors.Wrapf(err, "get product %q", id)
	}
	return &p, nil
}

// Save inserts the product.
func (r *ProductRepository) Save(ctx context.Context, p product.Product) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (id, name, price, stock, category, description, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Name, p.Price, p.Stock, p.Category, p.Description, p.CreatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "save product %q", p.ID)
	}
	return nil
}

// Update reads the product, merges the partial update, and rewrites the row
// inside one transaction, mirroring the read-and-rewrite contract of the
// other backends.
func (r *ProductRepository) Update(ctx context.Context, id string, upd product.Update) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.ErrNotFound
		}
		return errors.Wrapf(err, "get product %q", id)
	}

	upd.Apply(&p)
	_, err = tx.Exec(ctx,
		`UPDATE products SET name = $2, price = $3, stock = $4, category = $5, description = $6 WHERE id = $1`,
		p.ID, p.Name, p.Price, p.Stock, p.Category, p.Description,
	)
	if err != nil {
		return errors.Wrapf(err, "update product %q", id)
	}
	return tx.Commit(ctx)
}

// Delete removes the product. Unknown IDs are a no-op.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return errors.Wrapf(err, "delete product %q", id)
	}
	return nil
}

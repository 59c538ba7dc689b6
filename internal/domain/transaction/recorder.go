package transaction

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/product"
)

// ErrEmptyCart is returned when checkout is attempted on a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// MissingFieldError indicates a required checkout field was left empty.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// CheckoutRequest holds the customer-facing input for a checkout.
type CheckoutRequest struct {
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
}

// RecorderConfig tunes Recorder behaviour.
type RecorderConfig struct {
	// DecrementStock writes decremented stock values back to the catalog
	// after a successful checkout. The legacy app never did this, so it
	// defaults to off; the write is best-effort and only logged on failure.
	DecrementStock bool

	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Recorder converts finalized carts into immutable transactions appended to
// the persisted log.
type Recorder struct {
	transactions Repository
	products     product.Repository
	lg           *zap.Logger

	decrementStock bool
	now            func() time.Time

	mu     sync.Mutex
	lastID int64
}

// NewRecorder creates a Recorder writing to the given transaction log.
func NewRecorder(transactions Repository, products product.Repository, lg *zap.Logger, cfg RecorderConfig) *Recorder {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Recorder{
		transactions:   transactions,
		products:       products,
		lg:             lg,
		decrementStock: cfg.DecrementStock,
		now:            cfg.Now,
	}
}

// Checkout builds a transaction from the cart and prepends it to the log.
//
// The cart lines are copied by value, the total is computed once, and the
// payment status is set to Paid. The append is a single repository call, so
// a failed write leaves the log untouched. The cart itself is not cleared;
// that is the caller's decision.
func (r *Recorder) Checkout(ctx context.Context, c *cart.Cart, req CheckoutRequest) (*Transaction, error) {
	if c.Len() == 0 {
		return nil, ErrEmptyCart
	}
	switch {
	case req.CustomerName == "":
		return nil, &MissingFieldError{Field: "customerName"}
	case req.CustomerPhone == "":
		return nil, &MissingFieldError{Field: "customerPhone"}
	case req.PaymentMethod == "":
		return nil, &MissingFieldError{Field: "paymentMethod"}
	}

	now := r.now()
	tx := Transaction{
		ID:            r.nextID(now),
		Date:          now,
		Items:         c.Items(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: StatusPaid,
	}
	tx.Total = c.Total()

	if err := r.transactions.Prepend(ctx, tx); err != nil {
		return nil, errors.Wrap(err, "append transaction")
	}

	if r.decrementStock {
		r.writeBackStock(ctx, tx)
	}

	return &tx, nil
}

// nextID derives a unique identifier from the wall clock in milliseconds.
// Checkouts are sequential within one session, but two calls can still land
// in the same millisecond, so the last issued value is bumped when needed.
func (r *Recorder) nextID(now time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := now.UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return strconv.FormatInt(id, 10)
}

// writeBackStock decrements catalog stock for every line of the transaction.
// The transaction is already persisted at this point, so failures are logged
// rather than surfaced.
func (r *Recorder) writeBackStock(ctx context.Context, tx Transaction) {
	for _, it := range tx.Items {
		p, err := r.products.GetByID(ctx, it.ProductID)
		if err != nil {
			r.lg.Warn("stock write-back skipped",
				zap.String("product_id", it.ProductID),
				zap.Error(err),
			)
			continue
		}

		stock := p.Stock - it.Quantity
		if stock < 0 {
			stock = 0
		}
		if err := r.products.Update(ctx, it.ProductID, product.Update{Stock: &stock}); err != nil {
			r.lg.Warn("stock write-back failed",
				zap.String("product_id", it.ProductID),
				zap.Error(err),
			)
		}
	}
}

package transaction

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arunika/kasir-pos/internal/domain/cart"
)

// Payment statuses. Every transaction recorded through the Recorder is Paid;
// the other values exist for imported or manually edited logs.
const (
	StatusPaid      = "Paid"
	StatusPending   = "Pending"
	StatusCancelled = "Cancelled"
)

// PaymentMethods lists the methods the UI offers. The field itself is free
// text so imported logs with other labels remain readable.
var PaymentMethods = []string{"Tunai", "QRIS", "Transfer Bank"}

// Transaction is an immutable record of a completed sale. Items are value
// snapshots of the cart lines at checkout time; Total is computed once at
// creation and never recomputed.
type Transaction struct {
	ID            string
	Date          time.Time
	Items         []cart.Item
	Total         decimal.Decimal
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	PaymentStatus string
}

// Repository defines persistence operations for the transaction log.
// The log is ordered most-recent-first.
type Repository interface {
	List(ctx context.Context) ([]Transaction, error)
	Prepend(ctx context.Context, tx Transaction) error
}

// Package receipt renders transactions into the WhatsApp receipt message.
package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

// Config customizes the store branding on receipts. Zero values fall back
// to the Kedai Arunika defaults.
type Config struct {
	StoreName string
	Address   string
	// Location is the timezone used for the printed timestamp.
	Location *time.Location
}

// Formatter renders transactions as receipt text. Format is deterministic:
// the same transaction always yields byte-identical output.
type Formatter struct {
	storeName string
	address   string
	loc       *time.Location
	printer   *message.Printer
}

// NewFormatter creates a Formatter with the given branding.
func NewFormatter(cfg Config) *Formatter {
	if cfg.StoreName == "" {
		cfg.StoreName = "KEDAI ARUNIKA"
	}
	if cfg.Address == "" {
		cfg.Address = "Barumadehe, Kao Teluk, Kabupaten Halmahera Utara, Maluku Utara"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Formatter{
		storeName: cfg.StoreName,
		address:   cfg.Address,
		loc:       cfg.Location,
		printer:   message.NewPrinter(language.Indonesian),
	}
}

// Format renders the transaction as the customer-facing receipt message.
//
// The layout is fixed: brand header, thank-you line, timestamp, transaction
// number, one line per item ("name xN - Rp amount"), total, payment method,
// payment status, and the closing lines. Amounts use Indonesian digit
// grouping (15000 prints as 15.000).
func (f *Formatter) Format(tx transaction.Transaction) string {
	var b strings.Builder

	b.WriteString("*STRUK PEMBAYARAN " + f.storeName + "*\n")
	b.WriteString("*Terima Kasih Telah Berbelanja!*\n\n")

	b.WriteString("Tanggal: " + tx.Date.In(f.loc).Format("02/01/2006, 15.04.05") + "\n")
	b.WriteString("No. Transaksi: " + tx.ID + "\n\n")

	b.WriteString("*Detail Pesanan:*\n")
	for _, it := range tx.Items {
		amount := it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		b.WriteString(it.Name + " x" + strconv.Itoa(it.Quantity) + " - Rp " + f.rupiah(amount) + "\n")
	}

	b.WriteString("\n*Total: Rp " + f.rupiah(tx.Total) + "*\n\n")
	b.WriteString("Metode Pembayaran: " + tx.PaymentMethod + "\n")
	b.WriteString("Status: " + tx.PaymentStatus + "\n\n")
	b.WriteString(f.storeName + "! \U0001F64F\n")
	b.WriteString("Alamat " + f.address)

	return b.String()
}

// rupiah formats a decimal amount with id-ID thousands separators.
func (f *Formatter) rupiah(d decimal.Decimal) string {
	v, _ := d.Float64()
	return f.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// Package report derives sales figures from the transaction log.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

// DailySales is the revenue recorded on a single calendar day.
type DailySales struct {
	Date    string // YYYY-MM-DD, local time of the transaction
	Revenue decimal.Decimal
}

// Summary aggregates the whole transaction log.
type Summary struct {
	Revenue      decimal.Decimal
	Transactions int
	ItemsSold    int
	Average      decimal.Decimal
	Daily        []DailySales
}

// Summarize computes sales figures over the given transactions. It is a pure
// function of its input; cancelled transactions are excluded from revenue
// but still counted as log entries.
func Summarize(txs []transaction.Transaction) Summary {
	s := Summary{
		Revenue:      decimal.Zero,
		Average:      decimal.Zero,
		Transactions: len(txs),
	}

	byDay := make(map[string]decimal.Decimal)
	paid := 0
	for _, tx := range txs {
		if tx.PaymentStatus == transaction.StatusCancelled {
			continue
		}
		paid++
		s.Revenue = s.Revenue.Add(tx.Total)
		for _, it := range tx.Items {
			s.ItemsSold += it.Quantity
		}

		day := tx.Date.Format("2006-01-02")
		byDay[day] = byDay[day].Add(tx.Total)
	}

	if paid > 0 {
		s.Average = s.Revenue.Div(decimal.NewFromInt(int64(paid))).Round(2)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		s.Daily = append(s.Daily, DailySales{Date: day, Revenue: byDay[day]})
	}
	return s
}

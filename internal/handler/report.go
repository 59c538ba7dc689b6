package handler

import (
	"net/http"

	"github.com/arunika/kasir-pos/internal/domain/report"
)

type dailySalesJSON struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

type salesReportJSON struct {
	Revenue      float64          `json:"revenue"`
	Transactions int              `json:"transactions"`
	ItemsSold    int              `json:"itemsSold"`
	Average      float64          `json:"average"`
	Daily        []dailySalesJSON `json:"daily"`
}

func (h *Handler) salesReport(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s := report.Summarize(txs)
	out := salesReportJSON{
		Revenue:      s.Revenue.InexactFloat64(),
		Transactions: s.Transactions,
		ItemsSold:    s.ItemsSold,
		Average:      s.Average.InexactFloat64(),
		Daily:        make([]dailySalesJSON, len(s.Daily)),
	}
	for i, d := range s.Daily {
		out.Daily[i] = dailySalesJSON{Date: d.Date, Revenue: d.Revenue.InexactFloat64()}
	}
	writeJSON(w, http.StatusOK, out)
}

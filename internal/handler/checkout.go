package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

type checkoutRequest struct {
	CustomerName  string `json:"customerName"`
	CustomerPhone string `json:"customerPhone"`
	PaymentMethod string `json:"paymentMethod"`
}

// transactionJSON is the wire shape of a recorded transaction.
type transactionJSON struct {
	ID            string         `json:"id"`
	Date          time.Time      `json:"date"`
	Items         []cartItemJSON `json:"items"`
	Total         float64        `json:"total"`
	CustomerName  string         `json:"customerName"`
	CustomerPhone string         `json:"customerPhone"`
	PaymentMethod string         `json:"paymentMethod"`
	PaymentStatus string         `json:"paymentStatus"`
}

func toTransactionJSON(tx transaction.Transaction) transactionJSON {
	items := make([]cartItemJSON, len(tx.Items))
	for i, it := range tx.Items {
		items[i] = cartItemJSON{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
		}
	}
	return transactionJSON{
		ID:            tx.ID,
		Date:          tx.Date,
		Items:         items,
		Total:         tx.Total.InexactFloat64(),
		CustomerName:  tx.CustomerName,
		CustomerPhone: tx.CustomerPhone,
		PaymentMethod: tx.PaymentMethod,
		PaymentStatus: tx.PaymentStatus,
	}
}

type checkoutResponse struct {
	Transaction transactionJSON `json:"transaction"`
	Receipt     string          `json:"receipt"`
	WhatsAppURL string          `json:"whatsappUrl,omitempty"`
}

// checkout finalizes a cart: the transaction is recorded, the receipt is
// rendered, and the WhatsApp deep link is built. The cart is cleared only
// after the transaction is persisted; a dispatch failure does not fail the
// checkout, it just leaves the link out of the response.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cartID := chi.URLParam(r, "cartID")
	var tx *transaction.Transaction
	err := h.carts.With(cartID, func(c *cart.Cart) error {
		recorded, err := h.recorder.Checkout(r.Context(), c, transaction.CheckoutRequest{
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			PaymentMethod: req.PaymentMethod,
		})
		if err != nil {
			return err
		}
		tx = recorded
		c.Clear()
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.carts.Delete(cartID)

	resp := checkoutResponse{
		Transaction: toTransactionJSON(*tx),
		Receipt:     h.formatter.Format(*tx),
	}
	url, err := h.dispatcher.Dispatch(tx.CustomerPhone, resp.Receipt)
	if err != nil {
		zctx.From(r.Context()).Warn("receipt dispatch failed",
			zap.String("transaction_id", tx.ID),
			zap.Error(err),
		)
	}
	resp.WhatsAppURL = url

	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.transactions.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]transactionJSON, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionJSON(tx)
	}
	writeJSON(w, http.StatusOK, out)
}

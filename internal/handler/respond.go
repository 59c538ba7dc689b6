package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
)

// errorResponse is the JSON body of every non-2xx API response.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, errorResponse{Code: code, Message: message})
}

// writeDomainError maps domain errors to HTTP responses. Every recoverable
// error surfaces as a 4xx with the domain message; anything else is a 500
// with the detail kept in the log.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		insufficientErr *cart.InsufficientStockError
		missingErr      *transaction.MissingFieldError
	)
	switch {
	case errors.Is(err, product.ErrNotFound),
		errors.Is(err, cart.ErrCartNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, transaction.ErrEmptyCart),
		errors.As(err, &missingErr):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, cart.ErrOutOfStock),
		errors.As(err, &insufficientErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		zctx.From(r.Context()).Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody parses the request body into dst, rejecting unknown fields.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

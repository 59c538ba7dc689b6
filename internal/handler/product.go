package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arunika/kasir-pos/internal/domain/product"
)

// productJSON is the wire shape of a catalog product.
type productJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toProductJSON(p product.Product) productJSON {
	return productJSON{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.InexactFloat64(),
		Stock:       p.Stock,
		Category:    p.Category,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	out := make([]productJSON, len(products))
	for i, p := range products {
		out[i] = toProductJSON(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, product.Categories)
}

type createProductRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "name and category are required")
		return
	}
	if req.Price < 0 || req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price and stock must not be negative")
		return
	}

	p := product.Product{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Price:       decimal.NewFromFloat(req.Price),
		Stock:       req.Stock,
		Category:    req.Category,
		Description: req.Description,
		CreatedAt:   time.Now(),
	}
	if err := h.products.Save(r.Context(), p); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductJSON(p))
}

type updateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req updateProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		writeError(w, http.StatusBadRequest, "price must not be negative")
		return
	}
	if req.Stock != nil && *req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "stock must not be negative")
		return
	}

	upd := product.Update{
		Name:        req.Name,
		Stock:       req.Stock,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		upd.Price = &price
	}

	id := chi.URLParam(r, "productID")
	if err := h.products.Update(r.Context(), id, upd); err != nil {
		writeDomainError(w, r, err)
		return
	}

	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductJSON(*p))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Delete(r.Context(), chi.URLParam(r, "productID")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

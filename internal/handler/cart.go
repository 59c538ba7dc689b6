package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arunika/kasir-pos/internal/domain/cart"
)

// cartItemJSON is the wire shape of a cart line.
type cartItemJSON struct {
	ID        string  `json:"id"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// cartJSON is the wire shape of a cart with its derived total.
type cartJSON struct {
	ID    string         `json:"id"`
	Items []cartItemJSON `json:"items"`
	Total float64        `json:"total"`
}

func toCartJSON(c *cart.Cart) cartJSON {
	items := c.Items()
	out := cartJSON{
		ID:    c.ID,
		Items: make([]cartItemJSON, len(items)),
		Total: c.Total().InexactFloat64(),
	}
	for i, it := range items {
		out.Items[i] = cartItemJSON{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price.InexactFloat64(),
			Quantity:  it.Quantity,
		}
	}
	return out
}

func (h *Handler) createCart(w http.ResponseWriter, _ *http.Request) {
	c := h.carts.Create()
	writeJSON(w, http.StatusCreated, cartJSON{ID: c.ID, Items: []cartItemJSON{}})
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	var body cartJSON
	err := h.carts.With(chi.URLParam(r, "cartID"), func(c *cart.Cart) error {
		body = toCartJSON(c)
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) deleteCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Delete(chi.URLParam(r, "cartID"))
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeBody(r, &req); err != nil || req.ProductID == "" {
		writeError(w, http.StatusBadRequest, "productId is required")
		return
	}

	var body cartJSON
	err := h.carts.With(chi.URLParam(r, "cartID"), func(c *cart.Cart) error {
		if err := h.cartService.AddProduct(r.Context(), c, req.ProductID); err != nil {
			return err
		}
		body = toCartJSON(c)
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

type updateItemRequest struct {
	Delta int `json:"delta"`
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	itemID := chi.URLParam(r, "itemID")
	var body cartJSON
	err := h.carts.With(chi.URLParam(r, "cartID"), func(c *cart.Cart) error {
		if err := h.cartService.UpdateQuantity(r.Context(), c, itemID, req.Delta); err != nil {
			return err
		}
		body = toCartJSON(c)
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	var body cartJSON
	err := h.carts.With(chi.URLParam(r, "cartID"), func(c *cart.Cart) error {
		c.RemoveItem(itemID)
		body = toCartJSON(c)
		return nil
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, body)
}

// Package handler exposes the POS over an HTTP JSON API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arunika/kasir-pos/internal/domain/cart"
	"github.com/arunika/kasir-pos/internal/domain/product"
	"github.com/arunika/kasir-pos/internal/domain/transaction"
	"github.com/arunika/kasir-pos/internal/identity"
	"github.com/arunika/kasir-pos/internal/receipt"
	"github.com/arunika/kasir-pos/internal/whatsapp"
)

// Handler routes API requests to the domain services.
type Handler struct {
	products     product.Repository
	transactions transaction.Repository
	carts        *cart.Registry
	cartService  *cart.Service
	recorder     *transaction.Recorder
	formatter    *receipt.Formatter
	dispatcher   *whatsapp.Dispatcher
	idp          identity.Provider
}

// New constructs a Handler with its domain dependencies.
func New(
	products product.Repository,
	transactions transaction.Repository,
	carts *cart.Registry,
	cartService *cart.Service,
	recorder *transaction.Recorder,
	formatter *receipt.Formatter,
	dispatcher *whatsapp.Dispatcher,
	idp identity.Provider,
) *Handler {
	return &Handler{
		products:     products,
		transactions: transactions,
		carts:        carts,
		cartService:  cartService,
		recorder:     recorder,
		formatter:    formatter,
		dispatcher:   dispatcher,
		idp:          idp,
	}
}

// Routes mounts all API routes on a new router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// The legacy backend's only route: a plain-text greeting confirming
	// the server process is alive.
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Backend Kasir berjalan!"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", h.register)
		r.Post("/auth/login", h.login)

		r.Group(func(r chi.Router) {
			r.Use(h.requireAuth)

			r.Get("/products", h.listProducts)
			r.Post("/products", h.createProduct)
			r.Get("/products/categories", h.listCategories)
			r.Patch("/products/{productID}", h.updateProduct)
			r.Delete("/products/{productID}", h.deleteProduct)

			r.Post("/carts", h.createCart)
			r.Get("/carts/{cartID}", h.getCart)
			r.Delete("/carts/{cartID}", h.deleteCart)
			r.Post("/carts/{cartID}/items", h.addCartItem)
			r.Patch("/carts/{cartID}/items/{itemID}", h.updateCartItem)
			r.Delete("/carts/{cartID}/items/{itemID}", h.removeCartItem)
			r.Post("/carts/{cartID}/checkout", h.checkout)

			r.Get("/transactions", h.listTransactions)
			r.Get("/reports/sales", h.salesReport)
		})
	})

	return r
}

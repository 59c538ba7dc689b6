package cart

import (
	"sync"

	"github.com/go-faster/errors"
)

// ErrCartNotFound is returned when a cart ID is unknown to the registry.
var ErrCartNotFound = errors.New("cart not found")

// Registry holds the active carts of the running process, keyed by cart ID.
//
// Carts never outlive the process: the system is designed for one active
// cashier session, so there is nothing to recover after a restart. The mutex
// exists because HTTP requests may overlap even when cashiers do not; all
// cart mutation goes through With, which serializes access.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

// NewRegistry creates an empty cart registry.
func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*Cart)}
}

// Create registers and returns a new empty cart.
func (r *Registry) Create() *Cart {
	c := New()
	r.mu.Lock()
	r.carts[c.ID] = c
	r.mu.Unlock()
	return c
}

// With runs fn with exclusive access to the cart. It returns ErrCartNotFound
// when the ID is unknown; otherwise it returns fn's error.
func (r *Registry) With(id string, fn func(c *Cart) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.carts[id]
	if !ok {
		return ErrCartNotFound
	}
	return fn(c)
}

// Delete discards a cart. Deleting an unknown ID is a no-op.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	delete(r.carts, id)
	r.mu.Unlock()
}

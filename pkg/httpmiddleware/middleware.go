// Package httpmiddleware provides the HTTP middleware chain: panic
// recovery, CORS, rate limiting, request IDs, and request logging.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(http.Handler) http.Handler

// Wrap applies middlewares to h so that the first middleware in the list is
// the outermost.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

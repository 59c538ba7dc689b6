package httpmiddleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// AllowOrigins lists origins allowed to make cross-origin requests.
	// Empty or a single "*" allows all origins.
	AllowOrigins []string

	// AllowHeaders lists request headers clients may send. When empty, the
	// preflight's Access-Control-Request-Headers is echoed back.
	AllowHeaders []string

	// AllowCredentials exposes responses to credentialed requests. When set,
	// the wildcard origin is not used; the matching origin is echoed instead.
	AllowCredentials bool

	// MaxAge is how long (seconds) preflight results may be cached.
	MaxAge int
}

// CORS returns a middleware handling cross-origin requests and preflights.
// The POS frontend is served from a different origin than the API, so this
// mirrors the permissive CORS setup of the legacy backend by default.
func CORS(cfg CORSConfig) Middleware {
	allowAll := len(cfg.AllowOrigins) == 0
	allowed := make(map[string]string, len(cfg.AllowOrigins)) // lowercase -> original
	for _, o := range cfg.AllowOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(o)] = o
	}
	if cfg.AllowCredentials {
		// Browsers reject credentialed responses with a wildcard origin.
		allowAll = false
	}

	allowHeaders := strings.Join(cfg.AllowHeaders, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowOrigin := ""
			switch {
			case allowAll:
				allowOrigin = "*"
			default:
				allowOrigin = allowed[strings.ToLower(origin)]
			}
			if !allowAll {
				w.Header().Add("Vary", "Origin")
			}

			// Preflight request.
			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				if allowOrigin != "" {
					w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
					w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
					if allowHeaders != "" {
						w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
					} else if rh := r.Header.Get("Access-Control-Request-Headers"); rh != "" {
						w.Header().Set("Access-Control-Allow-Headers", rh)
					}
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
					if cfg.MaxAge > 0 {
						w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
					}
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			if allowOrigin != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/PalikaProfile/Profile-Backend/internal/httputil"
)

// CORS echoes the origin back only if it is on the allow-list.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Server-Timing", "Retry-After", "Cache-Control"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// RateLimit throttles by client IP. A non-positive limit disables it.
func RateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if requests <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
		}),
	)
}

// MutationsOnly applies mw to non-GET/HEAD/OPTIONS requests.
func MutationsOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		limited := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				limited.ServeHTTP(w, r)
			}
		})
	}
}

// PublicCache marks successful GET and HEAD responses cacheable for maxAge.
// Handlers that set their own Cache-Control keep it.
func PublicCache(maxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxAge <= 0 || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(&cachingWriter{ResponseWriter: w, maxAge: maxAge}, r)
		})
	}
}

type cachingWriter struct {
	http.ResponseWriter
	maxAge      time.Duration
	wroteHeader bool
}

func (c *cachingWriter) WriteHeader(status int) {
	if !c.wroteHeader {
		c.wroteHeader = true
		if status >= 200 && status < 300 && c.Header().Get("Cache-Control") == "" {
			httputil.CacheControl(c.ResponseWriter, c.maxAge)
		}
	}
	c.ResponseWriter.WriteHeader(status)
}

func (c *cachingWriter) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	return c.ResponseWriter.Write(b)
}

func (c *cachingWriter) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

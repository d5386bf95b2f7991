// Package requesttime provides middleware for request-scoped time.
// All operations within a single HTTP request observe the same "now",
// so bucket membership and audit timestamps stay consistent across one
// request even when it straddles midnight.
package requesttime

import (
	"net/http"
	"time"

	"ajanda/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context for all downstream reads.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

package testutil

import (
	"net/http"
	"time"

	"ajanda/pkg/requestcontext"
)

// AtTime pins the request-scoped clock, simulating the requesttime
// middleware. Timeline partitioning is midnight-sensitive, so handler tests
// should always pin a time instead of relying on the wall clock.
func AtTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// WithRequestMetadata simulates the metadata middleware.
func WithRequestMetadata(req *http.Request, requestID, clientIP, browser string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	ctx = requestcontext.WithClientMetadata(ctx, clientIP, "", browser)
	return req.WithContext(ctx)
}

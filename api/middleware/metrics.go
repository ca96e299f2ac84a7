package middleware

import (
	"net/http"

	"github.com/angelmondragon/gamewishlist-backend/pkg/metrics"
)

// Metrics records request counts and latencies; a nil recorder is a no-op.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return m.Middleware(next)
	}
}

// Package middleware carries the HTTP middleware shared by the dashboard
// routes: request rate limiting and Prometheus request metrics.
package middleware

import (
	"net/http"

	"github.com/go-chi/render"
	"golang.org/x/time/rate"
)

// RateLimit rejects requests beyond rps sustained requests per second with
// the given burst. All clients share one limiter; the dashboard is a
// single-user tool, not a public API.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]string{
					"error": "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import "net/http"

// MaxBody caps request bodies at limit bytes. Reads past the cap fail, which
// handlers report as a bad or oversized request. limit <= 0 disables the cap.
func MaxBody(limit int64) Middleware {
	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

package auth

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// APIKey returns HTTP middleware that enforces API key authentication on
// every request.
//
// Behaviour:
//   - If mode != "apikey" or key == "", all requests are allowed (pass-through).
//   - Otherwise the value of header is compared to key.
//   - A missing, empty, or incorrect key is answered with 401 and a JSON error.
func APIKey(mode, header, key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if mode != "apikey" || key == "" {
			return next
		}
		want := []byte(key)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(header)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				slog.Debug("auth: rejected request", "path", r.URL.Path, "remote", r.RemoteAddr)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"invalid api key"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

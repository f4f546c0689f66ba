package middleware

import (
	"context"
	"net/http"

	"battleship-server/internal/config"
)

type CtxKey int

const (
	CtxSessionClaims CtxKey = iota
)

// Session decodes the signed session cookie and, when valid, stores its
// claims in the request context. A bad or expired cookie is cleared so
// the browser lands back on the new-game form.
func Session(cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseSessionClaims(r)
			if err != nil {
				cookies.Clear(w)
				h.ServeHTTP(w, r)
				return
			}
			ctx := context.WithValue(r.Context(), CtxSessionClaims, claims)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

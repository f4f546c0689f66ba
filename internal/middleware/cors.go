package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows any origin with credentials so a separately hosted client
// can keep its session cookie.
func Cors() func(http.Handler) http.Handler {
	options := cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}
	return cors.New(options).Handler
}

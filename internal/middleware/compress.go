package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

// Compress encodes responses with gzip or deflate when the client accepts
// it.
func Compress() Middleware {
	return func(next http.Handler) http.Handler {
		return handlers.CompressHandler(next)
	}
}

package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID is the header carrying the request correlation id.
const HeaderRequestID = "X-Request-Id"

// RequestID ensures every request carries an X-Request-Id header, generating
// one when the client did not send one. The id is echoed on the response and
// visible to downstream handlers via the request headers.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if id == "" {
				id = uuid.New().String()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r)
		})
	}
}

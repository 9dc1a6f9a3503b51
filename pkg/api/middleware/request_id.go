package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey avoids collisions with other packages' context values.
type contextKey string

const requestIDKey contextKey = "request_id"

// headerRequestID is the wire header carrying the request ID in and out.
const headerRequestID = "X-Request-ID"

// RequestID tags every request with an ID: the caller's, when it supplies
// one, or a freshly generated UUID. The ID travels down through the request
// context and back out on the response header so a client-reported failure
// can be matched to server logs.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.New().String()
			}

			w.Header().Set(headerRequestID, id)
			ctx := context.WithValue(r.Context(), requestIDKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetRequestID returns the request ID stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

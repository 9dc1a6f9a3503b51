package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/logger"
)

// Recovery converts a handler panic into a logged 500 instead of tearing
// down the connection.
func Recovery(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				log.Error("Panic recovered",
					"error", rec,
					"path", r.URL.Path,
					"method", r.Method,
					"stack", string(debug.Stack()),
				)

				requestID := r.Header.Get(headerRequestID)
				if requestID == "" {
					requestID = "unknown"
				}
				response.Error(w,
					http.StatusInternalServerError,
					response.ErrCodeInternalServer,
					fmt.Sprintf("Internal server error: %v", rec),
					requestID,
				)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clustersim/controller/pkg/api/response"
	"github.com/clustersim/controller/pkg/logger"
)

func recoveryHandler(inner http.HandlerFunc) http.Handler {
	log := logger.New(&logger.Config{Level: logger.ErrorLevel, Format: "json", Output: "stdout"})
	return Recovery(log)(inner)
}

func TestRecoveryLeavesHealthyRequestsAlone(t *testing.T) {
	handler := recoveryHandler(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/list_nodes", nil))

	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Errorf("healthy request altered: %d %q", w.Code, w.Body.String())
	}
}

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	for name, panicVal := range map[string]any{
		"string": "something went wrong",
		"error":  response.ErrInternalServer,
	} {
		t.Run(name, func(t *testing.T) {
			handler := recoveryHandler(func(w http.ResponseWriter, r *http.Request) {
				panic(panicVal)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/launch_pod", nil)
			req.Header.Set(headerRequestID, "req-9")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", w.Code)
			}

			var errResp response.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
				t.Fatalf("500 body is not an error envelope: %v", err)
			}
			if errResp.Error.Code != response.ErrCodeInternalServer {
				t.Errorf("code = %q", errResp.Error.Code)
			}
			if errResp.Error.RequestID != "req-9" {
				t.Errorf("request_id = %q, want the caller's echoed back", errResp.Error.RequestID)
			}
		})
	}
}

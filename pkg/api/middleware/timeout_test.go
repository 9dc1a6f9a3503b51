package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/clustersim/controller/pkg/api/response"
)

func TestTimeoutPassesFastRequestThrough(t *testing.T) {
	handler := Timeout(200 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/list_nodes", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Errorf("body = %q, buffered response should be replayed intact", w.Body.String())
	}
}

func TestTimeoutAnswers504WhenHandlerStalls(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	handler := Timeout(30 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		_, _ = w.Write([]byte("too late"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/list_nodes", nil))

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", w.Code)
	}

	var errResp response.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errResp); err != nil {
		t.Fatalf("timeout body is not an error envelope: %v", err)
	}
	if errResp.Error.Code != response.ErrCodeGatewayTimeout {
		t.Errorf("code = %q, want %q", errResp.Error.Code, response.ErrCodeGatewayTimeout)
	}
}

func TestTimeoutDiscardsLateHandlerOutput(t *testing.T) {
	done := make(chan struct{})
	handler := Timeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(done)
		<-r.Context().Done()
		// Give the middleware time to mark the writer dead before the
		// late write lands.
		time.Sleep(50 * time.Millisecond)
		if _, err := w.Write([]byte("late")); err != http.ErrHandlerTimeout {
			t.Errorf("late write error = %v, want ErrHandlerTimeout", err)
		}
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/list_nodes", nil))
	<-done

	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", w.Code)
	}
}

func TestTimeoutSkipsWebsocketUpgrades(t *testing.T) {
	// The upgrade path must see the real ResponseWriter (hijackable) and no
	// deadline; the buffering writer would break the handshake.
	var sawRecorder bool
	handler := Timeout(10 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawRecorder = w.(*httptest.ResponseRecorder)
		if _, ok := r.Context().Deadline(); ok {
			t.Error("upgrade request should not carry the timeout deadline")
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws/events", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !sawRecorder {
		t.Error("upgrade request should bypass the buffering writer")
	}
}

package middleware

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// MetricsRecorder is the sink for HTTP-layer metrics; satisfied by
// metrics.Manager.
type MetricsRecorder interface {
	RecordHTTPRequest(method, path, status string, duration time.Duration)
	IncActiveConnections()
	DecActiveConnections()
}

// contextMetricsRecorder is optionally implemented by recorders that attach
// exemplar trace IDs; preferred over the plain method when available.
type contextMetricsRecorder interface {
	RecordHTTPRequestWithContext(ctx context.Context, method, path, status string, duration time.Duration)
}

// Metrics records request count, duration, and in-flight connections for
// every request except the metrics scrape itself.
func Metrics(recorder MetricsRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/metrics") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			recorder.IncActiveConnections()
			defer recorder.DecActiveConnections()

			wrapped := &statusCapturingWriter{ResponseWriter: w, statusCode: http.StatusOK}

			record := func(status int) {
				path := collapseIDs(r.URL.Path)
				if cr, ok := recorder.(contextMetricsRecorder); ok {
					cr.RecordHTTPRequestWithContext(r.Context(), r.Method, path, strconv.Itoa(status), time.Since(start))
					return
				}
				recorder.RecordHTTPRequest(r.Method, path, strconv.Itoa(status), time.Since(start))
			}
			// A panicking handler still gets its request counted, as a 500,
			// before Recovery sees the panic.
			defer func() {
				if err := recover(); err != nil {
					record(http.StatusInternalServerError)
					panic(err)
				}
			}()

			next.ServeHTTP(wrapped, r)
			record(wrapped.statusCode)
		})
	}
}

// statusCapturingWriter records the status code for the metrics labels and
// forwards Hijack for websocket upgrades.
type statusCapturingWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rw *statusCapturingWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusCapturingWriter) Write(b []byte) (int, error) {
	rw.written = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusCapturingWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return hijack(rw.ResponseWriter)
}

// collapseIDs replaces UUID and numeric path segments with :id so metric
// label cardinality stays bounded.
func collapseIDs(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if len(part) == 36 && strings.Count(part, "-") == 4 {
			parts[i] = ":id"
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

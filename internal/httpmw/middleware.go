// Package httpmw is the middleware layer for the calendar API: request
// ids, JSON access logs, panic recovery, and Prometheus metrics. Log
// lines and metric series share the same collapsed route label so
// queries against either line up.
package httpmw

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"
)

type contextKey string

const requestIDKey contextKey = "choresapp.request_id"

// Chain wraps h so the first middleware is the outermost.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	if h == nil {
		h = http.NotFoundHandler()
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithRequestID tags every request with an id and echoes it back in the
// response. A well-formed inbound X-Request-Id is honored so clients
// can correlate retries; anything else is replaced.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := inboundRequestID(r)
		if rid == "" {
			rid = newRequestID()
		}
		w.Header().Set("X-Request-Id", rid)
		ctx := context.WithValue(r.Context(), requestIDKey, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

const maxInboundIDLen = 64

func inboundRequestID(r *http.Request) string {
	rid := strings.TrimSpace(r.Header.Get("X-Request-Id"))
	if rid == "" || len(rid) > maxInboundIDLen {
		return ""
	}
	for _, c := range rid {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c == '-' || c == '_' || c == '.':
		default:
			return ""
		}
	}
	return rid
}

func newRequestID() string {
	var b [10]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "req-" + strconv.FormatInt(time.Now().UTC().UnixNano(), 36)
	}
	return hex.EncodeToString(b[:])
}

// WithRecover turns handler panics into the API's JSON error envelope.
// Every route this server exposes speaks JSON, so there is no HTML
// fallback path.
func WithRecover(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				logEvent(logger, "error", "panic", map[string]any{
					"request_id": RequestIDFromContext(r.Context()),
					"method":     r.Method,
					"route":      routeLabel(r.URL.Path),
					"panic":      fmt.Sprint(rec),
					"stack":      string(debug.Stack()),
				})
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]any{"error": "internal server error"})
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// WithAccessLog emits one JSON line per request. The route field uses
// the same label as the metrics middleware; the raw path is logged
// alongside it since chore and comment ids are part of the path.
func WithAccessLog(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			fields := map[string]any{
				"request_id": RequestIDFromContext(r.Context()),
				"method":     r.Method,
				"route":      routeLabel(r.URL.Path),
				"path":       r.URL.Path,
				"status":     sw.status,
				"bytes":      sw.bytes,
				"dur_ms":     time.Since(start).Milliseconds(),
				"client":     clientAddr(r),
			}
			if q := r.URL.RawQuery; q != "" {
				fields["query"] = q
			}
			logEvent(logger, "info", "request", fields)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// clientAddr prefers the forwarding header; the server is expected to
// sit behind the household reverse proxy.
func clientAddr(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			xff = xff[:i]
		}
		if s := strings.TrimSpace(xff); s != "" {
			return s
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func logEvent(logger *log.Logger, level, msg string, fields map[string]any) {
	if logger == nil {
		logger = log.Default()
	}
	payload := make(map[string]any, len(fields)+3)
	for k, v := range fields {
		payload[k] = v
	}
	payload["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	payload["level"] = level
	payload["msg"] = msg

	b, err := json.Marshal(payload)
	if err != nil {
		logger.Printf(`{"level":"error","msg":"log_encode_failed","error":%q}`, err.Error())
		return
	}
	logger.Print(string(b))
}

package api

import (
	"net"
	"net/http"
	"strings"
	"time"

	"promptcheck/internal/application/common/logging"

	"github.com/google/uuid"
)

// CorrelationIDHeader carries the request correlation id.
const CorrelationIDHeader = "X-Correlation-ID"

// maxCorrelationIDLength bounds accepted client-supplied correlation ids.
const maxCorrelationIDLength = 128

// NewLoggingMiddleware logs each request and propagates a correlation id
// through the request context and the response header.
func NewLoggingMiddleware(logger logging.ApplicationLogger) MiddlewareFunc {
	logger = logger.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			correlationID := r.Header.Get(CorrelationIDHeader)
			if !isValidCorrelationID(correlationID) {
				correlationID = uuid.New().String()
			}

			r = r.WithContext(logging.WithCorrelationID(r.Context(), correlationID))
			w.Header().Set(CorrelationIDHeader, correlationID)

			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			fields := logging.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     wrapped.statusCode,
				"bytes":      wrapped.size,
				"user_agent": r.Header.Get("User-Agent"),
				"remote_ip":  clientIP(r),
			}
			if r.URL.RawQuery != "" {
				fields["query"] = r.URL.RawQuery
			}

			logger.LogPerformance(r.Context(), "http_request", time.Since(start), fields)
		})
	}
}

// NewCORSMiddleware adds CORS headers and answers preflight requests.
func NewCORSMiddleware() MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")

			allowedHeaders := "Content-Type, Authorization, " + CorrelationIDHeader
			if requestedHeaders := r.Header.Get("Access-Control-Request-Headers"); requestedHeaders != "" {
				allowedHeaders += ", " + requestedHeaders
			}
			w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRecoveryMiddleware turns handler panics into 500 responses.
func NewRecoveryMiddleware(logger logging.ApplicationLogger) MiddlewareFunc {
	logger = logger.WithComponent("http")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error(r.Context(), "Panic recovered in HTTP handler", logging.Fields{
						"method": r.Method,
						"path":   r.URL.Path,
						"panic":  rec,
					})
					NewDefaultErrorHandler().HandleServiceError(w, r, errPanic)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	size       int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

func isValidCorrelationID(id string) bool {
	if id == "" || len(id) > maxCorrelationIDLength {
		return false
	}
	for _, r := range id {
		if !(r == '-' || r == '_' || r == '.' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// clientIP returns the first valid X-Forwarded-For address, then X-Real-IP,
// then the remote address without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, ip := range strings.Split(xff, ",") {
			ip = strings.TrimSpace(ip)
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

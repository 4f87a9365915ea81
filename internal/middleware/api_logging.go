package middleware

import (
	"log"
	"net/http"
	"strings"
	"time"
)

// RequestLogging logs one line per API request. Writes go through a buffered
// channel so a slow stderr never blocks request handling.
type RequestLogging struct {
	logChan chan string
}

func NewRequestLogging() *RequestLogging {
	m := &RequestLogging{
		logChan: make(chan string, 1000),
	}
	go m.writer()
	return m
}

func (m *RequestLogging) writer() {
	for line := range m.logChan {
		log.Print(line)
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
}

func (rw *loggingResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

// Handler returns the middleware handler
func (m *RequestLogging) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shouldSkipLogging(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		wrapped := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		line := formatRequestLine(r, wrapped.statusCode, wrapped.bytesWritten, duration)

		select {
		case m.logChan <- line:
		default:
			// Buffer full, drop rather than block the request
		}
	})
}

func formatRequestLine(r *http.Request, status, size int, d time.Duration) string {
	var b strings.Builder
	b.WriteString("[API] ")
	b.WriteString(r.Method)
	b.WriteString(" ")
	b.WriteString(sanitizePath(r.URL.Path))
	b.WriteString(" ")
	b.WriteString(http.StatusText(status))
	b.WriteString(" ")
	b.WriteString(d.Round(time.Millisecond).String())
	b.WriteString(" from ")
	b.WriteString(clientIP(r))
	return b.String()
}

// shouldSkipLogging returns true for paths that shouldn't be logged
func shouldSkipLogging(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/favicon.ico",
		"/robots.txt",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// sanitizePath strips query parameters and truncates very long paths.
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 500 {
		path = path[:500]
	}
	return path
}

// Close flushes pending logs.
func (m *RequestLogging) Close() {
	close(m.logChan)
}

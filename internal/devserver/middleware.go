package devserver

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vitatrack/vitatrack/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// loggingMiddleware tags every request with an ID, echoed in the response,
// and logs the request and its outcome.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := logger.With("request_id", id, "method", r.Method, "path", r.URL.Path)
		log.Debug("REQ", "query", r.URL.RawQuery, "bytes", r.ContentLength)

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		log.Info("RES", "status", wrapper.statusCode, "duration", time.Since(start))
	})
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

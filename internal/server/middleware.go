package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tartampluch/go-birthday-server/internal/config"
	"github.com/tartampluch/go-birthday-server/internal/metrics"
)

// statusRecorder captures the status code written by the handler chain.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger logs every handled request and feeds the metrics collector.
func requestLogger(collector *metrics.Collector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			if collector != nil {
				collector.RecordRequest(r.Method, rec.status, duration)
			}
			slog.Info(config.MsgRequestDone,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyMethod, r.Method,
				config.LogKeyPath, r.URL.Path,
				config.LogKeyStatus, rec.status,
				config.LogKeyDuration, duration.Milliseconds(),
			)
		})
	}
}

// recovery converts handler panics into a 500 instead of tearing down the
// whole process.
func recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error(config.MsgPanicRecover,
					config.LogKeyComponent, config.CompServer,
					config.LogKeyPath, r.URL.Path,
					config.LogKeyPanic, rec,
				)
				writeInternalError(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

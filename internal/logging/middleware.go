package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// RequestLogger registra una entrada por request con el request id de chi.
// Reemplaza a middleware.Logger para que los logs salgan estructurados.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			wrapped := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
			started := time.Now()

			defer func() {
				status := wrapped.Status()
				if status == 0 {
					status = http.StatusOK
				}
				entry := logger.WithFields(logrus.Fields{
					"method":      request.Method,
					"path":        request.URL.Path,
					"status":      status,
					"bytes":       wrapped.BytesWritten(),
					"duration_ms": time.Since(started).Milliseconds(),
					"request_id":  middleware.GetReqID(request.Context()),
					"remote_addr": request.RemoteAddr,
				})
				switch {
				case status >= http.StatusInternalServerError:
					entry.Error("request completed")
				case status >= http.StatusBadRequest:
					entry.Warn("request completed")
				default:
					entry.Info("request completed")
				}
			}()

			next.ServeHTTP(wrapped, request)
		})
	}
}

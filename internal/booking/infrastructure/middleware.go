package infrastructure

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	pkgApp "github.com/mateusmacedo/go-sleeper/pkg/application"
)

// RequestLogger registra uma linha por requisição no logger da aplicação.
func RequestLogger(logger pkgApp.AppLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			fields := map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   ww.Status(),
				"bytes":    ww.BytesWritten(),
				"duration": time.Since(start).String(),
			}
			if ww.Status() >= http.StatusInternalServerError {
				pkgApp.LogError(r.Context(), logger, "request completed", nil, fields)
				return
			}
			pkgApp.LogInfo(r.Context(), logger, "request completed", fields)
		})
	}
}

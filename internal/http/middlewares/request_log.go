package middlewares

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

type loggedWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggedWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// WithRequestLog asigna un request id, propaga un logger scoped en el
// contexto y loguea cada request al terminar.
func WithRequestLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			log := logger.L().With(logger.RequestID(rid))
			ctx := logger.ToContext(r.Context(), log)

			lw := &loggedWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(lw, r.WithContext(ctx))

			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			log.Info("request",
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.Status(lw.status),
				logger.Duration(time.Since(start)),
				logger.ClientIP(host),
			)
		})
	}
}

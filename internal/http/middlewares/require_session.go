package middlewares

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/hellogoogle/internal/auth/session"
	httperrors "github.com/dropDatabas3/hellogoogle/internal/http/errors"
	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

// SessionVerifier valida un session token serializado.
type SessionVerifier interface {
	Verify(tokenString string) (*session.Session, error)
}

// RequireSession guards protected routes: the session cookie must be present
// and verify (signature + expiry). On success the decoded session is exposed
// in the request context; any failure is a 401, never a crash.
func RequireSession(verifier SessionVerifier, cookieName string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ck, err := r.Cookie(cookieName)
			if err != nil || ck.Value == "" {
				httperrors.WriteError(w, httperrors.ErrUnauthorized)
				return
			}

			sess, err := verifier.Verify(ck.Value)
			if err != nil {
				log := logger.From(r.Context()).With(logger.Op("RequireSession"))
				switch {
				case errors.Is(err, session.ErrExpired):
					log.Debug("session expired")
					httperrors.WriteError(w, httperrors.ErrSessionExpired)
				default:
					// firma inválida o token malformado: mismo 401 opaco
					log.Warn("session verification failed", logger.Err(err))
					httperrors.WriteError(w, httperrors.ErrUnauthorized)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

package middlewares

import (
	"context"

	"github.com/dropDatabas3/hellogoogle/internal/auth/session"
)

type ctxKey string

const ctxSessionKey ctxKey = "session"

// WithSession inyecta la sesión verificada en el contexto.
func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, ctxSessionKey, s)
}

// GetSession obtiene la sesión del contexto.
// Retorna nil si no hay sesión (middleware no aplicado o ruta pública).
func GetSession(ctx context.Context) *session.Session {
	if v := ctx.Value(ctxSessionKey); v != nil {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

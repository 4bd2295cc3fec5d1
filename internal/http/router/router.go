// Package router arma el árbol de rutas y la cadena de middlewares.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	authctrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/auth"
	healthctrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/health"
	homectrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/home"
	userctrl "github.com/dropDatabas3/hellogoogle/internal/http/controllers/user"
	mw "github.com/dropDatabas3/hellogoogle/internal/http/middlewares"
	"github.com/dropDatabas3/hellogoogle/internal/metrics"
)

// Deps contains everything the router needs, already wired.
type Deps struct {
	Auth   *authctrl.Controller
	User   *userctrl.Controller
	Health *healthctrl.Controller
	Home   *homectrl.Controller

	// Sessions guards the /api subtree.
	Sessions          mw.SessionVerifier
	SessionCookieName string

	// Registry for /metrics; a fresh one is created when nil.
	Registry *prometheus.Registry
}

// New builds the HTTP handler: global middlewares, public routes and the
// session-protected /api subtree.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Orden: recover por fuera de todo, luego request id + log, métricas y
	// headers de seguridad sobre cada respuesta.
	r.Use(mw.WithRecover())
	r.Use(mw.WithRequestLog())
	r.Use(metrics.WithHTTP)
	r.Use(mw.WithSecurityHeaders())

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r.Get("/", deps.Home.Home)
	r.Get("/health", deps.Health.Health)
	r.Handle("/metrics", metrics.Register(reg))

	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", deps.Auth.Login)
		r.Get("/callback", deps.Auth.Callback)
		r.Get("/logout", deps.Auth.Logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.RequireSession(deps.Sessions, deps.SessionCookieName))
		r.Get("/user", deps.User.User)
		r.Get("/protected", deps.User.Protected)
	})

	return r
}

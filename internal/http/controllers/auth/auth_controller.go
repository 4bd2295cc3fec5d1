// Package auth exposes the login, callback and logout endpoints.
package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	httperrors "github.com/dropDatabas3/hellogoogle/internal/http/errors"
	"github.com/dropDatabas3/hellogoogle/internal/http/helpers"
	svc "github.com/dropDatabas3/hellogoogle/internal/http/services/auth"
	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

// CookieConfig agrupa los knobs de cookies del flujo de login.
type CookieConfig struct {
	SessionName string
	StateName   string
	SameSite    string
	Secure      bool
	SessionTTL  time.Duration
	StateTTL    time.Duration
}

// Controller handles the session state machine over HTTP: Anonymous →
// (login redirect) → PendingCallback → (callback) → Authenticated, and
// Authenticated → (logout) → Anonymous.
type Controller struct {
	service *svc.Service
	cookies CookieConfig
}

// NewController creates the auth controller.
func NewController(service *svc.Service, cookies CookieConfig) *Controller {
	return &Controller{service: service, cookies: cookies}
}

// Login handles GET /auth/login: issues the anti-forgery state, mirrors it in
// a transient cookie and redirects to the provider.
func (c *Controller) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Login"))

	res, err := c.service.BeginLogin(ctx)
	if err != nil {
		log.Error("begin login failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	http.SetCookie(w, helpers.BuildCookie(c.cookies.StateName, res.State, c.cookies.SameSite, c.cookies.Secure, c.cookies.StateTTL))
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}

// Callback handles GET /auth/callback: validates state, exchanges the code,
// sets the session cookie and redirects home. Failures abort the attempt
// with an error response; the user restarts via /auth/login.
func (c *Controller) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Callback"))

	// El state cookie se consume siempre, haya éxito o no.
	var cookieState string
	if ck, err := r.Cookie(c.cookies.StateName); err == nil {
		cookieState = ck.Value
	}
	http.SetCookie(w, helpers.BuildDeletionCookie(c.cookies.StateName, c.cookies.SameSite, c.cookies.Secure))
	w.Header().Set("Cache-Control", "no-store")

	q := r.URL.Query()

	// IdP-reported errors (e.g. access_denied) short-circuit the exchange.
	if idpError := strings.TrimSpace(q.Get("error")); idpError != "" {
		log.Warn("IdP error",
			logger.String("error", idpError),
			logger.String("description", q.Get("error_description")),
		)
		httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("idp_error: "+idpError))
		return
	}

	result, err := c.service.CompleteLogin(ctx, svc.CompleteLoginRequest{
		State:       strings.TrimSpace(q.Get("state")),
		CookieState: cookieState,
		Code:        strings.TrimSpace(q.Get("code")),
	})
	if err != nil {
		log.Warn("callback failed", logger.Err(err))
		switch {
		case errors.Is(err, svc.ErrMissingParams):
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("state and code required"))
		case errors.Is(err, svc.ErrInvalidState):
			httperrors.WriteError(w, httperrors.ErrInvalidState)
		case errors.Is(err, svc.ErrMalformedResponse):
			httperrors.WriteError(w, httperrors.ErrMalformedResponse)
		case errors.Is(err, svc.ErrExchangeFailed):
			httperrors.WriteError(w, httperrors.ErrProviderError)
		default:
			httperrors.WriteError(w, httperrors.ErrInternalServerError)
		}
		return
	}

	http.SetCookie(w, helpers.BuildCookie(c.cookies.SessionName, result.Token, c.cookies.SameSite, c.cookies.Secure, c.cookies.SessionTTL))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles GET /auth/logout: clears the session cookie and redirects
// home. Idempotent: the cookie is expired whether or not a session existed.
func (c *Controller) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, helpers.BuildDeletionCookie(c.cookies.SessionName, c.cookies.SameSite, c.cookies.Secure))
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, "/", http.StatusFound)
}

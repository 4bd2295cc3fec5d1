// Package user exposes the session-protected API endpoints.
package user

import (
	"net/http"

	httperrors "github.com/dropDatabas3/hellogoogle/internal/http/errors"
	"github.com/dropDatabas3/hellogoogle/internal/http/helpers"
	mw "github.com/dropDatabas3/hellogoogle/internal/http/middlewares"
)

// Controller serves /api/user and /api/protected. Both sit behind
// RequireSession, which places the verified session in the context.
type Controller struct{}

// NewController creates the user controller.
func NewController() *Controller { return &Controller{} }

// userResponse is the wire shape of /api/user: the session claims plus the
// token's temporal bounds.
type userResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Iat           int64  `json:"iat"`
	Exp           int64  `json:"exp"`
}

// User handles GET /api/user.
func (c *Controller) User(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, userResponse{
		Sub:           sess.Subject,
		Email:         sess.Email,
		EmailVerified: sess.EmailVerified,
		Name:          sess.Name,
		Picture:       sess.Picture,
		Iat:           sess.IssuedAt.Unix(),
		Exp:           sess.ExpiresAt.Unix(),
	})
}

// Protected handles GET /api/protected, a demo resource behind the session.
func (c *Controller) Protected(w http.ResponseWriter, r *http.Request) {
	sess := mw.GetSession(r.Context())
	if sess == nil {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}
	helpers.WriteJSON(w, http.StatusOK, map[string]string{
		"message":    "access granted to this protected resource",
		"user_email": sess.Email,
	})
}

// Package auth defines the identity types shared by the provider adapter and
// the session layer.
package auth

import "errors"

// IdentityClaims are the attributes the identity provider asserts about the
// authenticated subject. Produced once per login from the userinfo response;
// never persisted server-side.
type IdentityClaims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// ErrMissingClaims indica que el IdP no devolvió los campos mínimos.
var ErrMissingClaims = errors.New("identity claims missing required fields")

// Validate checks the fields a login cannot proceed without.
func (c *IdentityClaims) Validate() error {
	if c.Subject == "" || c.Email == "" {
		return ErrMissingClaims
	}
	return nil
}

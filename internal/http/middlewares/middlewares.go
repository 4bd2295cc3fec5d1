// Package middlewares contains the HTTP middleware chain: panic recovery,
// request logging, security headers and session enforcement.
package middlewares

import "net/http"

// Middleware is a standard net/http middleware.
type Middleware func(http.Handler) http.Handler

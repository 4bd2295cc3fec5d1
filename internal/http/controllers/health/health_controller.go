// Package health exposes the liveness endpoint.
package health

import (
	"net/http"

	"github.com/dropDatabas3/hellogoogle/internal/http/helpers"
)

// Controller serves GET /health.
type Controller struct{}

// NewController creates the health controller.
func NewController() *Controller { return &Controller{} }

// Health responde 200 mientras el proceso esté vivo.
func (c *Controller) Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// Package home renders the landing page: a small status page that shows
// whether the visitor holds a valid session and lists the available routes.
package home

import (
	"html/template"
	"net/http"

	mw "github.com/dropDatabas3/hellogoogle/internal/http/middlewares"
	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

// Controller serves GET /.
type Controller struct {
	verifier   mw.SessionVerifier
	cookieName string
	tmpl       *template.Template
}

// NewController creates the home controller.
func NewController(verifier mw.SessionVerifier, cookieName string) *Controller {
	return &Controller{
		verifier:   verifier,
		cookieName: cookieName,
		tmpl:       template.Must(template.New("home").Parse(homeHTML)),
	}
}

type homeData struct {
	Authenticated bool
	Name          string
	Email         string
	Picture       string
}

// Home handles GET /. The session check here is best effort: an invalid or
// expired cookie just renders the anonymous view, it never errors.
func (c *Controller) Home(w http.ResponseWriter, r *http.Request) {
	data := homeData{}
	if ck, err := r.Cookie(c.cookieName); err == nil && ck.Value != "" {
		if sess, err := c.verifier.Verify(ck.Value); err == nil {
			data.Authenticated = true
			data.Name = sess.Name
			data.Email = sess.Email
			data.Picture = sess.Picture
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.tmpl.Execute(w, data); err != nil {
		logger.From(r.Context()).Error("home template render failed", logger.Err(err))
	}
}

const homeHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>hellogoogle</title>
  <style>
    body { font-family: system-ui, sans-serif; max-width: 640px; margin: 3rem auto; padding: 0 1rem; color: #222; }
    .card { border: 1px solid #ddd; border-radius: 8px; padding: 1.5rem; }
    .avatar { width: 48px; height: 48px; border-radius: 50%; vertical-align: middle; margin-right: .75rem; }
    a.btn { display: inline-block; padding: .5rem 1rem; border-radius: 6px; background: #1a73e8; color: #fff; text-decoration: none; }
    a.btn.secondary { background: #5f6368; }
    ul { line-height: 1.8; }
    code { background: #f1f3f4; padding: .1rem .3rem; border-radius: 4px; }
  </style>
</head>
<body>
  <h1>hellogoogle</h1>
  <div class="card">
  {{if .Authenticated}}
    <p>
      {{if .Picture}}<img class="avatar" src="{{.Picture}}" alt="">{{end}}
      Signed in as <strong>{{.Name}}</strong> ({{.Email}})
    </p>
    <p><a class="btn secondary" href="/auth/logout">Sign out</a></p>
  {{else}}
    <p>You are not signed in.</p>
    <p><a class="btn" href="/auth/login">Sign in with Google</a></p>
  {{end}}
  </div>
  <h2>Endpoints</h2>
  <ul>
    <li><code>GET /auth/login</code> — start the Google login</li>
    <li><code>GET /auth/logout</code> — clear the session</li>
    <li><code>GET /api/user</code> — current session claims (requires session)</li>
    <li><code>GET /api/protected</code> — demo protected resource (requires session)</li>
    <li><code>GET /health</code> — liveness</li>
  </ul>
</body>
</html>
`

// Package google wraps the authorization-code flow against Google's OIDC
// endpoints (discovery, token, userinfo). It is the only provider this
// application talks to.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/dropDatabas3/hellogoogle/internal/auth"
	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

// Issuer is Google's OIDC issuer; discovery runs against
// <issuer>/.well-known/openid-configuration.
const Issuer = "https://accounts.google.com"

// Provider-side failures. A failed exchange is terminal for the login
// attempt; the user restarts via the login endpoint (no retries).
var (
	// ErrProvider: la llamada al IdP falló (red, código inválido, caída).
	ErrProvider = errors.New("google: provider exchange failed")
	// ErrMalformedResponse: el IdP respondió sin los claims requeridos.
	ErrMalformedResponse = errors.New("google: malformed provider response")
)

// Config carries the registered client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Scopes       []string
	// Timeout bounds every round trip to the provider.
	Timeout time.Duration

	// IssuerURL overrides the Google issuer. Tests point it at a local fake.
	IssuerURL string
}

// Client implements the authorization-code flow for Google. Construct once at
// start-up (discovery happens here) and share; all methods are safe for
// concurrent use.
type Client struct {
	oauth2Config oauth2.Config
	provider     *oidc.Provider
	verifier     *oidc.IDTokenVerifier
	httpClient   *http.Client
}

// New runs discovery against the issuer and builds the OAuth2 client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	issuer := cfg.IssuerURL
	if issuer == "" {
		issuer = Issuer
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: timeout}

	provider, err := oidc.NewProvider(oidc.ClientContext(ctx, hc), issuer)
	if err != nil {
		return nil, fmt.Errorf("google: discovery failed: %w", err)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{oidc.ScopeOpenID, "email", "profile"}
	}

	return &Client{
		oauth2Config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint:     provider.Endpoint(),
			Scopes:       scopes,
		},
		provider:   provider,
		verifier:   provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		httpClient: hc,
	}, nil
}

// AuthCodeURL builds the provider authorization URL embedding the signed
// state and the OIDC nonce.
func (c *Client) AuthCodeURL(state, nonce string) string {
	return c.oauth2Config.AuthCodeURL(state, oidc.Nonce(nonce))
}

// Authenticate exchanges the authorization code for tokens and resolves the
// subject's identity claims from the userinfo endpoint. When the token
// response carries an id_token it is verified (signature, audience, nonce)
// before userinfo is consulted.
func (c *Client) Authenticate(ctx context.Context, code, nonce string) (*auth.IdentityClaims, error) {
	log := logger.From(ctx).With(logger.Layer("adapter"), logger.Component("oauth.google"))
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.oauth2Config.Exchange(ctx, code)
	if err != nil {
		log.Warn("code exchange failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if rawIDToken, ok := token.Extra("id_token").(string); ok && rawIDToken != "" {
		idToken, err := c.verifier.Verify(oidc.ClientContext(ctx, c.httpClient), rawIDToken)
		if err != nil {
			log.Warn("id_token verification failed", logger.Err(err))
			return nil, fmt.Errorf("%w: id_token: %v", ErrProvider, err)
		}
		if nonce != "" && idToken.Nonce != nonce {
			log.Warn("id_token nonce mismatch")
			return nil, fmt.Errorf("%w: nonce mismatch", ErrProvider)
		}
	}

	userInfo, err := c.provider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		log.Warn("userinfo fetch failed", logger.Err(err))
		return nil, fmt.Errorf("%w: userinfo: %v", ErrProvider, err)
	}

	var claims auth.IdentityClaims
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if err := claims.Validate(); err != nil {
		log.Warn("userinfo missing required claims", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	log.Debug("identity resolved", logger.Subject(claims.Subject))
	return &claims, nil
}

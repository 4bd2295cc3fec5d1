// Package auth orchestrates the login flow: anti-forgery state, the
// authorization-code exchange against the provider, and session issuance.
package auth

import (
	"context"
	"errors"
	"fmt"

	identity "github.com/dropDatabas3/hellogoogle/internal/auth"
	"github.com/dropDatabas3/hellogoogle/internal/auth/session"
	"github.com/dropDatabas3/hellogoogle/internal/auth/state"
	"github.com/dropDatabas3/hellogoogle/internal/oauth/google"
	"github.com/dropDatabas3/hellogoogle/internal/observability/logger"
)

// Service errors, mapped by the controller onto the HTTP taxonomy.
var (
	ErrMissingParams     = errors.New("auth: missing state or code")
	ErrInvalidState      = errors.New("auth: invalid login state")
	ErrExchangeFailed    = errors.New("auth: provider exchange failed")
	ErrMalformedResponse = errors.New("auth: malformed provider response")
	ErrTokenIssueFailed  = errors.New("auth: session token issuance failed")
)

// IdentityProvider is the provider adapter contract. The concrete Google
// client satisfies it; tests inject a fake.
type IdentityProvider interface {
	// AuthCodeURL builds the provider authorization URL for a login attempt.
	AuthCodeURL(state, nonce string) string

	// Authenticate exchanges the authorization code and resolves the
	// subject's identity claims.
	Authenticate(ctx context.Context, code, nonce string) (*identity.IdentityClaims, error)
}

// Service implements begin/complete login. Stateless across requests: the
// whole per-flow state travels in the signed state token.
type Service struct {
	provider IdentityProvider
	states   *state.Signer
	sessions *session.Codec
}

// NewService wires the login service.
func NewService(provider IdentityProvider, states *state.Signer, sessions *session.Codec) *Service {
	return &Service{provider: provider, states: states, sessions: sessions}
}

// BeginLoginResult carries the redirect target plus the state token the
// controller mirrors into a transient cookie.
type BeginLoginResult struct {
	RedirectURL string
	State       string
}

// BeginLogin starts a login attempt: fresh state + nonce, provider auth URL.
func (s *Service) BeginLogin(ctx context.Context) (*BeginLoginResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.begin"))

	stateToken, nonce, err := s.states.Issue()
	if err != nil {
		log.Error("failed to issue state", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
	}

	log.Info("login started")
	return &BeginLoginResult{
		RedirectURL: s.provider.AuthCodeURL(stateToken, nonce),
		State:       stateToken,
	}, nil
}

// CompleteLoginRequest is the callback input. CookieState is the state token
// mirrored at login time; it must match the query state byte for byte.
type CompleteLoginRequest struct {
	State       string
	CookieState string
	Code        string
}

// CompleteLoginResult carries the serialized session token for the cookie.
type CompleteLoginResult struct {
	Token  string
	Claims identity.IdentityClaims
}

// CompleteLogin validates the returned state (match + signature + single
// use), exchanges the code and issues the session token. Every failure is
// terminal for this attempt; the user restarts via BeginLogin.
func (s *Service) CompleteLogin(ctx context.Context, req CompleteLoginRequest) (*CompleteLoginResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.complete"))

	if req.State == "" || req.Code == "" {
		return nil, ErrMissingParams
	}
	if req.CookieState == "" || req.CookieState != req.State {
		log.Warn("state/cookie mismatch, possible CSRF")
		return nil, ErrInvalidState
	}

	st, err := s.states.Consume(req.State)
	if err != nil {
		log.Warn("state rejected", logger.Err(err))
		return nil, ErrInvalidState
	}

	claims, err := s.provider.Authenticate(ctx, req.Code, st.Nonce)
	if err != nil {
		switch {
		case errors.Is(err, google.ErrMalformedResponse), errors.Is(err, identity.ErrMissingClaims):
			log.Warn("provider response malformed", logger.Err(err))
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		default:
			log.Error("provider exchange failed", logger.Err(err))
			return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
		}
	}

	token, _, err := s.sessions.Issue(*claims, 0)
	if err != nil {
		log.Error("session issuance failed", logger.Err(err))
		return nil, fmt.Errorf("%w: %v", ErrTokenIssueFailed, err)
	}

	log.Info("login completed", logger.Subject(claims.Subject))
	return &CompleteLoginResult{Token: token, Claims: *claims}, nil
}

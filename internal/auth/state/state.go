// Package state implements the anti-forgery token that correlates a login
// redirect with its callback. The state is a short-lived signed JWT carried
// in the redirect's state parameter (and mirrored in a transient cookie), so
// no server-side per-flow storage is needed; a small in-memory replay guard
// makes each state single-use.
package state

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Audience is the expected audience for login state tokens.
const Audience = "login-state"

// ErrInvalidState covers every state failure: bad signature, wrong audience,
// expiry, or reuse. Callers treat them all as a possible CSRF and abort the
// login attempt.
var ErrInvalidState = errors.New("state: invalid or reused state token")

// Claims is the decoded payload of a verified state token.
type Claims struct {
	// Nonce travels to the IdP and comes back inside the id_token.
	Nonce string
	// ID is the single-use identifier (jti) of this login attempt.
	ID string
}

type stateClaims struct {
	Nonce string `json:"nonce"`
	jwtv5.RegisteredClaims
}

// Signer issues and validates state tokens.
type Signer struct {
	secret []byte
	ttl    time.Duration

	// seen tracks consumed jtis for the state lifetime. Per-instance guard;
	// correctness across instances still rests on signature + expiry.
	seen *gocache.Cache

	now func() time.Time
}

// NewSigner creates a Signer with the given secret and state lifetime.
func NewSigner(secret []byte, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Signer{
		secret: secret,
		ttl:    ttl,
		seen:   gocache.New(ttl, time.Minute),
		now:    time.Now,
	}
}

// TTL returns the state lifetime.
func (s *Signer) TTL() time.Duration { return s.ttl }

// Issue generates a fresh state token with a new nonce and jti.
func (s *Signer) Issue() (token string, nonce string, err error) {
	nonce, err = randomNonce(16)
	if err != nil {
		return "", "", err
	}
	now := s.now().UTC()
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, stateClaims{
		Nonce: nonce,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.NewString(),
			Audience:  jwtv5.ClaimStrings{Audience},
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(s.ttl)),
		},
	})
	token, err = tk.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return token, nonce, nil
}

// Consume validates a state token and marks it as used. A second Consume with
// the same token fails: the jti is remembered until the state would have
// expired anyway.
func (s *Signer) Consume(tokenString string) (*Claims, error) {
	var claims stateClaims
	tk, err := jwtv5.ParseWithClaims(tokenString, &claims,
		func(t *jwtv5.Token) (any, error) { return s.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithAudience(Audience),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(s.now),
	)
	if err != nil || !tk.Valid {
		return nil, ErrInvalidState
	}
	if claims.ID == "" || claims.Nonce == "" {
		return nil, ErrInvalidState
	}
	// single-use: Add fails if the jti was already consumed
	if err := s.seen.Add(claims.ID, struct{}{}, s.ttl); err != nil {
		return nil, ErrInvalidState
	}
	return &Claims{Nonce: claims.Nonce, ID: claims.ID}, nil
}

// randomNonce genera un string base64url aleatorio.
func randomNonce(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

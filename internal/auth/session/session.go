// Package session issues and verifies the signed, self-contained session
// tokens handed to the browser. A token is trusted only if its HMAC-SHA256
// signature validates under the current secret AND it has not expired; there
// is no other trust path and no server-side session store.
package session

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/hellogoogle/internal/auth"
)

// DefaultTTL is the session lifetime when the caller does not override it.
const DefaultTTL = 60 * time.Minute

// Verification failures. Signature problems are reported before any claim is
// inspected (fail closed).
var (
	ErrInvalidSignature = errors.New("session: invalid signature")
	ErrExpired          = errors.New("session: token expired")
	ErrMalformed        = errors.New("session: malformed token")
)

// Session is the decoded payload of a verified token.
type Session struct {
	auth.IdentityClaims
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// tokenClaims is the wire format: email, name, picture, sub, email_verified,
// exp, iat. Nothing else goes into the token.
type tokenClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	jwtv5.RegisteredClaims
}

// Codec signs and verifies session tokens with a symmetric key.
type Codec struct {
	secret []byte
	ttl    time.Duration

	// now is injectable for boundary tests.
	now func() time.Time
}

// New creates a Codec. ttl <= 0 falls back to DefaultTTL.
func New(secret []byte, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{secret: secret, ttl: ttl, now: time.Now}
}

// TTL returns the configured session lifetime.
func (c *Codec) TTL() time.Duration { return c.ttl }

// Issue builds and signs a token for the given claims. The expiry is
// iat + ttl; the token fully replaces any previous one for the user.
func (c *Codec) Issue(claims auth.IdentityClaims, ttl time.Duration) (string, time.Time, error) {
	if err := claims.Validate(); err != nil {
		return "", time.Time{}, err
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	now := c.now().UTC().Truncate(time.Second)
	exp := now.Add(ttl)

	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, tokenClaims{
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(exp),
		},
	})
	signed, err := tk.SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Verify parses and validates a serialized token. The signing method is
// pinned to HS256; expiry is checked with zero leeway, so a token is already
// expired at exactly its exp instant. Clock skew is not compensated.
func (c *Codec) Verify(tokenString string) (*Session, error) {
	var claims tokenClaims
	tk, err := jwtv5.ParseWithClaims(tokenString, &claims,
		func(t *jwtv5.Token) (any, error) { return c.secret, nil },
		jwtv5.WithValidMethods([]string{"HS256"}),
		jwtv5.WithExpirationRequired(),
		jwtv5.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwtv5.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwtv5.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrInvalidSignature
		}
	}
	if !tk.Valid {
		return nil, ErrInvalidSignature
	}

	s := &Session{
		IdentityClaims: auth.IdentityClaims{
			Subject:       claims.Subject,
			Email:         claims.Email,
			EmailVerified: claims.EmailVerified,
			Name:          claims.Name,
			Picture:       claims.Picture,
		},
	}
	if claims.IssuedAt != nil {
		s.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, nil
}

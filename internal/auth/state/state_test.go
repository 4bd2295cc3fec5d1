package state

import (
	"errors"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueConsumeRoundTrip(t *testing.T) {
	s := NewSigner(testSecret, 10*time.Minute)

	token, nonce, err := s.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" || nonce == "" {
		t.Fatal("empty token or nonce")
	}

	claims, err := s.Consume(token)
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if claims.Nonce != nonce {
		t.Fatalf("nonce mismatch: got %q want %q", claims.Nonce, nonce)
	}
	if claims.ID == "" {
		t.Fatal("empty jti")
	}
}

func TestConsumeIsSingleUse(t *testing.T) {
	s := NewSigner(testSecret, 10*time.Minute)

	token, _, err := s.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := s.Consume(token); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if _, err := s.Consume(token); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second consume: want ErrInvalidState, got %v", err)
	}
}

func TestConsumeRejectsExpired(t *testing.T) {
	t0 := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	s := NewSigner(testSecret, 10*time.Minute)
	s.now = func() time.Time { return t0 }

	token, _, err := s.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s.now = func() time.Time { return t0.Add(11 * time.Minute) }
	if _, err := s.Consume(token); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState for expired state, got %v", err)
	}
}

func TestConsumeRejectsTampered(t *testing.T) {
	s := NewSigner(testSecret, 10*time.Minute)

	token, _, err := s.Issue()
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	parts := strings.Split(token, ".")
	b := []byte(parts[1])
	if b[3] == 'A' {
		b[3] = 'B'
	} else {
		b[3] = 'A'
	}
	bad := parts[0] + "." + string(b) + "." + parts[2]

	if _, err := s.Consume(bad); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState, got %v", err)
	}
}

func TestConsumeRejectsForeignToken(t *testing.T) {
	s := NewSigner(testSecret, 10*time.Minute)

	// token firmado con la misma clave pero sin audience ni nonce
	now := time.Now().UTC()
	tk := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, jwtv5.RegisteredClaims{
		ID:        "some-id",
		IssuedAt:  jwtv5.NewNumericDate(now),
		ExpiresAt: jwtv5.NewNumericDate(now.Add(time.Minute)),
	})
	token, err := tk.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := s.Consume(token); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("want ErrInvalidState for wrong audience, got %v", err)
	}
}

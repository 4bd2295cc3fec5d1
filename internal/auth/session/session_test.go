package session

import (
	"errors"
	"strings"
	"testing"
	"time"

	identity "github.com/dropDatabas3/hellogoogle/internal/auth"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func testClaims() identity.IdentityClaims {
	return identity.IdentityClaims{
		Subject:       "123",
		Email:         "a@b.com",
		EmailVerified: true,
		Name:          "Ada",
		Picture:       "https://example.com/p.png",
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	c := New(testSecret, time.Hour)
	in := testClaims()

	token, exp, err := c.Issue(in, 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	sess, err := c.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sess.IdentityClaims != in {
		t.Fatalf("claims mismatch: got %+v want %+v", sess.IdentityClaims, in)
	}
	if !sess.ExpiresAt.Equal(exp) {
		t.Fatalf("exp mismatch: got %v want %v", sess.ExpiresAt, exp)
	}
	if got := sess.ExpiresAt.Sub(sess.IssuedAt); got != time.Hour {
		t.Fatalf("lifetime = %v, want %v", got, time.Hour)
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	t0 := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	c := New(testSecret, time.Hour)
	c.now = func() time.Time { return t0 }

	token, _, err := c.Issue(testClaims(), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// un segundo antes del vencimiento: válido
	c.now = func() time.Time { return t0.Add(time.Hour - time.Second) }
	if _, err := c.Verify(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	// exactamente en exp: expirado (cero leeway)
	c.now = func() time.Time { return t0.Add(time.Hour) }
	if _, err := c.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("want ErrExpired at exactly exp, got %v", err)
	}

	c.now = func() time.Time { return t0.Add(2 * time.Hour) }
	if _, err := c.Verify(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("want ErrExpired past exp, got %v", err)
	}
}

func TestVerifyRejectsTampering(t *testing.T) {
	c := New(testSecret, time.Hour)
	token, _, err := c.Issue(testClaims(), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		return string(b)
	}

	// payload tampered: la firma ya no cubre el contenido
	bad := parts[0] + "." + flip(parts[1], 4) + "." + parts[2]
	if _, err := c.Verify(bad); err == nil {
		t.Fatal("tampered payload accepted")
	}

	// signature tampered
	bad = parts[0] + "." + parts[1] + "." + flip(parts[2], 4)
	if _, err := c.Verify(bad); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("want ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	issuer := New(testSecret, time.Hour)
	token, _, err := issuer.Issue(testClaims(), 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := New([]byte("another-secret-key-of-equal-size"), time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("want ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	c := New(testSecret, time.Hour)
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := c.Verify(tok); !errors.Is(err, ErrMalformed) && !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("token %q: want malformed/invalid, got %v", tok, err)
		}
	}
}

func TestIssueRequiresSubjectAndEmail(t *testing.T) {
	c := New(testSecret, time.Hour)

	in := testClaims()
	in.Subject = ""
	if _, _, err := c.Issue(in, 0); !errors.Is(err, identity.ErrMissingClaims) {
		t.Fatalf("want ErrMissingClaims for empty sub, got %v", err)
	}

	in = testClaims()
	in.Email = ""
	if _, _, err := c.Issue(in, 0); !errors.Is(err, identity.ErrMissingClaims) {
		t.Fatalf("want ErrMissingClaims for empty email, got %v", err)
	}
}

func TestDefaultTTL(t *testing.T) {
	if got := New(testSecret, 0).TTL(); got != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", got, DefaultTTL)
	}
	if got := New(testSecret, -time.Minute).TTL(); got != DefaultTTL {
		t.Fatalf("ttl = %v, want %v", got, DefaultTTL)
	}
}

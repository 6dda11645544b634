package jwtauth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "mealmate_test_jwt_secret_key_0123456789"

func TestCreateAndValidate(t *testing.T) {
	p, err := New(testSecret, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	token, err := p.CreateToken("a@x.com")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if !p.ValidateToken(token) {
		t.Fatal("expected token to validate")
	}
	sub, err := p.Subject(token)
	if err != nil {
		t.Fatalf("Subject: %v", err)
	}
	if sub != "a@x.com" {
		t.Errorf("expected subject a@x.com, got %s", sub)
	}
}

func TestTokenExpiresAfterOneHour(t *testing.T) {
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	p, _ := New(testSecret, 0)
	p.now = func() time.Time { return issued }
	token, err := p.CreateToken("a@x.com")
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	p.now = func() time.Time { return issued.Add(59 * time.Minute) }
	if !p.ValidateToken(token) {
		t.Error("token should still be valid after 59 minutes")
	}
	p.now = func() time.Time { return issued.Add(61 * time.Minute) }
	if p.ValidateToken(token) {
		t.Error("token should be expired after 61 minutes")
	}
}

func TestValidateRejects(t *testing.T) {
	p, _ := New(testSecret, 0)
	other, _ := New(testSecret+"-other", 0)
	foreign, _ := other.CreateToken("a@x.com")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "a@x.com",
		Issuer:    issuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"malformed", "not.a.jwt"},
		{"wrong secret", foreign},
		{"alg none", unsigned},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if p.ValidateToken(tc.token) {
				t.Fatalf("expected %q to be rejected", tc.name)
			}
			if _, err := p.Subject(tc.token); err == nil {
				t.Fatal("expected Subject error")
			}
		})
	}
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New("  ", time.Hour); err == nil {
		t.Fatal("expected error for blank secret")
	}
}

func TestCreateTokenRequiresEmail(t *testing.T) {
	p, _ := New(testSecret, 0)
	if _, err := p.CreateToken(""); err == nil || !strings.Contains(err.Error(), "email") {
		t.Fatalf("expected email error, got %v", err)
	}
}

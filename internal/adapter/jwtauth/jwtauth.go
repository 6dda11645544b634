// Package jwtauth issues and validates the HS256 bearer tokens handed out
// at registration and login.
package jwtauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "mealmate"

// DefaultTTL is the validity window of an issued token.
const DefaultTTL = time.Hour

// Provider signs tokens whose subject is the user's email. It keeps no
// state, so tokens cannot be revoked before they expire.
type Provider struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Provider signing with secret. A non-positive ttl selects
// DefaultTTL.
func New(secret string, ttl time.Duration) (*Provider, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Provider{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// CreateToken issues a signed token for email.
func (p *Provider) CreateToken(email string) (string, error) {
	if email == "" {
		return "", errors.New("email is required")
	}
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

// ValidateToken reports whether token is well formed, correctly signed and
// unexpired.
func (p *Provider) ValidateToken(token string) bool {
	_, err := p.parse(token)
	return err == nil
}

// Subject returns the email carried by a valid token.
func (p *Provider) Subject(token string) (string, error) {
	claims, err := p.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (p *Provider) parse(token string) (*jwt.RegisteredClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("token is empty")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

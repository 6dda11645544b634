// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// minSecretLen is the shortest JWT secret accepted for HS256.
const minSecretLen = 32

// Config is the process configuration.
type Config struct {
	Addr        string
	Store       string
	DatabaseURL string
	JWTSecret   string
	JWTTTL      time.Duration
	CORSOrigins []string
	WebDir      string
	LogDebug    bool
	OIDC        OIDC
}

// OIDC holds single sign-on settings. SSO is enabled when Issuer and
// ClientID are both set.
type OIDC struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether SSO is configured.
func (o OIDC) Enabled() bool {
	return o.Issuer != "" && o.ClientID != ""
}

// Load reads the given .env files (all optional; ".env" when none are
// named) and then builds a Config from the environment. Variables already
// set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function such as os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Addr:        env("ADDR", ":8080"),
		Store:       strings.ToLower(env("STORE", StorePostgres)),
		DatabaseURL: env("DATABASE_URL", ""),
		JWTSecret:   env("JWT_SECRET", ""),
		CORSOrigins: splitList(env("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		WebDir:      env("WEB_DIR", ""),
		OIDC: OIDC{
			Issuer:       env("OIDC_ISSUER", ""),
			ClientID:     env("OIDC_CLIENT_ID", ""),
			ClientSecret: env("OIDC_CLIENT_SECRET", ""),
			RedirectURL:  env("OIDC_REDIRECT_URL", ""),
		},
	}

	var errs []error
	switch cfg.Store {
	case StorePostgres:
		if cfg.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required when STORE=postgres"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.Store))
	}

	if len(cfg.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen))
	}

	ttl, err := time.ParseDuration(env("JWT_TTL", "1h"))
	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("JWT_TTL: %w", err))
	case ttl <= 0:
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	cfg.JWTTTL = ttl

	if v := env("LOG_DEBUG", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("LOG_DEBUG: %w", err))
		}
		cfg.LogDebug = b
	}

	if cfg.OIDC.Enabled() && cfg.OIDC.RedirectURL == "" {
		errs = append(errs, errors.New("OIDC_REDIRECT_URL is required when SSO is enabled"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

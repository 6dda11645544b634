package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const secret = "0123456789abcdef0123456789abcdef"

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"STORE":      "memory",
		"JWT_SECRET": secret,
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.JWTTTL != time.Hour || cfg.LogDebug {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.CORSOrigins)
	}
	if cfg.OIDC.Enabled() {
		t.Error("SSO should be disabled by default")
	}
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"postgres without url", map[string]string{"JWT_SECRET": secret}, "DATABASE_URL"},
		{"unknown store", map[string]string{"STORE": "redis", "JWT_SECRET": secret}, "STORE"},
		{"short secret", map[string]string{"STORE": "memory", "JWT_SECRET": "short"}, "JWT_SECRET"},
		{"bad ttl", map[string]string{"STORE": "memory", "JWT_SECRET": secret, "JWT_TTL": "soon"}, "JWT_TTL"},
		{"negative ttl", map[string]string{"STORE": "memory", "JWT_SECRET": secret, "JWT_TTL": "-1m"}, "JWT_TTL"},
		{"bad debug", map[string]string{"STORE": "memory", "JWT_SECRET": secret, "LOG_DEBUG": "maybe"}, "LOG_DEBUG"},
		{"sso without redirect", map[string]string{
			"STORE": "memory", "JWT_SECRET": secret,
			"OIDC_ISSUER": "https://id.example.com", "OIDC_CLIENT_ID": "mealmate",
		}, "OIDC_REDIRECT_URL"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromEnv(envMap(tc.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("expected error mentioning %s, got %v", tc.want, err)
			}
		})
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"ADDR":         ":9000",
		"DATABASE_URL": "postgres://localhost/mealmate",
		"JWT_SECRET":   secret,
		"JWT_TTL":      "30m",
		"CORS_ORIGINS": " https://a.example.com , ,https://b.example.com",
		"LOG_DEBUG":    "true",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store != StorePostgres || cfg.Addr != ":9000" || cfg.JWTTTL != 30*time.Minute || !cfg.LogDebug {
		t.Errorf("unexpected config %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "STORE=memory\nJWT_SECRET=" + secret + "\nADDR=:7070\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"STORE", "JWT_SECRET", "ADDR"} {
		t.Setenv(k, "")
		os.Unsetenv(k) //nolint:errcheck
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.Store != StoreMemory {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("JWT_SECRET", secret)
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("missing .env should be ignored, got %v", err)
	}
}

// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"path/filepath"
	"testing"
)

// clearEnv blanks every variable ParseFlags reads
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "DATABASE_URL", "DATABASE_TYPE", "IDENTITY_SALT", "COOKIE_SECURE", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}
}

func TestParseFlags_EnvVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "postgres://test")
	t.Setenv("DATABASE_TYPE", "postgres")
	t.Setenv("IDENTITY_SALT", "test-salt")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "postgres" {
		t.Errorf("expected postgres, got %q", cfg.DatabaseType)
	}
	if cfg.IdentitySalt != "test-salt" {
		t.Errorf("expected identity salt from env, got %q", cfg.IdentitySalt)
	}
	if !cfg.CookieSecure {
		t.Error("expected CookieSecure from env")
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("COOKIE_SECURE", "true")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "file:test.db", "-identity-salt", "s1", "-cookie-secure", "false"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.CookieSecure {
		t.Error("CLI should override env for cookie-secure")
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := ParseFlags([]string{"-d", ":memory:", "-identity-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 3318 {
		t.Errorf("expected default port 3318, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.CookieSecure {
		t.Error("expected CookieSecure to default to false")
	}
	if len(cfg.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins by default, got %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_AllowedOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "https://movies.example.com/, http://localhost:5173,,")

	cfg, err := ParseFlags([]string{"-d", ":memory:", "-identity-salt", "s1"})
	if err != nil {
		t.Fatal(err)
	}

	expected := []string{"https://movies.example.com", "http://localhost:5173"}
	if len(cfg.AllowedOrigins) != len(expected) {
		t.Fatalf("expected %v, got %v", expected, cfg.AllowedOrigins)
	}
	for i := range expected {
		if cfg.AllowedOrigins[i] != expected[i] {
			t.Errorf("expected %q at %d, got %q", expected[i], i, cfg.AllowedOrigins[i])
		}
	}

	cfg, err = ParseFlags([]string{"-d", ":memory:", "-identity-salt", "s1", "-allowed-origins", "https://cli.example"})
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://cli.example" {
		t.Errorf("CLI should override env, got %v", cfg.AllowedOrigins)
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"missing database url", []string{"-identity-salt", "s1"}, nil},
		{"missing identity salt", []string{"-d", ":memory:"}, nil},
		{"bad database type", []string{"-d", ":memory:", "-identity-salt", "s1", "-t", "mysql"}, nil},
		{"bad port env", []string{"-d", ":memory:", "-identity-salt", "s1"}, map[string]string{"PORT": "abc"}},
		{"bad cookie flag", []string{"-d", ":memory:", "-identity-salt", "s1", "-cookie-secure", "maybe"}, nil},
		{"unknown flag", []string{"-nope"}, nil},
		{"origin without scheme", []string{"-d", ":memory:", "-identity-salt", "s1", "-allowed-origins", "movies.example.com"}, nil},
		{"origin with path", []string{"-d", ":memory:", "-identity-salt", "s1"}, map[string]string{"ALLOWED_ORIGINS": "https://movies.example.com/app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := ParseFlags(tt.args); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if err := LoadDotEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored, got %v", err)
	}

	path := filepath.Join(dir, ".env")
	content := "DATABASE_URL=file:dotenv.db\nIDENTITY_SALT=from-file\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	// godotenv.Load never overrides variables that are already set, and
	// t.Setenv leaves them set to "", so unset them first.
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("IDENTITY_SALT")

	if err := LoadDotEnv(path); err != nil {
		t.Fatal(err)
	}

	cfg, err := ParseFlags(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DatabaseURL != "file:dotenv.db" {
		t.Errorf("expected database url from .env, got %q", cfg.DatabaseURL)
	}
	if cfg.IdentitySalt != "from-file" {
		t.Errorf("expected identity salt from .env, got %q", cfg.IdentitySalt)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets every variable Load reads so host settings do not leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"PORT", "LOG_LEVEL", "SHUTDOWN_TIMEOUT", "CORS_ALLOWED_ORIGINS",
		"GREETING_PROVIDER", "GREETING_TEXT", "GREETING_DOCUMENT",
		"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS",
		"GOOGLE_CLOUD_PROJECT", "GCLOUD_PROJECT", "PROJECT_ID",
	} {
		t.Setenv(k, "")
		if err := os.Unsetenv(k); err != nil {
			t.Fatalf("unset %s: %v", k, err)
		}
	}
}

func missingDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingDotenv(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.Addr() != ":8080" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.Greeting.Provider != ProviderStatic {
		t.Fatalf("expected static provider, got %q", cfg.Greeting.Provider)
	}
	if cfg.Greeting.Text != "Hello World!" {
		t.Fatalf("unexpected default greeting %q", cfg.Greeting.Text)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("GREETING_TEXT", "Hola")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load(missingDotenv(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr() != ":9090" {
		t.Fatalf("unexpected addr %q", cfg.Addr())
	}
	if cfg.Greeting.Text != "Hola" {
		t.Fatalf("unexpected greeting %q", cfg.Greeting.Text)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected CORS origins %v", cfg.CORSOrigins)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %s", cfg.ShutdownTimeout)
	}
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "GREETING_TEXT=from dotenv\nPORT=7070\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}
	t.Setenv("PORT", "6060")
	// godotenv sets variables it loads; make sure they are removed afterwards.
	t.Setenv("GREETING_TEXT", "")
	if err := os.Unsetenv("GREETING_TEXT"); err != nil {
		t.Fatalf("unset: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Greeting.Text != "from dotenv" {
		t.Fatalf("expected dotenv greeting, got %q", cfg.Greeting.Text)
	}
	if cfg.Port != "6060" {
		t.Fatalf("expected environment to win, got port %q", cfg.Port)
	}
}

func TestLoadFirestoreProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("GREETING_PROVIDER", ProviderFirestore)

	if _, err := Load(missingDotenv(t)); err == nil || !strings.Contains(err.Error(), "FIREBASE_PROJECT_ID") {
		t.Fatalf("expected missing project error, got %v", err)
	}

	t.Setenv("GOOGLE_CLOUD_PROJECT", "fallback-project")
	cfg, err := Load(missingDotenv(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Firebase.ProjectID != "fallback-project" {
		t.Fatalf("expected fallback project, got %q", cfg.Firebase.ProjectID)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		ShutdownTimeout: time.Second,
		Greeting:        Greeting{Provider: ProviderStatic},
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"static is valid", func(*Config) {}, ""},
		{"unknown provider", func(c *Config) { c.Greeting.Provider = "ldap" }, "unknown GREETING_PROVIDER"},
		{"zero timeout", func(c *Config) { c.ShutdownTimeout = 0 }, "SHUTDOWN_TIMEOUT"},
		{"firestore without document", func(c *Config) {
			c.Greeting.Provider = ProviderFirestore
			c.Firebase.ProjectID = "p"
		}, "GREETING_DOCUMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	if _, err := Load(missingDotenv(t)); err == nil {
		t.Fatal("expected parse error for invalid duration")
	}
}

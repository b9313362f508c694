// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Greeting provider kinds.
const (
	ProviderStatic    = "static"
	ProviderFirestore = "firestore"
)

// Config holds everything cmd/server needs to wire the service.
type Config struct {
	Port            string        `env:"PORT"             envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL"        envDefault:"info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	Greeting Greeting
	Firebase Firebase
}

// Greeting selects and configures the greeting provider.
type Greeting struct {
	Provider string `env:"GREETING_PROVIDER" envDefault:"static"`
	Text     string `env:"GREETING_TEXT"     envDefault:"Hello World!"`
	Document string `env:"GREETING_DOCUMENT" envDefault:"default"`
}

// Firebase configures the Firestore-backed provider.
type Firebase struct {
	ProjectID       string `env:"FIREBASE_PROJECT_ID"`
	CredentialsFile string `env:"GOOGLE_APPLICATION_CREDENTIALS"`
}

// Load reads optional dotenv files and parses the environment into a Config.
// Variables already present in the environment win over dotenv values.
func Load(dotenvFiles ...string) (Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.Firebase.ProjectID == "" {
		cfg.Firebase.ProjectID = firstNonEmpty(
			os.Getenv("GOOGLE_CLOUD_PROJECT"),
			os.Getenv("GCLOUD_PROJECT"),
			os.Getenv("PROJECT_ID"),
		)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configuration that cannot produce a working service.
func (c Config) Validate() error {
	switch c.Greeting.Provider {
	case ProviderStatic:
	case ProviderFirestore:
		if c.Firebase.ProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required for the firestore greeting provider")
		}
		if c.Greeting.Document == "" {
			return errors.New("GREETING_DOCUMENT must not be empty")
		}
	default:
		return fmt.Errorf("unknown GREETING_PROVIDER %q", c.Greeting.Provider)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the listen address for http.Server.
func (c Config) Addr() string {
	return ":" + c.Port
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

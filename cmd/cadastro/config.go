package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/saludigital/cadastro/pkg/httpserver"
	"github.com/saludigital/cadastro/pkg/ratelimit"
	"github.com/saludigital/cadastro/pkg/redis"
	"github.com/saludigital/cadastro/svc/auth"
	svc "github.com/saludigital/cadastro/svc/registration"
)

// Config is read from the environment, optionally seeded from a dotenv file.
type Config struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
	FormsFile string `env:"FORMS_FILE"`

	HTTP  httpserver.Config
	Redis redis.Config

	Webhook WebhookConfig     `envPrefix:"WEBHOOK_"`
	Auth    AuthConfig        `envPrefix:"AUTH_"`
	Cookie  auth.CookieConfig `envPrefix:"SESSION_COOKIE_"`

	LoginRate  ratelimit.Config `envPrefix:"LOGIN_RATE_"`
	SubmitRate ratelimit.Config `envPrefix:"SUBMIT_RATE_"`
}

type WebhookConfig struct {
	URL     string            `env:"URL"`
	Secret  string            `env:"SECRET"`
	Timeout time.Duration     `env:"TIMEOUT" envDefault:"10s"`
	Retries int               `env:"RETRIES" envDefault:"2"`
	// Format is the body encoding: form or json.
	Format  svc.PayloadFormat `env:"FORMAT" envDefault:"form"`
}

const (
	providerMemory = "memory"
	providerGoTrue = "gotrue"
)

type AuthConfig struct {
	Provider  string        `env:"PROVIDER" envDefault:"memory"`
	GoTrueURL string        `env:"GOTRUE_URL"`
	GoTrueKey string        `env:"GOTRUE_KEY"`
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"1h"`

	// Seed account for the memory provider.
	DevEmail    string `env:"DEV_EMAIL"`
	DevPassword string `env:"DEV_PASSWORD"`
}

var errConfig = errors.New("config")

func (c *Config) Validate() error {
	var errs []error
	switch c.Auth.Provider {
	case providerMemory:
		if c.Auth.JWTSecret == "" && c.Env == "production" {
			errs = append(errs, fmt.Errorf("%w: AUTH_JWT_SECRET is required in production", errConfig))
		}
	case providerGoTrue:
		if c.Auth.GoTrueURL == "" || c.Auth.GoTrueKey == "" {
			errs = append(errs, fmt.Errorf("%w: AUTH_GOTRUE_URL and AUTH_GOTRUE_KEY are required", errConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: unknown AUTH_PROVIDER %q", errConfig, c.Auth.Provider))
	}
	if !c.Webhook.Format.Valid() {
		errs = append(errs, fmt.Errorf("%w: unknown WEBHOOK_FORMAT %q", errConfig, c.Webhook.Format))
	}
	if c.Webhook.Retries < 0 {
		errs = append(errs, fmt.Errorf("%w: WEBHOOK_RETRIES must not be negative", errConfig))
	}
	return errors.Join(errs...)
}

// loadRegistry reads the rule table from path, or returns the built-in forms.
func loadRegistry(path string) (*svc.Registry, error) {
	if path == "" {
		return svc.Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read forms: %w", err)
	}
	return svc.LoadForms(data)
}

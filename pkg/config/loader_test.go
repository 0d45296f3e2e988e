package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saludigital/cadastro/pkg/config"
)

type serverConfig struct {
	Addr    string        `env:"HTTP_ADDR" envDefault:":8080"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
	Debug   bool          `env:"DEBUG"`
}

type requiredConfig struct {
	WebhookURL string `env:"WEBHOOK_URL,required"`
}

type validatedConfig struct {
	Min int `env:"MIN" envDefault:"1"`
	Max int `env:"MAX" envDefault:"2"`
}

func (c *validatedConfig) Validate() error {
	if c.Min > c.Max {
		return errors.New("min must not exceed max")
	}
	return nil
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load[serverConfig](config.WithEnvironment(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.False(t, cfg.Debug)
}

func TestLoad_ProcessEnvironment(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DEBUG", "true")

	cfg, err := config.Load[serverConfig]()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.Debug)
}

func TestLoad_Prefix(t *testing.T) {
	cfg, err := config.Load[serverConfig](
		config.WithPrefix("CADASTRO_"),
		config.WithEnvironment(map[string]string{"CADASTRO_HTTP_ADDR": ":7000", "HTTP_ADDR": ":1"}),
	)
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Addr)
}

func TestLoad_Required(t *testing.T) {
	_, err := config.Load[requiredConfig](config.WithEnvironment(map[string]string{}))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_Validate(t *testing.T) {
	_, err := config.Load[validatedConfig](config.WithEnvironment(map[string]string{"MIN": "5"}))
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg, err := config.Load[validatedConfig](config.WithEnvironment(map[string]string{"MAX": "9"}))
	require.NoError(t, err)
	assert.Equal(t, 9, cfg.Max)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_WEBHOOK_URL=https://hooks.example.com/x\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_WEBHOOK_URL") })

	cfg, err := config.Load[requiredConfig](
		config.WithEnvFiles(path, filepath.Join(t.TempDir(), "missing.env")),
		config.WithPrefix("CFGTEST_"),
	)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/x", cfg.WebhookURL)
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		config.MustLoad[requiredConfig](config.WithEnvironment(map[string]string{}))
	})
}

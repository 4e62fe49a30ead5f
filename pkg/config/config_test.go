package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avocadoapp/identity/pkg/config"
)

type testConfig struct {
	Host    string        `env:"CFGTEST_HOST" envDefault:"localhost"`
	Port    int           `env:"CFGTEST_PORT" envDefault:"8080"`
	Timeout time.Duration `env:"CFGTEST_TIMEOUT" envDefault:"5s"`
	Secret  string        `env:"CFGTEST_SECRET,required"`
}

func TestLoad(t *testing.T) {
	t.Run("applies defaults and env values", func(t *testing.T) {
		t.Setenv("CFGTEST_SECRET", "s3cret")
		t.Setenv("CFGTEST_PORT", "9090")

		var cfg testConfig
		require.NoError(t, config.Load(&cfg))

		assert.Equal(t, "localhost", cfg.Host)
		assert.Equal(t, 9090, cfg.Port)
		assert.Equal(t, 5*time.Second, cfg.Timeout)
		assert.Equal(t, "s3cret", cfg.Secret)
	})

	t.Run("fails on missing required field", func(t *testing.T) {
		type strictConfig struct {
			Key string `env:"CFGTEST_MISSING_KEY,required"`
		}

		var cfg strictConfig
		err := config.Load(&cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrParsingFailed)
	})

	t.Run("rejects nil target", func(t *testing.T) {
		err := config.Load[testConfig](nil)
		assert.ErrorIs(t, err, config.ErrNilTarget)
	})
}

func TestMustLoad(t *testing.T) {
	type strictConfig struct {
		Key string `env:"CFGTEST_PANIC_KEY,required"`
	}

	assert.Panics(t, func() {
		var cfg strictConfig
		config.MustLoad(&cfg)
	})
}

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetenv clears k for the test. An empty value would bypass the default.
func unsetenv(t *testing.T, k string) {
	t.Helper()
	if v, ok := os.LookupEnv(k); ok {
		t.Cleanup(func() { _ = os.Setenv(k, v) })
	}
	require.NoError(t, os.Unsetenv(k))
}

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORE_DRIVER", "LOCK_DRIVER", "EVENTS_DRIVER", "JWT_SECRET", "ADMIN_SECRET", "TOKEN_EXPIRY", "ADMIN_TOKEN_EXPIRY", "BCRYPT_ROUNDS"} {
		unsetenv(t, k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, LockDriverMemory, cfg.LockDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiry)
	assert.Equal(t, 8*time.Hour, cfg.AdminTokenExpiry)
	assert.Equal(t, 10, cfg.BcryptRounds)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("EVENTS_DRIVER", "kafka")
	t.Setenv("TOKEN_EXPIRY", "1h")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, EventsDriverKafka, cfg.EventsDriver)
	assert.Equal(t, time.Hour, cfg.TokenExpiry)
}

func TestValidate(t *testing.T) {
	base := Config{StoreDriver: "memory", LockDriver: "memory", EventsDriver: "none", JWTSecret: "a", AdminSecret: "b"}
	require.NoError(t, base.Validate())

	tests := map[string]func(*Config){
		"store":         func(c *Config) { c.StoreDriver = "mongo" },
		"lock":          func(c *Config) { c.LockDriver = "etcd" },
		"events":        func(c *Config) { c.EventsDriver = "sqs" },
		"missing":       func(c *Config) { c.AdminSecret = "" },
		"shared secret": func(c *Config) { c.AdminSecret = c.JWTSecret },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLogger(t *testing.T) {
	c := Config{LogLevel: "debug", Env: "production"}
	l, err := c.Logger()
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(-1))

	c.LogLevel = "loud"
	_, err = c.Logger()
	assert.Error(t, err)
}

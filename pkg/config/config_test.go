package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		StorageDriver:      StorageMongo,
		MongoURI:           DefaultMongoURI,
		MongoDatabaseName:  DefaultMongoDatabaseName,
		MongoConnTimeout:   DefaultMongoConnTimeout,
		Port:               DefaultPort,
		RateLimitRequests:  DefaultRateLimitRequests,
		RateLimitWindow:    DefaultRateLimitWindow,
		RequestTimeout:     DefaultRequestTimeout,
		MaxRequestSize:     DefaultMaxRequestSize,
		ReadTimeout:        DefaultReadTimeout,
		WriteTimeout:       DefaultWriteTimeout,
		IdleTimeout:        DefaultIdleTimeout,
		ShutdownTimeout:    DefaultShutdownTimeout,
		SessionTTL:         DefaultSessionTTL,
		BcryptCost:         DefaultBcryptCost,
		MaxSeatsPerBooking: DefaultMaxSeatsPerBooking,
		EventsTopic:        DefaultEventsTopic,
		EventsDLQTopic:     DefaultEventsDLQTopic,
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, StorageMongo, cfg.StorageDriver)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultBcryptCost, cfg.BcryptCost)
	assert.False(t, cfg.EventsEnabled)
	assert.Empty(t, cfg.CORSAllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvStorageDriver, StoragePostgres)
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvRequestTimeout, "5s")
	t.Setenv(EnvMaxSeatsPerBooking, "4")
	t.Setenv(EnvEventsEnabled, "true")

	cfg := FromEnv()

	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 4, cfg.MaxSeatsPerBooking)
	assert.True(t, cfg.EventsEnabled)
}

func TestFromEnv_CORSOrigins(t *testing.T) {
	t.Setenv(EnvCORSAllowedOrigins, " https://a.example , ,https://b.example")

	cfg := FromEnv()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv(EnvRateLimitRequests, "many")
	t.Setenv(EnvSessionTTL, "forever")
	t.Setenv(EnvEventsEnabled, "maybe")

	cfg := FromEnv()

	assert.Equal(t, DefaultRateLimitRequests, cfg.RateLimitRequests)
	assert.Equal(t, DefaultSessionTTL, cfg.SessionTTL)
	assert.False(t, cfg.EventsEnabled)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.StorageDriver = "sqlite" }, "StorageDriver"},
		{"memory driver ignores mongo settings", func(c *Config) {
			c.StorageDriver = StorageMemory
			c.MongoURI = ""
		}, ""},
		{"bad port", func(c *Config) { c.Port = "0" }, "Port"},
		{"bad mongo uri", func(c *Config) { c.MongoURI = "http://db" }, "MongoURI"},
		{"bad postgres url", func(c *Config) {
			c.StorageDriver = StoragePostgres
			c.PostgresURL = "mysql://db"
			c.PostgresMaxConns = 5
			c.PostgresConnTimeout = time.Second
		}, "PostgresURL"},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, "BcryptCost"},
		{"zero seats per booking", func(c *Config) { c.MaxSeatsPerBooking = 0 }, "MaxSeatsPerBooking"},
		{"admin without password", func(c *Config) {
			c.AdminUserName = "root"
			c.AdminEmail = "root@example.com"
		}, "AdminPassword"},
		{"admin fully configured", func(c *Config) {
			c.AdminUserName = "root"
			c.AdminEmail = "root@example.com"
			c.AdminPassword = "s3cret"
		}, ""},
		{"dlq equals topic", func(c *Config) {
			c.EventsEnabled = true
			c.EventsDLQTopic = c.EventsTopic
		}, "EventsDLQTopic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_NumbersEveryError(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.RateLimitRequests = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. Port")
	assert.Contains(t, err.Error(), "2. RateLimitRequests")
}

func TestRedactURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactURI("mongodb://admin:secret@db:27017"))
	assert.Equal(t, "postgres://***:***@db/railbook", redactURI("postgres://rb:pw@db/railbook"))
	assert.Equal(t, "mongodb://localhost:27017", redactURI("mongodb://localhost:27017"))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, 10, NormalizePaginationLimit(0))
	assert.Equal(t, 25, NormalizePaginationLimit(25))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(5000))
	assert.Equal(t, int64(0), NormalizeOffset(-3))
}

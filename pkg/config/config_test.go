package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		MongoURI:           DefaultMongoURI,
		MongoDatabaseName:  DefaultMongoDatabaseName,
		MongoConnTimeout:   DefaultMongoConnTimeout,
		Port:               DefaultPort,
		RateLimitRequests:  DefaultRateLimitRequests,
		RateLimitWindow:    DefaultRateLimitWindow,
		RequestTimeout:     DefaultRequestTimeout,
		IdempotencyTTL:     DefaultIdempotencyTTL,
		MaxRequestSize:     DefaultMaxRequestSize,
		ReadTimeout:        DefaultReadTimeout,
		WriteTimeout:       DefaultWriteTimeout,
		IdleTimeout:        DefaultIdleTimeout,
		ShutdownTimeout:    DefaultShutdownTimeout,
		JWTSecret:          "0123456789abcdef0123",
		JWTTTL:             DefaultJWTTTL,
		UploadDir:          DefaultUploadDir,
		PublicBaseURL:      DefaultPublicBaseURL,
		VehicleCacheTTL:    DefaultVehicleCacheTTL,
		BookingLockBackend: DefaultBookingLockBackend,
		BookingLockTTL:     DefaultBookingLockTTL,
		BookingLockWait:    DefaultBookingLockWait,
	}
}

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"bad port", func(c *Config) { c.Port = "70000" }, "Port must be between"},
		{"bad mongo scheme", func(c *Config) { c.MongoURI = "postgres://localhost" }, "MongoURI must start"},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, "JWTSecret must be at least"},
		{"admin email without password", func(c *Config) { c.AdminEmail = "root@rental.io" }, "must be set together"},
		{"relative base url", func(c *Config) { c.PublicBaseURL = "/static" }, "PublicBaseURL must be an absolute URL"},
		{"unknown lock backend", func(c *Config) { c.BookingLockBackend = "etcd" }, "BookingLockBackend must be"},
		{"zero lock ttl", func(c *Config) { c.BookingLockTTL = 0 }, "BookingLockTTL must be positive"},
		{"kafka without topic", func(c *Config) { c.KafkaEnabled = true; c.BookingEventsTopic = "" }, "BookingEventsTopic cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.MongoDatabaseName = ""
	cfg.RateLimitRequests = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1. ")
	assert.Contains(t, err.Error(), "2. ")
	assert.Contains(t, err.Error(), "3. ")
}

func TestRedactMongoURI(t *testing.T) {
	assert.Equal(t, "mongodb://***:***@db:27017", redactMongoURI("mongodb://root:secret@db:27017"))
	assert.Equal(t, "mongodb://localhost:27017", redactMongoURI("mongodb://localhost:27017"))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_LIST", " http://a.io, ,http://b.io ")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BAD_BOOL", "maybe")
	t.Setenv("TEST_DURATION", "3s")

	assert.Equal(t, []string{"http://a.io", "http://b.io"}, getEnvList("TEST_LIST", nil))
	assert.Equal(t, []string{"x"}, getEnvList("TEST_MISSING", []string{"x"}))
	assert.True(t, getEnvBool("TEST_BOOL", false))
	assert.True(t, getEnvBool("TEST_BAD_BOOL", true))
	assert.Equal(t, 3*time.Second, getEnvDuration("TEST_DURATION", time.Second))
}

func TestNormalizePagination(t *testing.T) {
	assert.Equal(t, 10, NormalizePaginationLimit(0))
	assert.Equal(t, 42, NormalizePaginationLimit(42))
	assert.Equal(t, DefaultPaginationLimit, NormalizePaginationLimit(1000))
	assert.Equal(t, int64(0), NormalizeOffset(-5))
}

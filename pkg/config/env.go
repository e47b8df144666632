package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"

	EnvAdminUsername = "ADMIN_USERNAME"
	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPhone    = "ADMIN_PHONE"
	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvUploadDir     = "UPLOAD_DIR"
	EnvPublicBaseURL = "PUBLIC_BASE_URL"
	EnvCORSOrigins   = "CORS_ALLOWED_ORIGINS"

	EnvRedisAddr       = "REDIS_ADDR"
	EnvRedisPassword   = "REDIS_PASSWORD"
	EnvRedisDB         = "REDIS_DB"
	EnvVehicleCacheTTL = "VEHICLE_CACHE_TTL"

	EnvKafkaEnabled          = "KAFKA_ENABLED"
	EnvBookingEventsTopic    = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQTopic = "BOOKING_EVENTS_DLQ_TOPIC"
	EnvNotificationsGroupID  = "NOTIFICATIONS_GROUP_ID"

	EnvBookingLockBackend        = "BOOKING_LOCK_BACKEND"
	EnvBookingLockTTL            = "BOOKING_LOCK_TTL"
	EnvBookingLockWait           = "BOOKING_LOCK_WAIT"
	EnvBookingOverlapIgnoresCanc = "BOOKING_OVERLAP_IGNORES_CANCELLED"
	EnvBookingEnforceTransitions = "BOOKING_ENFORCE_TRANSITIONS"
)

package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "car_rental"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "5000"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 5 * 1024 * 1024 // vehicle images travel as multipart

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultJWTTTL = 1 * time.Hour

	DefaultAdminUsername = "admin"

	DefaultUploadDir     = "uploads"
	DefaultPublicBaseURL = "http://localhost:5000"

	DefaultRedisDB         = 0
	DefaultVehicleCacheTTL = 5 * time.Minute

	DefaultKafkaEnabled          = false
	DefaultBookingEventsTopic    = "car-rental.bookings"
	DefaultBookingEventsDLQTopic = "car-rental.bookings.dlq"
	DefaultNotificationsGroupID  = "car-rental-notifications"

	LockBackendMemory = "memory"
	LockBackendMongo  = "mongo"

	DefaultBookingLockBackend        = LockBackendMemory
	DefaultBookingLockTTL            = 10 * time.Second
	DefaultBookingLockWait           = 5 * time.Second
	DefaultBookingOverlapIgnoresCanc = false
	DefaultBookingEnforceTransitions = false
)

var DefaultCORSOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

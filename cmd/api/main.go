package main

import (
	"context"
	"time"

	adminhandler "carrental/internal/admin/handler"
	adminservice "carrental/internal/admin/service"
	authhandler "carrental/internal/auth/handler"
	authservice "carrental/internal/auth/service"
	bookinghandler "carrental/internal/bookings/handler"
	"carrental/internal/bookings/locker"
	bookingrepo "carrental/internal/bookings/repository"
	bookingservice "carrental/internal/bookings/service"
	bookingvalidator "carrental/internal/bookings/validator"
	notificationhandler "carrental/internal/notifications/handler"
	notificationrepo "carrental/internal/notifications/repository"
	notificationservice "carrental/internal/notifications/service"
	userhandler "carrental/internal/users/handler"
	userrepo "carrental/internal/users/repository"
	userservice "carrental/internal/users/service"
	uservalidator "carrental/internal/users/validator"
	vehiclehandler "carrental/internal/vehicles/handler"
	vehiclerepo "carrental/internal/vehicles/repository"
	vehicleservice "carrental/internal/vehicles/service"
	"carrental/internal/vehicles/storage"
	vehiclevalidator "carrental/internal/vehicles/validator"
	"carrental/pkg/app"
	"carrental/pkg/auth"
	"carrental/pkg/cache"
	"carrental/pkg/config"
	"carrental/pkg/events"
	"carrental/pkg/kafka"
	kafkaconfig "carrental/pkg/kafka/config"
	kafkamiddleware "carrental/pkg/kafka/middleware"
	"carrental/pkg/metrics"
	"carrental/pkg/middleware"
)

const ServiceName = "car-rental-api"

const bootstrapTimeout = 10 * time.Second

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting car rental API")
	m := metrics.New()
	tokens := auth.NewJWTMaker(cfg.JWTSecret, cfg.JWTTTL)
	gate := middleware.NewGate(tokens, cfg.Log)
	hasher := auth.NewBcryptHasher(auth.PasswordCost)

	// Users
	userRepo := userrepo.NewMongoUserRepository(cfg)
	userValidator := uservalidator.NewUserValidator()
	userService := userservice.NewUserService(userRepo, userValidator, hasher, cfg)
	authService := authservice.NewAuthService(userService, userRepo, userValidator, hasher, tokens, cfg)

	// Vehicles
	images, err := storage.NewLocalImageStore(cfg.UploadDir)
	if err != nil {
		cfg.Log.Fatal("Failed to prepare upload directory", "dir", cfg.UploadDir, "error", err)
	}
	vehicleRepo := vehiclerepo.NewMongoVehicleRepository(cfg)
	var vehicleCache cache.Cache
	if cfg.Client.Redis != nil {
		vehicleCache = cache.NewRedisCache(cfg.Client.Redis, "vehicles")
	}
	vehicleService := vehicleservice.NewVehicleService(vehicleRepo, vehiclevalidator.NewVehicleValidator(), images, vehicleCache, m, cfg)

	// Notifications
	notificationService := notificationservice.NewNotificationService(notificationrepo.NewMongoNotificationRepository(cfg), cfg)
	publisher, closePublisher := initPublisher(cfg, m, notificationService)

	// Bookings
	bookingRepo := bookingrepo.NewMongoBookingRepository(cfg)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		userRepo,
		vehicleRepo,
		initLocker(cfg),
		bookingvalidator.NewBookingValidator(),
		publisher,
		m,
		cfg,
	)

	adminService := adminservice.NewAdminService(userRepo, vehicleRepo, bookingRepo, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), bootstrapTimeout)
	if err := authService.BootstrapAdmin(ctx); err != nil {
		cfg.Log.Error("Failed to bootstrap admin user", "error", err)
	}
	cancel()

	serverApp := app.NewApplication(cfg, m,
		authhandler.NewAuthHandler(authService, cfg.Log),
		userhandler.NewUserHandler(userService, gate, cfg.Log),
		vehiclehandler.NewVehicleHandler(vehicleService, gate, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, gate, cfg.Log),
		notificationhandler.NewNotificationHandler(notificationService, gate, cfg.Log),
		adminhandler.NewAdminHandler(adminService, userService, gate, cfg.Log),
	)
	serverApp.OnShutdown(func(context.Context) { closePublisher() })
	serverApp.Run()
}

// initPublisher sends booking events to Kafka when enabled. Otherwise the
// notification service consumes them in-process.
func initPublisher(cfg *config.Config, m *metrics.Metrics, notifications notificationservice.NotificationService) (events.Publisher, func()) {
	if !cfg.KafkaEnabled {
		inproc := events.NewInProcessPublisher(notifications.HandleEvent)
		cfg.Log.Info("Booking events delivered in-process")
		return inproc, func() {}
	}

	kafkaCfg, err := kafkaconfig.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafkamiddleware.MetricsProducerMiddleware(m))

	cfg.Log.Info("Booking events published to Kafka", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName), func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}
}

func initLocker(cfg *config.Config) locker.Locker {
	if cfg.BookingLockBackend == locker.BackendMongo {
		cfg.Log.Info("Using Mongo booking locks", "ttl", cfg.BookingLockTTL)
		return locker.NewMongoLocker(bookingrepo.NewVehicleLockRepository(cfg), cfg.BookingLockTTL, cfg.BookingLockWait, cfg.Log)
	}
	cfg.Log.Info("Using in-memory booking locks")
	return locker.NewMemoryLocker(cfg.BookingLockWait)
}

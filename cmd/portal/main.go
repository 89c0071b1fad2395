package main

import (
	"context"

	availabilityHandler "doctorsportal/internal/availability/handler"
	availabilityService "doctorsportal/internal/availability/service"
	"doctorsportal/internal/auth"
	bookingHandler "doctorsportal/internal/bookings/handler"
	bookingRepository "doctorsportal/internal/bookings/repository"
	bookingService "doctorsportal/internal/bookings/service"
	bookingValidator "doctorsportal/internal/bookings/validator"
	catalogHandler "doctorsportal/internal/catalog/handler"
	catalogRepository "doctorsportal/internal/catalog/repository"
	catalogService "doctorsportal/internal/catalog/service"
	doctorHandler "doctorsportal/internal/doctors/handler"
	doctorRepository "doctorsportal/internal/doctors/repository"
	doctorService "doctorsportal/internal/doctors/service"
	"doctorsportal/internal/notifications"
	paymentHandler "doctorsportal/internal/payments/handler"
	paymentService "doctorsportal/internal/payments/service"
	userHandler "doctorsportal/internal/users/handler"
	userRepository "doctorsportal/internal/users/repository"
	userService "doctorsportal/internal/users/service"
	"doctorsportal/pkg/app"
	"doctorsportal/pkg/config"
	"doctorsportal/pkg/contracts"
	"doctorsportal/pkg/kafka"
	kafka_config "doctorsportal/pkg/kafka/config"
	kafka_middleware "doctorsportal/pkg/kafka/middleware"
)

const ServiceName = config.PortalService

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Doctors Portal service")
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(initHandlers(cfg, serverApp)...)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, serverApp *app.Application) []contracts.Handler {
	tokens := auth.NewTokenManager(cfg.AccessTokenSecret, cfg.TokenTTL)

	userRepo := userRepository.NewMongoUserRepository(cfg)
	var roleCache auth.RoleCache = auth.NoopRoleCache{}
	if cfg.Client.Redis != nil {
		roleCache = auth.NewRedisRoleCache(cfg.Client.Redis, cfg.RoleCacheTTL)
	}
	roles := auth.NewCachedRoles(userRepo, roleCache, cfg.Log)
	gate := auth.NewMiddleware(tokens, roles, cfg.Log)

	serviceRepo := catalogRepository.NewMongoServiceRepository(cfg)
	bookingRepo := bookingRepository.NewMongoBookingRepository(cfg)
	doctorRepo := doctorRepository.NewMongoDoctorRepository(cfg)

	notifier := initNotifier(cfg, serverApp)

	users := userService.NewUserService(userRepo, tokens, roles, cfg.Log)
	catalog := catalogService.NewCatalogService(serviceRepo, cfg.Log)
	availability := availabilityService.NewAvailabilityService(serviceRepo, bookingRepo, cfg.Log)
	bookings := bookingService.NewBookingService(
		bookingRepo,
		bookingValidator.NewBookingValidator(cfg.Log),
		notifier,
		cfg,
	)
	doctors := doctorService.NewDoctorService(doctorRepo, cfg.Log)
	gateway := paymentService.NewStripeGateway(cfg)

	cfg.Log.Info("Portal services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		catalogHandler.NewCatalogHandler(catalog, gate, cfg.Log),
		availabilityHandler.NewAvailabilityHandler(availability, cfg.Log),
		bookingHandler.NewBookingHandler(bookings, gate, cfg.Log),
		userHandler.NewUserHandler(users, gate, cfg.Log),
		doctorHandler.NewDoctorHandler(doctors, gate, cfg.Log),
		paymentHandler.NewPaymentHandler(gateway, gate, cfg.Log),
	}
}

// initNotifier publishes booking events to Kafka when brokers are configured
// and otherwise sends confirmation emails in-process.
func initNotifier(cfg *config.Config, serverApp *app.Application) bookingService.Notifier {
	if !cfg.KafkaEnabled() {
		notifier := notifications.NewAsyncNotifier(notifications.NewSendGridSender(cfg), cfg.NotificationTimeout, cfg.Log)
		serverApp.OnShutdown(notifier.Wait)
		cfg.Log.Info("Booking confirmations sent in-process")
		return notifier
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingsTopic, cfg.KafkaBookingsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	notifier := notifications.NewKafkaNotifier(producer, cfg.NotificationTimeout, cfg.Log)
	serverApp.OnShutdown(notifier.Wait)
	serverApp.OnShutdown(func(context.Context) error {
		return producer.Close()
	})
	cfg.Log.Info("Booking confirmations published to Kafka", "topic", cfg.KafkaBookingsTopic)
	return notifier
}

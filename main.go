package main

import (
	"context"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"hotel-booking/internal/config"
	"hotel-booking/internal/handlers"
	"hotel-booking/internal/kafka"
	"hotel-booking/internal/logger"
	"hotel-booking/internal/notify"
	"hotel-booking/internal/queue"
	rediswrap "hotel-booking/internal/redis"
	"hotel-booking/internal/scheduler"
	"hotel-booking/internal/services"
	"hotel-booking/internal/storage"
)

var log *logger.Logger

type eventBus interface {
	services.EventPublisher
	io.Closer
}

func main() {
	seed := flag.Bool("seed", false, "Insert the demo hotel and rooms before serving")
	migrateOnly := flag.Bool("migrate", false, "Apply database migrations and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.NewLogger().Warn("ENV", "Error loading .env file, using environment variables")
	}

	cfg := config.Load()
	log = logger.New(logger.Options{Level: logger.ParseLevel(cfg.Log.Level), File: cfg.Log.File})
	defer log.Close()

	log.LogProcess("STARTUP", "Hotel booking service starting up...")
	log.Info("CONFIG", "Configuration loaded successfully ("+cfg.Env+")")

	store := openStore(cfg, *migrateOnly)
	defer store.Close()
	if *migrateOnly {
		return
	}

	if *seed {
		if err := storage.SeedDemoData(context.Background(), store, log); err != nil {
			log.Fatal("SEED", "Failed to seed demo data: "+err.Error())
		}
	}

	locker := newLocker(cfg)
	events := newEventBus(cfg)
	defer events.Close()

	stripeService, err := services.NewStripeService(cfg.Stripe.SecretKey, log)
	if err != nil {
		log.Fatal("STRIPE", "Failed to initialize Stripe service: "+err.Error())
	}
	if cfg.Stripe.WebhookSecret == "" {
		log.Warn("STRIPE", "STRIPE_WEBHOOK_SECRET not set, every webhook will be rejected")
	}
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("AUTH", "AUTH_JWT_SECRET must be set")
	}

	bookingService := services.NewBookingService(store, locker, events, log).WithIntentCanceller(stripeService)
	paymentService := services.NewPaymentService(store, stripeService, locker, events, log, cfg.Stripe.Currency)
	if cfg.SMTP.Enabled() {
		mailer, err := notify.NewMailer(cfg.SMTP, log)
		if err != nil {
			log.Fatal("MAIL", err.Error())
		}
		paymentService.WithNotifier(mailer)
	}
	userService := services.NewUserService(store, log)
	log.LogProcess("SERVICE", "Services initialized")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	if cfg.Booking.PendingTTL > 0 {
		sweep, err := scheduler.New(bookingService, cfg.Booking.PendingTTL, cfg.Booking.SweepInterval, log)
		if err != nil {
			log.Fatal("SCHEDULER", err.Error())
		}
		sweep.Start()
		defer func() { _ = sweep.Shutdown() }()
	}

	if cfg.Kafka.ConsumeProviderFeed {
		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.ProviderEventsTopic, log)
		if err != nil {
			log.Fatal("KAFKA", "Failed to create Kafka consumer: "+err.Error())
		}
		defer consumer.Close()
		go func() {
			log.LogKafka("START", cfg.Kafka.ProviderEventsTopic, "Starting provider events consumer")
			if err := consumer.ConsumeProviderEvents(ctx, paymentService.OnPaymentEvent); err != nil && ctx.Err() == nil {
				log.Error("KAFKA", "Consumer error: "+err.Error())
			}
		}()
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router, err := handlers.NewRouter(handlers.RouterDeps{
		Log:           log,
		Bookings:      bookingService,
		Payments:      paymentService,
		Rooms:         services.NewRoomService(store, log),
		Reviews:       services.NewReviewService(store, log),
		Users:         userService,
		JWTSecret:     cfg.Auth.JWTSecret,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		RateLimit:     cfg.Server.RateLimit,
	})
	if err != nil {
		log.Fatal("ROUTER", "Failed to build router: "+err.Error())
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.LogProcess("SERVER", "Starting HTTP server on port "+cfg.Server.Port)
		log.Info("STARTUP", "Health check available at: http://localhost"+cfg.Server.Port+"/health")
		log.Info("STARTUP", "Booking API available at: http://localhost"+cfg.Server.Port+"/api/v1")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("SERVER", "Server failed to start: "+err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Warn("SHUTDOWN", "Received shutdown signal, initiating graceful shutdown...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("SHUTDOWN", "Server forced to shutdown: "+err.Error())
	}

	log.Info("SHUTDOWN", "Hotel booking service shutdown completed")
}

func openStore(cfg *config.Config, migrateOnly bool) storage.Store {
	if cfg.StoreBackend == "memory" {
		if migrateOnly {
			log.Fatal("DATABASE", "-migrate needs STORE_BACKEND=mysql")
		}
		log.Warn("DATABASE", "Using in-memory storage, data is lost on restart")
		return storage.NewInMemoryStore()
	}

	log.LogProcess("DATABASE", "Initializing MySQL database...")
	store, err := storage.NewMySQLStore(cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", "Failed to initialize MySQL: "+err.Error())
	}
	if migrateOnly {
		if err := runMigration(store, log); err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
	}
	return store
}

func newLocker(cfg *config.Config) services.KeyLocker {
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS", "REDIS_ADDR not set, room locks only cover this instance")
		return services.NewLocalLocker()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	locker := rediswrap.NewRedis(client, cfg.Redis.LockTTL, cfg.Redis.LockWait)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := locker.Ping(ctx); err != nil {
		log.Fatal("REDIS", "Redis connection failed: "+err.Error())
	}
	log.LogProcess("REDIS", "Redis connection successful")
	return locker
}

func newEventBus(cfg *config.Config) eventBus {
	switch cfg.EventBroker {
	case "rabbitmq":
		publisher, err := queue.NewPublisher(cfg.RabbitMQ.URL, log)
		if err != nil {
			log.Fatal("RABBITMQ", err.Error())
		}
		return publisher
	case "none":
		producer, _ := kafka.NewProducer(nil, true, log)
		return producer
	default:
		log.LogProcess("KAFKA", "Initializing Kafka producer...")
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.MockMode, log)
		if err != nil {
			log.Fatal("KAFKA", "Failed to create Kafka producer: "+err.Error())
		}
		return producer
	}
}

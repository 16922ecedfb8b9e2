package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "formfitness/docs"

	"formfitness/internal/booking"
	"formfitness/internal/catalog"
	"formfitness/internal/clock"
	"formfitness/internal/config"
	"formfitness/internal/db"
	"formfitness/internal/email"
	"formfitness/internal/engine"
	"formfitness/internal/events"
	"formfitness/internal/logger"
	"formfitness/internal/server"
	"formfitness/internal/session"
	"formfitness/internal/subscription"
	"formfitness/internal/user"
	"formfitness/internal/wallet"

	"github.com/redis/go-redis/v9"
)

type repositories struct {
	users         user.Repository
	classes       catalog.Repository
	bookings      booking.Repository
	subscriptions subscription.Repository
	wallets       wallet.Repository
	// ping is nil for in-memory storage.
	ping  server.HealthCheck
	close func()
}

func openRepositories(cfg *config.Config) (*repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &repositories{
			users:         user.NewMemoryRepository(),
			classes:       catalog.NewMemoryRepository(),
			bookings:      booking.NewMemoryRepository(),
			subscriptions: subscription.NewMemoryRepository(),
			wallets:       wallet.NewMemoryRepository(),
			close:         func() {},
		}, nil
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		database.Close()
		return nil, err
	}
	logger.Info("Migrations completed")

	return &repositories{
		users:         user.NewRepository(database),
		classes:       catalog.NewRepository(database),
		bookings:      booking.NewRepository(database),
		subscriptions: subscription.NewRepository(database),
		wallets:       wallet.NewRepository(database),
		ping:          database.PingContext,
		close:         func() { database.Close() },
	}, nil
}

// connectRedis returns nil when Redis is unreachable.
func connectRedis(ctx context.Context, addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, falling back to in-process sessions and events", "addr", addr, "error", err)
		client.Close()
		return nil
	}
	return client
}

func seedDemoData(ctx context.Context, users user.Service, classes catalog.Service, subs subscription.Ledger) error {
	if err := users.SeedDemoUsers(ctx); err != nil {
		return err
	}
	if err := classes.Seed(ctx); err != nil {
		return err
	}

	members, err := users.ListByRole(ctx, user.RoleMember)
	if err != nil {
		return err
	}
	for _, m := range members {
		if m.Login != "user" {
			continue
		}
		history, err := subs.ListByUser(ctx, m.ID)
		if err != nil {
			return err
		}
		if len(history) == 0 {
			if _, err := subs.Assign(ctx, m.ID, subscription.TypeOneMonth); err != nil {
				return err
			}
		}
	}
	logger.Info("Demo data seeded")
	return nil
}

// @title FormFitness API
// @version 1.0
// @description Fitness club API: class schedule, bookings, subscriptions and member wallets.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init()
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting FormFitness application")

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatalf("Invalid club timezone: %v", err)
	}
	clk := clock.NewSystem(loc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repos, err := openRepositories(cfg)
	if err != nil {
		logger.Fatalf("Failed to open storage: %v", err)
	}
	defer repos.close()

	healthChecks := map[string]server.HealthCheck{}
	if repos.ping != nil {
		healthChecks["postgres"] = repos.ping
	}

	var (
		sessions  session.Store
		bus       events.Bus
		emailSvc  *email.Service
		localBus  *events.Local
		redisConn = connectRedis(ctx, cfg.RedisAddr)
	)
	if redisConn != nil {
		defer redisConn.Close()
		healthChecks["redis"] = func(ctx context.Context) error { return redisConn.Ping(ctx).Err() }
		sessions = session.NewRedisStore(redisConn, cfg.SessionTTL)
		bus = events.NewRedis(redisConn, "")
		emailSvc = email.NewService(redisConn, email.SMTPConfig{
			From:     cfg.EmailFrom,
			FromName: cfg.EmailFromName,
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Pass:     cfg.SMTPPass,
		})
		logger.Info("Email service initialized")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
		localBus = events.NewLocal()
		defer localBus.Close()
		bus = localBus
	}

	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Error("AMQP unavailable, events stay in-process", "error", err)
		} else {
			defer amqpPub.Close()
			bus = events.Forward(bus, amqpPub)
			logger.Info("Forwarding domain events to AMQP")
		}
	}

	userService := user.NewService(repos.users)
	catalogService := catalog.NewService(repos.classes)
	subscriptions := subscription.NewLedger(repos.subscriptions, repos.wallets, clk)
	bookings := booking.NewLedger(repos.bookings, repos.classes, clk)

	if cfg.SeedDemoData {
		if err := seedDemoData(ctx, userService, catalogService, subscriptions); err != nil {
			logger.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	if emailSvc != nil {
		go emailSvc.Start(ctx)
		go email.NewNotifier(emailSvc, userService).Run(ctx, bus)
	}

	eng := engine.New(engine.Deps{
		Users:                       userService,
		Catalog:                     catalogService,
		Subscriptions:               subscriptions,
		Bookings:                    bookings,
		Wallets:                     repos.wallets,
		Sessions:                    sessions,
		Events:                      bus,
		Clock:                       clk,
		BookingRequiresSubscription: cfg.BookingRequiresSubscription,
	})

	srv := server.New(server.Deps{
		Config:       cfg,
		Users:        user.NewHandler(userService, sessions, cfg.JWTSecret),
		Wallets:      wallet.NewHandler(repos.wallets),
		Engine:       engine.NewHandler(eng, bus),
		Sessions:     sessions,
		Email:        emailSvc,
		HealthChecks: healthChecks,
	})

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}
	cancel()

	logger.Info("Server stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"salon-booking-backend/config"
	"salon-booking-backend/internal/api"
	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/db"
	"salon-booking-backend/internal/notification"
	"salon-booking-backend/internal/store"
	"salon-booking-backend/internal/sweeper"
)

func main() {
	// Secrets may live in a .env next to the binary.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env file: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded", zap.String("path", configPath), zap.String("env", cfg.Server.Env))

	cal, err := cfg.BuildCalendar()
	if err != nil {
		logger.Fatal("invalid calendar", zap.Error(err))
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("invalid timezone", zap.Error(err))
	}

	appStore, closeStore, err := openStore(&cfg.Store, logger)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()
	logger.Info("booking store initialized", zap.String("driver", cfg.Store.Driver))

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ledger := booking.NewLedger(appStore, cal,
		booking.WithLocation(loc),
		booking.WithLogger(logger.Named("ledger")),
	)

	var webpushOptions *webpush.Options
	senders := []notification.Sender{}
	if cfg.Telegram.Enabled() {
		senders = append(senders, notification.NewTelegramSender(cfg.Telegram, loc))
	} else {
		logger.Info("telegram is not configured, booking messages disabled")
	}
	if cfg.Push.PublicKey != "" && cfg.Push.PrivateKey != "" {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
	}
	if cfg.Push.Enabled() {
		senders = append(senders, notification.NewWebPushSender(&webpush.Subscription{
			Endpoint: cfg.Push.Subscription.Endpoint,
			Keys: webpush.Keys{
				P256dh: cfg.Push.Subscription.P256DH,
				Auth:   cfg.Push.Subscription.Auth,
			},
		}, webpushOptions))
	}

	workerPool := notification.NewWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize, logger.Named("notify"), senders...)
	workerPool.Start(ctx)
	ledger.OnCommit(workerPool.Notify)

	if cfg.Sweeper.Enabled {
		go sweeper.NewService(ledger, cfg.Sweeper.Interval, logger.Named("sweeper")).Run(ctx)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.NewHandler(ledger, webpushOptions, logger.Named("api")), &cfg.Server)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")
	cancel()

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
		return
	}

	logger.Info("server gracefully stopped")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.IsProduction() {
		zc = zap.NewProductionConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zc.Build()
}

// openStore builds the configured persistence backend and a func releasing it.
func openStore(cfg *config.StoreConfig, logger *zap.Logger) (store.Store, func(), error) {
	switch cfg.Driver {
	case "memory":
		logger.Warn("using in-memory store, bookings are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.RedisAddr, err)
		}
		return store.NewRedisStore(client, cfg.RedisKey), func() { client.Close() }, nil
	default:
		gormDB, err := db.Init(cfg, logger.Named("db"))
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gormDB.DB()
		if err != nil {
			return nil, nil, err
		}
		return store.NewGormStore(gormDB), func() { sqlDB.Close() }, nil
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trend-intel/internal/cache"
	"trend-intel/internal/config"
	"trend-intel/internal/handlers"
	"trend-intel/internal/middleware"
	"trend-intel/internal/orchestrator"
	"trend-intel/internal/provider"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Configure logger
	logger, err := setupLogger(&cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Trend Intelligence Server",
		zap.String("version", "1.0.0"),
		zap.String("address", cfg.Server.GetAddress()),
	)

	// Snapshot persistence is optional: a reachable Redis gives the
	// cache warm starts, anything else degrades to in-memory only.
	var snapshots cache.SnapshotStore = cache.NoopSnapshots{}
	if cfg.Redis.Enabled {
		redisSnapshots, err := cache.NewRedisSnapshots(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("snapshot store unavailable, cache runs in-memory only", zap.Error(err))
		} else {
			defer redisSnapshots.Close()
			snapshots = redisSnapshots
			logger.Info("snapshot store connected")
		}
	}

	// Initialize cache store and its periodic cleanup
	store := cache.NewStore(&cfg.Cache, snapshots, clock.New(), logger)
	stopCleanup := store.StartCleanup()
	defer stopCleanup()

	// Initialize provider client and orchestrator
	providerClient := provider.NewHTTPClient(nil, &cfg.Provider, logger)
	orch := orchestrator.New(store, providerClient, clock.New(), logger)

	// Configure Gin
	if cfg.Logger.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	router := gin.New()

	// Middlewares
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())

	// Initialize handlers
	trendHandler := handlers.NewTrendHandler(orch, logger)

	// Health routes
	router.GET("/health", trendHandler.Health)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Trend routes
	api := router.Group("/api/v1")
	{
		trends := api.Group("/trends")
		{
			// Collection operations
			trends.POST("/scrape", trendHandler.Scrape)
			trends.POST("/refresh", trendHandler.Refresh)

			// Cache management operations
			trends.GET("/cache/stats", trendHandler.CacheStats)
			trends.GET("/cache/export", trendHandler.ExportCache)
			trends.DELETE("/cache", trendHandler.ClearCache)
			trends.DELETE("/cache/:keyword", trendHandler.InvalidateCache)
		}
	}

	// Configure HTTP server
	server := &http.Server{
		Addr:         cfg.Server.GetAddress(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// setupLogger configures the logger according to the configuration
func setupLogger(cfg *config.LoggerConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding: cfg.Format,
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "timestamp",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "message",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{cfg.OutputPath},
		ErrorOutputPaths: []string{cfg.OutputPath},
	}

	return config.Build()
}

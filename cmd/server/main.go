package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arenaforge/arena-server-go/internal/combat"
	"github.com/arenaforge/arena-server-go/internal/config"
	"github.com/arenaforge/arena-server-go/internal/repository"
	"github.com/arenaforge/arena-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting arena server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Database is optional; without it battle reports stay in memory only.
	var reports *repository.ReportRepository
	if cfg.Database.URL != "" {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()
		reports = repository.NewReportRepository(db)
		logger.Info("report repository initialized")
	} else {
		logger.Warn("database url not configured; battle reports will not be persisted")
	}

	var recorder *combat.ReplayRecorder
	if cfg.Replay.Enabled {
		recorder = combat.NewReplayRecorder(logger, cfg.Replay.Dir)
		logger.Info("replay recorder initialized", zap.String("dir", cfg.Replay.Dir))
	}

	engine := combat.NewBattleEngine(logger, recorder)
	logger.Info("battle engine initialized")

	arenaServer := server.NewArenaServer(cfg, engine, reports, logger)

	go func() {
		if serveErr := arenaServer.Start(); serveErr != nil {
			logger.Error("server error", zap.Error(serveErr))
		}
	}()

	logger.Info("arena server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := arenaServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("arena server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
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

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

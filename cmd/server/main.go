package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/config"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/export"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/export/report"
	httpadapter "github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/interfaces/http"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/project"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/repository"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/review"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/internal/storage"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/pkg/database"
	"github.com/CharansaiParvathala/saibalajiConstructions-sub001/pkg/utils"
)

func main() {
	// Load .env if present; real env vars take precedence
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting payment review service",
		zap.String("company", cfg.Export.CompanyName),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Storage.ImageDir, 0755); err != nil {
		logger.Fatal("Failed to create image directory", zap.Error(err))
	}

	// Repositories
	projectRepo := repository.NewProjectRepository(db.DB, logger)
	progressRepo := repository.NewProgressRepository(db.DB, logger)
	imageRepo := repository.NewImageRepository(db.DB, logger)
	requestRepo := repository.NewPaymentRequestRepository(db.DB, logger)
	expenseRepo := repository.NewExpenseRepository(db.DB, logger)
	historyRepo := repository.NewHistoryRepository(db.DB, logger)

	// Storage
	imageStore := storage.NewImageStore(cfg.Storage.ImageDir, logger)

	// Services
	svcLogger := utils.NewZapAdapter(logger)
	reviewService := review.NewService(requestRepo, expenseRepo, historyRepo, db, svcLogger)
	projectService := project.NewService(projectRepo, progressRepo, imageRepo, imageStore, db, svcLogger)

	// Export pipeline. A broken watermark never blocks report generation.
	watermark, err := report.LoadWatermark(cfg.Export.WatermarkPath, cfg.Export.WatermarkOpacity, logger)
	if err != nil {
		logger.Warn("Watermark unavailable, reports will render without it", zap.Error(err))
		watermark = nil
	}
	builder := report.NewBuilder(cfg.Export.CurrencySymbol, watermark, logger)
	if cfg.Export.FontPath != "" {
		builder = builder.WithFont(cfg.Export.FontPath)
	}
	normalizer := export.NewNormalizer(cfg.Export.ImageBaseDim, cfg.Export.JPEGQuality, logger)
	exportService := export.NewService(
		projectRepo,
		requestRepo,
		expenseRepo,
		imageRepo,
		imageStore,
		normalizer,
		builder,
		cfg.Export.CompanyName,
		logger,
	)

	// HTTP server
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}, reviewService, projectService, exportService, svcLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

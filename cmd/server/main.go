package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/artifact"
	"github.com/amdal/case-copilot/internal/codes"
	"github.com/amdal/case-copilot/internal/config"
	"github.com/amdal/case-copilot/internal/docparse"
	httpapi "github.com/amdal/case-copilot/internal/interfaces/http"
	"github.com/amdal/case-copilot/internal/notify"
	"github.com/amdal/case-copilot/internal/oracle"
	"github.com/amdal/case-copilot/internal/repository"
	"github.com/amdal/case-copilot/internal/storage"
	"github.com/amdal/case-copilot/internal/workflow"
	"github.com/amdal/case-copilot/pkg/database"
	"github.com/amdal/case-copilot/pkg/utils"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
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

	logger.Info("Starting reimbursement case copilot",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	// Initialize database
	db, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	migrator := database.NewMigrator(db, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	if err := os.MkdirAll(cfg.Storage.UploadsDir, 0755); err != nil {
		logger.Fatal("Failed to create uploads directory", zap.Error(err))
	}

	// Initialize repositories
	caseRepo := repository.NewCaseRepository(db.DB, logger)
	messageRepo := repository.NewMessageRepository(db.DB, logger)
	documentRepo := repository.NewDocumentRepository(db.DB, logger)
	stateRepo := repository.NewStateRepository(db.DB, logger)

	// File storage and artifact generation
	files := storage.NewLocalFileStore(cfg.Storage.UploadsDir, cfg.Storage.PublicBaseURL, logger)
	artifacts := artifact.NewGenerator(files, documentRepo, logger)

	// ADA code lookup table
	codeTable := codes.NewTable(cfg.Codes.ADAFile, logger)

	// Oracles: GPT-backed when an API key is configured, deterministic
	// simulation otherwise.
	var oracles oracle.Oracles = oracle.NewSimulated()
	if cfg.OpenAI.APIKey != "" {
		oracles = oracle.NewGPT(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.Temperature, logger)
		logger.Info("Using GPT oracles", zap.String("model", cfg.OpenAI.Model))
	}

	// Optional Lark notifications
	var notifier workflow.Notifier
	if cfg.Lark.AppID != "" {
		notifier = notify.NewLarkNotifier(notify.Config{
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
			ChatID:    cfg.Lark.ChatID,
		}, logger)
		logger.Info("Lark notifications enabled", zap.String("chat_id", cfg.Lark.ChatID))
	}

	// Workflow engine
	engine := workflow.NewEngine(caseRepo, messageRepo, stateRepo,
		oracles, artifacts, codeTable, notifier, logger)

	// HTTP server
	handlers := httpapi.NewHandlers(caseRepo, messageRepo, documentRepo, stateRepo,
		engine, files, docparse.NewExtractor(logger), logger)
	server := httpapi.NewServer(httpapi.ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, handlers, cfg.Storage.UploadsDir, logger)

	// Run until interrupted
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}

package main

import (
	"log"
	"log/slog"

	"github.com/lromerov/itemcat/internal/assetstore/local"
	"github.com/lromerov/itemcat/internal/config"
	"github.com/lromerov/itemcat/internal/db"
	"github.com/lromerov/itemcat/internal/discovery"
	"github.com/lromerov/itemcat/internal/logging"
	"github.com/lromerov/itemcat/internal/report"
	"github.com/lromerov/itemcat/internal/service"
	"github.com/lromerov/itemcat/internal/store"
	"github.com/lromerov/itemcat/internal/suggest"
	claudesuggest "github.com/lromerov/itemcat/internal/suggest/claude"
	"github.com/lromerov/itemcat/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	assets, err := local.NewLocalAssetStore(cfg.UploadPath)
	if err != nil {
		logger.Error("failed to initialize asset store", "error", err)
		return
	}

	svc := service.NewItemService(
		store.NewItemStore(database),
		assets,
		newSuggester(cfg, logger),
		newReporter(cfg, logger),
		logger,
	)

	responder := discovery.NewResponder(cfg.DiscoveryPort, cfg.HTTPPort, logger)
	go func() {
		logger.Info("starting discovery responder", "port", cfg.DiscoveryPort)
		if err := responder.ListenAndServe(); err != nil {
			logger.Error("discovery responder stopped", "error", err)
		}
	}()

	server := web.NewServer(svc, assets, logger)
	if err := server.ListenAndServe(cfg.ListenAddr()); err != nil {
		logger.Error("server error", "error", err)
	}
}

func newReporter(cfg *config.Config, logger *slog.Logger) service.Reporter {
	if cfg.ReportPath == "" {
		return nil
	}
	return report.NewReporter(cfg.ReportPath, logger)
}

func newSuggester(cfg *config.Config, logger *slog.Logger) suggest.CategorySuggester {
	switch cfg.SuggestBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Error("CLAUDE_API_KEY is required when SUGGEST_BACKEND=claude")
			return nil
		}
		logger.Info("category suggestions enabled", "model", cfg.ClaudeModel)
		return claudesuggest.NewClaudeSuggester(cfg.ClaudeAPIKey, cfg.ClaudeModel)
	default:
		return nil
	}
}

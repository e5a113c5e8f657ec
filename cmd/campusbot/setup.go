package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/campushq/campusbot/internal/config"
	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/internal/providers/llm"
	"github.com/campushq/campusbot/internal/providers/rag"
	"github.com/campushq/campusbot/internal/providers/translate"
	"github.com/campushq/campusbot/internal/service/directory"
	"github.com/campushq/campusbot/internal/service/ingest"
	"github.com/campushq/campusbot/internal/service/pipeline"
	"github.com/campushq/campusbot/internal/service/tools"
	"github.com/campushq/campusbot/internal/storage/sqlite"
	transport "github.com/campushq/campusbot/internal/transport/http"
	"github.com/campushq/campusbot/pkg/log"
	"github.com/campushq/campusbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	if err := initEnv(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	pipelineCfg := config.NewPipelineConfig(ctx)
	llmCfg := config.NewLLMConfig(ctx)
	ragCfg := config.NewRAGConfig(ctx)
	translateCfg := config.NewTranslateConfig(ctx)

	// 2. Storage
	db, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	sessions := sqlite.NewSessions(db)
	documents := sqlite.NewDocuments(db)
	events := sqlite.NewEvents(db)

	// 3. AI Provider
	aiProvider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Embedder
	embedder := rag.NewEmbedder(ragCfg)

	// 5. Department directory
	dir, err := directory.Load(appCfg.DirectoryPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load department directory")
	}

	// 6. Translation (optional, pipeline degrades to English without it)
	var detector core.Detector
	var translator core.Translator
	if translateCfg.Enabled() {
		google := translate.NewGoogle(translateCfg)
		detector, translator = google, google
	} else {
		logger.Warn().Msg("no translate api key, answers will stay in the working language")
	}

	// 7. Tool chains
	registry := tools.NewRegistry(
		tools.NewRetrieval(embedder, documents, aiProvider, dir, pipelineCfg),
		tools.NewLookup(events, aiProvider),
		tools.NewDirectoryChain(dir),
		tools.NewGeneral(aiProvider, pipelineCfg.HistoryWindow),
	)

	// 8. Pipeline
	orchestrator := pipeline.NewOrchestrator(
		sessions,
		pipeline.NewLanguageDetector(detector, pipelineCfg.FallbackLanguage),
		pipeline.NewRefiner(aiProvider, pipelineCfg.HistoryWindow),
		pipeline.NewRouter(aiProvider),
		registry,
		translator,
		pipelineCfg,
	)

	// 9. HTTP transport
	ingester := ingest.New(embedder, documents, ragCfg)
	server := transport.NewServer(ctx, appCfg, pipelineCfg, orchestrator, ingester, documents)
	services = append(services, server)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, error) {
	return sqlite.NewDB(ctx, cfg.GetDatabasePath())
}

func initEnv(ctx context.Context) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(".", ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}

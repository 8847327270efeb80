package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/grigorel/gemcord/internal/attach"
	"github.com/grigorel/gemcord/internal/config"
	"github.com/grigorel/gemcord/internal/providers/gemini"
	"github.com/grigorel/gemcord/internal/service/chat"
	"github.com/grigorel/gemcord/internal/service/command"
	"github.com/grigorel/gemcord/internal/service/session"
	"github.com/grigorel/gemcord/internal/service/track"
	"github.com/grigorel/gemcord/internal/storage/sqlite"
	"github.com/grigorel/gemcord/internal/transport/discord"
	"github.com/grigorel/gemcord/pkg/log"
	"github.com/grigorel/gemcord/pkg/srv"
	"github.com/joho/godotenv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)
	discordCfg := config.NewDiscordConfig(ctx)
	geminiCfg := config.NewGeminiConfig(ctx)

	// 2. Storage
	db, historyRepo, threadsRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. AI Provider
	generator := gemini.NewClient(geminiCfg)

	// 4. Chat Sessions
	// The template seeds every fresh channel log, and persisted logs are
	// restored on top of it before the gateway connects.
	template := session.LoadTemplate(ctx, appCfg.GetTemplatePath())
	registry := session.NewRegistry(generator, template)

	logs, err := historyRepo.LoadLogs(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load persisted chat logs")
	}
	registry.LoadPersisted(ctx, logs)

	// 5. Thread Tracking
	tracker := track.NewTracker(threadsRepo)
	if err := tracker.Load(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to load tracked threads")
	}

	// 6. Orchestrator & Commands
	orch := chat.NewOrchestrator(
		registry,
		attach.NewResolver(),
		historyRepo,
		tracker,
		discordCfg.TrackedChannels,
		appCfg.MaxMessageLength,
		appCfg.PersistAttachments,
	)
	forget := command.NewForget(registry, historyRepo)

	// 7. Transport
	bot, err := discord.NewBot(ctx, discordCfg, orch, forget, tracker)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize discord bot")
	}
	services = append(services, bot)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *sqlite.HistoryRepo, *sqlite.ThreadsRepo, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, nil, err
	}
	return db, sqlite.NewHistoryRepo(db), sqlite.NewThreadsRepo(db), nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rahul-004x/digger/internal/config"
	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/query"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/infrastructure/auth"
	"github.com/rahul-004x/digger/internal/infrastructure/database"
	"github.com/rahul-004x/digger/internal/infrastructure/extractor"
	"github.com/rahul-004x/digger/internal/infrastructure/llmprovider"
	"github.com/rahul-004x/digger/internal/infrastructure/logger"
	"github.com/rahul-004x/digger/internal/infrastructure/observability"
	"github.com/rahul-004x/digger/internal/infrastructure/searchprovider"
	conversationrepo "github.com/rahul-004x/digger/internal/infrastructure/repository/conversation"
	"github.com/rahul-004x/digger/internal/interfaces/httpserver"
	"github.com/rahul-004x/digger/internal/interfaces/httpserver/handlers"
)

// Application bundles the long running pieces of the answer engine.
type Application struct {
	httpServer *httpserver.HttpServer
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HttpServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	db, err := database.Connect(database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}

	if err := database.AutoMigrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	authValidator, err := auth.NewValidator(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize auth validator")
	}

	conversationRepository := conversationrepo.NewRepository(db)
	llmClient := llmprovider.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey)
	searchClient := searchprovider.NewClient(cfg.TavilyBaseURL, cfg.TavilyAPIKey, log)
	contentExtractor := extractor.New(extractor.Config{
		Timeout:  cfg.ExtractTimeout,
		MaxChars: cfg.ExtractMaxChars,
	}, log)
	assembler := retrieval.NewAssembler(contentExtractor, log)

	resolver := query.NewResolver(searchClient, llmClient, conversationRepository, query.ResolverConfig{
		MaxResults: cfg.SearchMaxResults,
		TitleModel: cfg.TitleModel,
	}, log)
	streamer := query.NewStreamer(assembler, llmClient, conversationRepository, query.StreamerConfig{
		Model:     cfg.LLMModel,
		MaxTokens: cfg.AnswerMaxTokens,
	}, log)
	conversationService := conversation.NewService(conversationRepository, log)

	provider := handlers.NewProvider(
		handlers.NewQueryHandler(resolver, streamer, log),
		handlers.NewConversationHandler(conversationService, log),
	)

	httpServer := httpserver.New(cfg, log, provider, authValidator)
	app := NewApplication(httpServer, log)

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}

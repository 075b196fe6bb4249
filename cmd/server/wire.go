//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rahul-004x/digger/internal/config"
	"github.com/rahul-004x/digger/internal/domain/conversation"
	"github.com/rahul-004x/digger/internal/domain/llm"
	"github.com/rahul-004x/digger/internal/domain/query"
	"github.com/rahul-004x/digger/internal/domain/retrieval"
	"github.com/rahul-004x/digger/internal/infrastructure/auth"
	"github.com/rahul-004x/digger/internal/infrastructure/database"
	"github.com/rahul-004x/digger/internal/infrastructure/extractor"
	"github.com/rahul-004x/digger/internal/infrastructure/llmprovider"
	"github.com/rahul-004x/digger/internal/infrastructure/logger"
	"github.com/rahul-004x/digger/internal/infrastructure/searchprovider"
	conversationrepo "github.com/rahul-004x/digger/internal/infrastructure/repository/conversation"
	"github.com/rahul-004x/digger/internal/interfaces/httpserver"
	"github.com/rahul-004x/digger/internal/interfaces/httpserver/handlers"
)

var querySet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	newLLMProvider,
	wire.Bind(new(llm.Provider), new(*llmprovider.Client)),
	newSearchProvider,
	wire.Bind(new(retrieval.SearchProvider), new(*searchprovider.Client)),
	newExtractor,
	wire.Bind(new(retrieval.ContentExtractor), new(*extractor.Extractor)),
	retrieval.NewAssembler,
	newResolver,
	newStreamer,
	conversation.NewService,
)

// BuildApplication assembles the answer engine with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		querySet,
		handlers.NewQueryHandler,
		handlers.NewConversationHandler,
		handlers.NewProvider,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(ctx context.Context, cfg database.Config, log zerolog.Logger) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(ctx, db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newLLMProvider(cfg *config.Config) *llmprovider.Client {
	return llmprovider.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey)
}

func newSearchProvider(cfg *config.Config, log zerolog.Logger) *searchprovider.Client {
	return searchprovider.NewClient(cfg.TavilyBaseURL, cfg.TavilyAPIKey, log)
}

func newExtractor(cfg *config.Config, log zerolog.Logger) *extractor.Extractor {
	return extractor.New(extractor.Config{
		Timeout:  cfg.ExtractTimeout,
		MaxChars: cfg.ExtractMaxChars,
	}, log)
}

func newResolver(cfg *config.Config, search retrieval.SearchProvider, provider llm.Provider, convos conversation.Repository, log zerolog.Logger) *query.Resolver {
	return query.NewResolver(search, provider, convos, query.ResolverConfig{
		MaxResults: cfg.SearchMaxResults,
		TitleModel: cfg.TitleModel,
	}, log)
}

func newStreamer(cfg *config.Config, assembler *retrieval.Assembler, provider llm.Provider, convos conversation.Repository, log zerolog.Logger) *query.Streamer {
	return query.NewStreamer(assembler, provider, convos, query.StreamerConfig{
		Model:     cfg.LLMModel,
		MaxTokens: cfg.AnswerMaxTokens,
	}, log)
}

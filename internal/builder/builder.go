package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ragdesk/answer-backend/internal/api"
	answerapi "github.com/ragdesk/answer-backend/internal/api/answer"
	auditapi "github.com/ragdesk/answer-backend/internal/api/audit"
	"github.com/ragdesk/answer-backend/internal/config"
	"github.com/ragdesk/answer-backend/internal/integration/generation"
	"github.com/ragdesk/answer-backend/internal/integration/retrieval"
	"github.com/ragdesk/answer-backend/internal/pipeline/budget"
	"github.com/ragdesk/answer-backend/internal/pipeline/classify"
	"github.com/ragdesk/answer-backend/internal/pipeline/confidence"
	"github.com/ragdesk/answer-backend/internal/pipeline/fallback"
	"github.com/ragdesk/answer-backend/internal/pipeline/selection"
	"github.com/ragdesk/answer-backend/internal/pkg/formatter"
	"github.com/ragdesk/answer-backend/internal/pkg/tokens"
	"github.com/ragdesk/answer-backend/internal/pkg/validator"
	"github.com/ragdesk/answer-backend/internal/repository"
	"github.com/ragdesk/answer-backend/internal/retention"
	answeruc "github.com/ragdesk/answer-backend/internal/usecase/answer"
	audituc "github.com/ragdesk/answer-backend/internal/usecase/audit"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Setup database connection
	db, err := setupDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	// Run database migrations
	logger.Info("Running database migrations")
	if err := repository.RunMigrations(cfg.DatabaseURL); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("Database migrations completed successfully")

	// Initialize repositories
	auditRepo := repository.NewAuditPostgres(db)
	conversationRepo := repository.NewConversationPostgres(db)
	logger.Info("Repositories initialized")

	// Initialize external service connectors (with mock support)
	var retrievalConnector answeruc.RetrievalConnector
	var generationConnector answeruc.GenerationConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		retrievalConnector = retrieval.NewMockConnector(logger)
		generationConnector = generation.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		retrievalConnector = retrieval.NewConnector(cfg.RetrievalConnectorCfg, logger)
		generationConnector = generation.NewConnector(cfg.GenerationConnectorCfg, logger)
	}

	// Initialize pipeline components
	classifier, clsCache := buildClassifier(cfg)
	budgetMgr, err := buildBudgetManager(cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("build budget manager: %w", err)
	}
	selector := buildSelector(cfg)
	assessor := buildAssessor(cfg)
	dispatcher := fallback.New(fallback.DefaultConfig(cfg.DomainTopics), assessor.LevelFor)
	logger.Info("Pipeline components initialized")

	// Initialize validators
	requestValidator := validator.NewValidator(cfg.PipelineCfg)

	// Initialize use cases
	answerUC := answeruc.NewUsecase(
		classifier,
		clsCache,
		budgetMgr,
		selector,
		assessor,
		dispatcher,
		retrievalConnector,
		generationConnector,
		auditRepo,
		conversationRepo,
		cfg.PipelineCfg,
		cfg.DomainTerms,
		logger,
	)
	auditUC := audituc.NewUsecase(auditRepo, logger)
	logger.Info("Use cases initialized")

	// Setup API handlers
	answerHandler := answerapi.NewHandler(answerUC, requestValidator)
	auditHandler := auditapi.NewHandler(auditUC, requestValidator, formatter.NewFactory())
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(answerHandler, auditHandler, logger)
	logger.Info("HTTP router configured")

	// Retention sweep for aged audit and conversation rows
	sweeper := retention.NewSweeper(cfg.RetentionCfg, auditRepo, conversationRepo, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server:  server,
		db:      db,
		sweeper: sweeper,
		logger:  logger,
	}, nil
}

func buildClassifier(cfg *config.Config) (*classify.Classifier, *classify.Cache) {
	clsCfg := classify.DefaultConfig()
	clsCfg.DomainTopics = cfg.DomainTopics
	clsCfg.DomainTerms = cfg.DomainTerms

	cache := classify.NewCache(cfg.PipelineCfg.CacheTTL, cfg.PipelineCfg.CachePurgeInterval)
	return classify.New(clsCfg), cache
}

func buildBudgetManager(cfg *config.Config) (*budget.Manager, error) {
	budgetCfg := budget.DefaultConfig()
	budgetCfg.BusinessStart = cfg.PipelineCfg.BusinessHoursStart
	budgetCfg.BusinessEnd = cfg.PipelineCfg.BusinessHoursEnd

	loc, err := time.LoadLocation(cfg.PipelineCfg.BusinessTimezone)
	if err != nil {
		return nil, fmt.Errorf("load business timezone %q: %w", cfg.PipelineCfg.BusinessTimezone, err)
	}
	budgetCfg.BusinessLocation = loc

	return budget.NewManager(budgetCfg, budget.NewStats()), nil
}

func buildSelector(cfg *config.Config) *selection.Selector {
	selCfg := selection.DefaultConfig()
	selCfg.MinSimilarity = cfg.PipelineCfg.MinSimilarity
	selCfg.MinQuality = cfg.PipelineCfg.MinQuality
	selCfg.MaxPerSource = cfg.PipelineCfg.MaxChunksPerSource

	return selection.New(selCfg, tokens.NewEstimator())
}

func buildAssessor(cfg *config.Config) *confidence.Assessor {
	confCfg := confidence.DefaultConfig()
	confCfg.MinOverall = cfg.PipelineCfg.MinConfidence

	return confidence.New(confCfg)
}

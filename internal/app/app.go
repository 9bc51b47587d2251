package app

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/fund-recommender/internal/advisor"
	"github.com/bobmcallan/fund-recommender/internal/common"
	"github.com/bobmcallan/fund-recommender/internal/config"
	"github.com/bobmcallan/fund-recommender/internal/handlers"
	"github.com/bobmcallan/fund-recommender/internal/interfaces"
	"github.com/bobmcallan/fund-recommender/internal/mcp"
	"github.com/bobmcallan/fund-recommender/internal/recommend"
	"github.com/bobmcallan/fund-recommender/internal/report"
	"github.com/bobmcallan/fund-recommender/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Funds   *recommend.Table
	Store   interfaces.RecordStore
	Reports *report.Renderer
	Advisor *advisor.Service

	// HTTP handlers
	RecommendHandler *handlers.RecommendHandler
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	MCPHandler       *mcp.Handler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if cfg.IsDevMode() {
		logger.Warn().Msg("running in dev mode")
	} else if env != "prod" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	funds, err := recommend.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load fund table: %w", err)
	}
	a.Funds = funds

	store, err := storage.NewRecordStore(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	a.Store = store

	a.Reports = report.NewRenderer(logger, &cfg.Report)
	a.Advisor = advisor.NewService(a.Funds, a.Store, a.Reports, logger)

	a.initHandlers()

	logger.Info().
		Str("storage", cfg.Storage.Backend).
		Str("report", cfg.Report.Path).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.RecommendHandler = handlers.NewRecommendHandler(a.Logger, a.Advisor, a.Funds.Profiles())
	a.HealthHandler = handlers.NewHealthHandler(a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.MCPHandler = mcp.NewHandler(a.Funds, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.Store == nil {
		return nil
	}
	return a.Store.Close()
}

// Package wire provides dependency injection for the vigil application.
// It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/example/vigil/internal/adapters/catalog"
	"github.com/example/vigil/internal/adapters/console"
	"github.com/example/vigil/internal/adapters/sqlite"
	"github.com/example/vigil/internal/app"
	"github.com/example/vigil/internal/config"
	"github.com/example/vigil/internal/db"
	"github.com/example/vigil/internal/ports/primary"
)

var (
	cfg            *config.Config
	ruleService    primary.RuleService
	templateSvc    primary.TemplateService
	stateService   primary.StateService
	logService     primary.ExecutionLogService
	alertService   primary.AlertService
	projectService primary.ProjectService
	engineService  primary.EngineService
	once           sync.Once
)

// RuleService returns the singleton RuleService instance.
func RuleService() primary.RuleService {
	once.Do(initServices)
	return ruleService
}

// TemplateService returns the singleton TemplateService instance.
func TemplateService() primary.TemplateService {
	once.Do(initServices)
	return templateSvc
}

// StateService returns the singleton StateService instance.
func StateService() primary.StateService {
	once.Do(initServices)
	return stateService
}

// ExecutionLogService returns the singleton ExecutionLogService instance.
func ExecutionLogService() primary.ExecutionLogService {
	once.Do(initServices)
	return logService
}

// AlertService returns the singleton AlertService instance.
func AlertService() primary.AlertService {
	once.Do(initServices)
	return alertService
}

// ProjectService returns the singleton ProjectService instance.
func ProjectService() primary.ProjectService {
	once.Do(initServices)
	return projectService
}

// EngineService returns the singleton EngineService instance.
func EngineService() primary.EngineService {
	once.Do(initServices)
	return engineService
}

// Config returns the loaded configuration. Defaults when no
// .vigil/config.json exists in the working directory.
func Config() *config.Config {
	once.Do(initServices)
	return cfg
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	// A missing or unreadable config file falls back to defaults.
	loaded, err := config.LoadConfig(".")
	if err != nil {
		loaded = &config.Config{}
	}
	cfg = loaded

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = db.DefaultPath()
		if err != nil {
			log.Fatalf("failed to resolve database path: %v", err)
		}
	}

	database, err := db.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		logger = zap.NewNop()
	}

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	ruleRepo := sqlite.NewRuleRepository(database)
	stateRepo := sqlite.NewStateRepository(database)
	logRepo := sqlite.NewExecutionLogRepository(database)
	alertRepo := sqlite.NewAlertRepository(database)
	projectRepo := sqlite.NewProjectRepository(database)
	milestoneRepo := sqlite.NewMilestoneRepository(database)
	sampleRepo := sqlite.NewMetricSampleRepository(database)
	provider := sqlite.NewEntityProvider(milestoneRepo, sampleRepo)
	mutator := sqlite.NewEntityMutator(projectRepo, milestoneRepo)
	templateRepo := catalog.NewTemplateRepository()
	notifier := console.NewNotifier()

	// Create the dispatcher with its side-effect collaborators
	dispatcher := app.NewDispatcher(notifier, mutator, alertRepo)

	// Create services (primary ports implementation)
	ruleService = app.NewRuleService(ruleRepo, templateRepo)
	templateSvc = app.NewTemplateService(templateRepo)
	stateService = app.NewStateService(stateRepo, logRepo)
	logService = app.NewExecutionLogService(logRepo)
	alertService = app.NewAlertService(alertRepo)
	projectService = app.NewProjectService(projectRepo, milestoneRepo, sampleRepo)

	engine := app.NewEngineService(ruleRepo, stateRepo, logRepo, provider, dispatcher, logger)
	engine.Configure(cfg.Workers, time.Duration(cfg.PairTimeoutSeconds)*time.Second)
	engineService = engine
}

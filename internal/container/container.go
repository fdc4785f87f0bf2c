package container

import (
	"net/http"
	"os"

	"go-ocr-benchmark/internal/config"
	"go-ocr-benchmark/internal/evaluator"
	"go-ocr-benchmark/internal/factory"
	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/internal/observer"
	"go-ocr-benchmark/internal/report"
	"go-ocr-benchmark/internal/repository"
	"go-ocr-benchmark/internal/runner"
	"go-ocr-benchmark/internal/service"
	"go-ocr-benchmark/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config  *config.Config
	service service.BenchmarkService
	repo    repository.SummaryRepository
	handler http.Handler
}

// New builds the dependency graph from an already-loaded configuration and
// the images root the run should evaluate.
func New(cfg *config.Config, imagesDir string) (*Container, error) {
	fetcher, err := factory.NewStorageFactory().CreateRouter(
		os.Getenv("AZURE_STORAGE_ACCOUNT"),
		os.Getenv("AZURE_STORAGE_KEY"),
	)
	if err != nil {
		return nil, err
	}

	engineFactory := factory.NewEngineFactory(cfg.Engines, fetcher)

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	recordEvaluator := evaluator.NewRecordEvaluator(cfg.Evaluation.CaseSensitive)
	run := runner.NewRunner(cfg.Runner.Workers, cfg.Runner.CallTimeout.Std(), recordEvaluator, events)

	repo, err := repository.NewFileSummaryRepository(cfg.Output.ResultsDir)
	if err != nil {
		return nil, err
	}

	reports, err := report.NewWriter(cfg.Output.ReportsDir)
	if err != nil {
		return nil, err
	}

	svc := service.NewBenchmarkService(cfg, imagesDir, engineFactory, run, repo, reports)
	handler := transport.NewHandler(svc, repo, cfg)

	return &Container{
		config:  cfg,
		service: svc,
		repo:    repo,
		handler: handler,
	}, nil
}

// Service returns the benchmark service
func (c *Container) Service() service.BenchmarkService {
	return c.service
}

// Repository returns the summary repository
func (c *Container) Repository() repository.SummaryRepository {
	return c.repo
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

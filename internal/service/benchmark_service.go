package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"go-ocr-benchmark/internal/config"
	"go-ocr-benchmark/internal/dataset"
	"go-ocr-benchmark/internal/engine"
	apperrors "go-ocr-benchmark/internal/errors"
	"go-ocr-benchmark/internal/evaluator"
	"go-ocr-benchmark/internal/logger"
	"go-ocr-benchmark/internal/report"
	"go-ocr-benchmark/internal/repository"
	"go-ocr-benchmark/internal/runner"
	"go-ocr-benchmark/pkg/models"
	"go-ocr-benchmark/pkg/validation"
)

// EngineFactory builds a recognition engine by name.
type EngineFactory interface {
	Create(name string) (engine.Engine, error)
	Available() []string
}

// BenchmarkService orchestrates dataset loading, recognition runs,
// aggregation and comparison.
type BenchmarkService interface {
	// EvaluateEngine runs one engine over the dataset and returns its summary
	EvaluateEngine(ctx context.Context, engineName string) (*models.EvaluationSummary, error)

	// CompareEngines evaluates each engine over the same dataset and ranks them
	CompareEngines(ctx context.Context, engineNames []string) (*models.ComparisonResult, error)

	// CompareStored ranks previously saved summaries without re-running engines
	CompareStored(ctx context.Context, engineNames []string) (*models.ComparisonResult, error)
}

type benchmarkService struct {
	cfg       *config.Config
	imagesDir string
	factory   EngineFactory
	runner    *runner.Runner
	repo      repository.SummaryRepository
	reports   *report.Writer
}

// NewBenchmarkService creates the benchmark orchestrator.
func NewBenchmarkService(
	cfg *config.Config,
	imagesDir string,
	factory EngineFactory,
	r *runner.Runner,
	repo repository.SummaryRepository,
	reports *report.Writer,
) BenchmarkService {
	return &benchmarkService{
		cfg:       cfg,
		imagesDir: imagesDir,
		factory:   factory,
		runner:    r,
		repo:      repo,
		reports:   reports,
	}
}

// EvaluateEngine runs one engine over every dataset directory under the
// images root, aggregates the scored records and persists summary and
// reports. Per-image failures are captured in the summary, not returned.
func (s *benchmarkService) EvaluateEngine(ctx context.Context, engineName string) (*models.EvaluationSummary, error) {
	dirs, err := dataset.Discover(s.imagesDir)
	if err != nil {
		return nil, err
	}

	eng, err := s.factory.Create(engineName)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := eng.Close(); cerr != nil {
			logger.WithError(cerr).WithField("engine", engineName).Warn("Engine close failed")
		}
	}()

	loader := dataset.NewLoader(
		dataset.AnnotationPolicy(s.cfg.Evaluation.AnnotationPolicy),
		s.cfg.Evaluation.SkipDifficult,
	)

	byDirectory := make(map[string][]models.EvaluationRecord, len(dirs))
	order := make([]string, 0, len(dirs))
	skippedLines := 0

	for _, dir := range dirs {
		loaded, err := loader.Load(dir.ManifestPath)
		if err != nil {
			return nil, err
		}
		skippedLines += loaded.SkippedLines
		if issues := loaded.LabelIssues; len(issues) > 0 {
			entry := logger.WithFields(map[string]interface{}{
				"dataset": dir.Name,
				"issues":  len(issues),
			})
			if validation.HasErrors(issues) {
				entry.Warn("Ground-truth labels have quality errors")
			} else {
				entry.Info("Ground-truth labels have quality issues")
			}
		}

		dir := dir
		records := s.runner.Run(ctx, eng, loaded.Records, func(imagePath string) string {
			return dataset.ResolveImagePath(dir, imagePath)
		})

		order = append(order, dir.Name)
		byDirectory[dir.Name] = records
	}

	summary := evaluator.AggregateDirectories(eng.Name(), byDirectory, order)
	summary.SkippedLines = skippedLines

	if err := s.repo.SaveSummary(ctx, summary); err != nil {
		return nil, apperrors.NewFatalIOError("save summary", err)
	}
	if err := s.writeSummaryReports(summary); err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"engine":   engineName,
		"images":   summary.TotalImages,
		"accuracy": summary.OverallAccuracy,
		"failures": len(summary.Failures),
	}).Info("Evaluation complete")

	return &summary, nil
}

// CompareEngines evaluates every named engine over the same dataset, with
// bounded parallelism across engines, then produces the ranked comparison.
func (s *benchmarkService) CompareEngines(ctx context.Context, engineNames []string) (*models.ComparisonResult, error) {
	if len(engineNames) < 2 {
		return nil, apperrors.NewConfigError("comparison needs at least two engines", nil)
	}

	summaries := make([]models.EvaluationSummary, len(engineNames))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Runner.EngineParallelism)

	for i, name := range engineNames {
		i, name := i, name
		g.Go(func() error {
			summary, err := s.EvaluateEngine(gctx, name)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", name, err)
			}
			summaries[i] = *summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return s.finishComparison(ctx, summaries)
}

// CompareStored ranks summaries already persisted by earlier evaluate runs.
func (s *benchmarkService) CompareStored(ctx context.Context, engineNames []string) (*models.ComparisonResult, error) {
	if len(engineNames) < 2 {
		return nil, apperrors.NewConfigError("comparison needs at least two engines", nil)
	}

	summaries := make([]models.EvaluationSummary, 0, len(engineNames))
	for _, name := range engineNames {
		summary, err := s.repo.GetSummary(ctx, name)
		if err != nil {
			return nil, apperrors.NewFatalIOError(
				fmt.Sprintf("no stored summary for engine %s", name), err)
		}
		summaries = append(summaries, *summary)
	}

	return s.finishComparison(ctx, summaries)
}

func (s *benchmarkService) finishComparison(ctx context.Context, summaries []models.EvaluationSummary) (*models.ComparisonResult, error) {
	result, err := evaluator.Compare(summaries)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveComparison(ctx, *result); err != nil {
		return nil, apperrors.NewFatalIOError("save comparison", err)
	}
	if err := s.writeComparisonReports(*result); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *benchmarkService) writeSummaryReports(summary models.EvaluationSummary) error {
	format := s.cfg.Output.ReportFormat

	if format == "markdown" || format == "all" {
		if _, err := s.reports.WriteMarkdownSummary(summary); err != nil {
			return apperrors.NewFatalIOError("write markdown report", err)
		}
	}
	if format == "json" || format == "all" {
		if _, err := s.reports.WriteJSONSummary(summary); err != nil {
			return apperrors.NewFatalIOError("write json report", err)
		}
	}
	if format == "csv" || format == "all" {
		if _, err := s.reports.WriteCSVRecords(summary); err != nil {
			return apperrors.NewFatalIOError("write csv report", err)
		}
	}
	return nil
}

func (s *benchmarkService) writeComparisonReports(result models.ComparisonResult) error {
	format := s.cfg.Output.ReportFormat

	if format == "markdown" || format == "all" {
		if _, err := s.reports.WriteMarkdownComparison(result); err != nil {
			return apperrors.NewFatalIOError("write markdown comparison", err)
		}
	}
	if format == "json" || format == "all" {
		if _, err := s.reports.WriteJSONComparison(result); err != nil {
			return apperrors.NewFatalIOError("write json comparison", err)
		}
	}
	return nil
}

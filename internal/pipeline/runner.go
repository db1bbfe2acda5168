package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"

	"mediasort/internal/classify"
	"mediasort/internal/config"
	"mediasort/internal/dedupe"
	"mediasort/internal/entity"
	"mediasort/internal/history"
	"mediasort/internal/logging"
	"mediasort/internal/organizer"
	"mediasort/internal/preflight"
	"mediasort/internal/probe"
	"mediasort/internal/report"
	"mediasort/internal/review"
	"mediasort/internal/scan"
	"mediasort/internal/services"
)

// ErrNothingResolved reports that not a single entity could be resolved.
var ErrNothingResolved = errors.New("no entity source root could be resolved")

// Runner executes pipeline stages against one configuration.
type Runner struct {
	cfg          *config.Config
	logger       *slog.Logger
	classifier   *classify.Classifier
	materializer *organizer.Materializer
	reviewer     *review.Reviewer
	history      *history.Store
	prober       func(string) (probe.Dimensions, error)
	now          func() time.Time
	newID        func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithHistory records every finished stage in the run ledger.
func WithHistory(store *history.Store) Option {
	return func(r *Runner) { r.history = store }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// WithRunIDs overrides run id generation.
func WithRunIDs(next func() string) Option {
	return func(r *Runner) { r.newID = next }
}

// WithProber overrides the image dimension probe.
func WithProber(prober func(string) (probe.Dimensions, error)) Option {
	return func(r *Runner) { r.prober = prober }
}

// New constructs a runner. The configuration must already be validated.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	base := logging.NewComponentLogger(logger, "pipeline")
	r := &Runner{
		cfg:          cfg,
		logger:       base,
		classifier:   NewClassifier(cfg),
		materializer: organizer.New(logger),
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.reviewer = review.NewFromConfig(cfg, logger)
	if r.prober != nil {
		r.reviewer = r.reviewer.WithProber(r.prober)
	}
	return r
}

// NewClassifier builds the classifier described by the [classifier] section.
func NewClassifier(cfg *config.Config) *classify.Classifier {
	table := classify.DefaultTable().WithExtensions(classify.Videos, cfg.Classifier.VideoExtensions...)
	categories := make([]string, 0, len(cfg.Classifier.ExtraKeywords))
	for name := range cfg.Classifier.ExtraKeywords {
		categories = append(categories, name)
	}
	slices.Sort(categories)
	for _, name := range categories {
		category, err := classify.ParseCategory(name)
		if err != nil {
			continue
		}
		table = table.WithKeywords(category, cfg.Classifier.ExtraKeywords[name]...)
	}
	return classify.New(table)
}

// Classifier exposes the configured classifier.
func (r *Runner) Classifier() *classify.Classifier {
	return r.classifier
}

// Entities returns the entities a run would process.
func (r *Runner) Entities() ([]entity.Entity, error) {
	if r.cfg.DiscoverEntities || len(r.cfg.Entities) == 0 {
		return entity.Discover(r.cfg.Paths.SourceRoot)
	}
	return entity.FromConfig(r.cfg.Entities), nil
}

// Organize materializes every resolvable entity and writes both documents.
func (r *Runner) Organize(ctx context.Context) (*report.RunReport, error) {
	ctx, rep, err := r.begin(ctx, "organize", preflight.ScopeOrganize)
	if err != nil {
		return nil, err
	}
	stageErr := r.organize(ctx, rep, r.cfg.Review.Inline)
	return rep, r.finish(ctx, rep, stageErr, true, true)
}

// Review flags files across the existing target tree and writes the checklist.
func (r *Runner) Review(ctx context.Context) (*report.RunReport, error) {
	ctx, rep, err := r.begin(ctx, "review", preflight.ScopeTarget)
	if err != nil {
		return nil, err
	}
	stageErr := r.reviewTree(ctx, rep)
	return rep, r.finish(ctx, rep, stageErr, false, true)
}

// Dedupe removes duplicate-suffixed copies from the target tree. With dryRun
// nothing is deleted.
func (r *Runner) Dedupe(ctx context.Context, dryRun bool) (*report.RunReport, error) {
	ctx, rep, err := r.begin(ctx, "dedupe", preflight.ScopeTarget)
	if err != nil {
		return nil, err
	}
	stageErr := r.dedupe(ctx, rep, dryRun)
	return rep, r.finish(ctx, rep, stageErr, false, false)
}

// Run chains organize, dedupe, and review, then writes both documents.
func (r *Runner) Run(ctx context.Context) (*report.RunReport, error) {
	ctx, rep, err := r.begin(ctx, "run", preflight.ScopeOrganize)
	if err != nil {
		return nil, err
	}
	stageErr := r.organize(services.WithStage(ctx, "organize"), rep, false)
	if stageErr == nil || errors.Is(stageErr, ErrNothingResolved) {
		if err := r.dedupe(services.WithStage(ctx, "dedupe"), rep, false); err != nil {
			stageErr = errors.Join(stageErr, err)
		} else if err := r.reviewTree(services.WithStage(ctx, "review"), rep); err != nil {
			stageErr = errors.Join(stageErr, err)
		}
	}
	return rep, r.finish(ctx, rep, stageErr, true, true)
}

func (r *Runner) begin(ctx context.Context, command string, scope preflight.Scope) (context.Context, *report.RunReport, error) {
	if err := r.cfg.EnsureDirectories(); err != nil {
		return ctx, nil, services.Wrap(services.ErrConfiguration, command, "ensure directories", "", err)
	}
	if err := preflight.Err(preflight.RunAll(ctx, r.cfg, scope)); err != nil {
		return ctx, nil, err
	}
	runID := r.newID()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, command)
	rep := report.New(runID, command, r.cfg.Paths.SourceRoot, r.cfg.Paths.TargetRoot, r.now())
	logging.WithContext(ctx, r.logger).Info(
		"stage started",
		logging.String("source_root", r.cfg.Paths.SourceRoot),
		logging.String("target_root", r.cfg.Paths.TargetRoot),
	)
	return ctx, rep, nil
}

func (r *Runner) finish(ctx context.Context, rep *report.RunReport, stageErr error, summary, checklist bool) error {
	logger := logging.WithContext(ctx, r.logger)
	rep.Finish(r.now())

	// Documents are written even for a cancelled or unresolved run so the
	// operator sees whatever succeeded.
	dir := r.cfg.ReportDir()
	if summary {
		if path, err := report.WriteSummary(dir, rep); err != nil {
			logging.ErrorWithContext(logger, "write summary failed", "report_write_failed", logging.Error(err))
			stageErr = errors.Join(stageErr, err)
		} else {
			logger.Info("summary written", logging.String("path", path))
		}
	}
	if checklist {
		if path, err := report.WriteChecklist(dir, rep); err != nil {
			logging.ErrorWithContext(logger, "write checklist failed", "report_write_failed", logging.Error(err))
			stageErr = errors.Join(stageErr, err)
		} else {
			logger.Info("review checklist written", logging.String("path", path))
		}
	}

	if r.history != nil {
		if err := r.history.Record(context.WithoutCancel(ctx), history.FromReport(rep)); err != nil {
			logging.WarnWithContext(logger, "run history not recorded", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check history.path or disable [history]"),
				logging.String(logging.FieldImpact, "run results are still in the report documents"),
			)
		}
	}

	totals := rep.Totals()
	logger.Info(
		"stage finished",
		logging.Int("processed", totals.Processed),
		logging.Int("organized", totals.Organized),
		logging.Int("unchanged", totals.Unchanged),
		logging.Int("failed", totals.Failed),
		logging.Int("flagged", totals.Flagged),
		logging.Duration("duration", rep.Duration()),
	)
	return stageErr
}

func (r *Runner) scanOptions() scan.Options {
	opts := scan.Options{
		IgnoreHidden: r.cfg.Scan.IgnoreHidden,
		IgnoreNames:  r.cfg.Scan.IgnoreNames,
		Prober:       r.prober,
	}
	if r.cfg.Scan.ProbeDimensions {
		opts.ProbeExtensions = r.cfg.Review.ImageExtensions
	}
	return opts
}

func (r *Runner) targetRel(path string) string {
	rel, err := filepath.Rel(r.cfg.Paths.TargetRoot, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

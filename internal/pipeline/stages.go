package pipeline

import (
	"context"
	"errors"
	"os"

	"mediasort/internal/dedupe"
	"mediasort/internal/entity"
	"mediasort/internal/logging"
	"mediasort/internal/organizer"
	"mediasort/internal/report"
	"mediasort/internal/scan"
	"mediasort/internal/services"
)

func (r *Runner) organize(ctx context.Context, rep *report.RunReport, inline bool) error {
	logger := logging.WithContext(ctx, r.logger)
	entities, err := r.Entities()
	if err != nil {
		return err
	}
	if len(entities) == 0 {
		logging.WarnWithContext(logger, "no entities to organize", "no_entities",
			logging.String(logging.FieldErrorHint, "add [[entities]] to the config or populate source_root"),
			logging.String(logging.FieldImpact, "nothing was organized"),
		)
		return ErrNothingResolved
	}

	resolved := 0
	for _, e := range entities {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := r.organizeEntity(services.WithEntity(ctx, e.Name), rep, e, inline)
		if err != nil {
			return err
		}
		if ok {
			resolved++
		}
	}
	if resolved == 0 {
		return ErrNothingResolved
	}
	return nil
}

// organizeEntity reports whether the entity resolved. Only cancellation is
// returned as an error.
func (r *Runner) organizeEntity(ctx context.Context, rep *report.RunReport, e entity.Entity, inline bool) (bool, error) {
	logger := logging.WithContext(ctx, r.logger)

	root, err := entity.Resolve(e, r.cfg.Paths.SourceRoot, r.scanOptions())
	if err != nil {
		rep.Unresolved(e.Alias, e.Name, err)
		logging.WarnWithContext(logger, "entity source not found; skipping", "entity_unresolved",
			logging.String("alias", e.Alias),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the entity alias or add candidates in the config"),
			logging.String(logging.FieldImpact, "entity is missing from the target tree"),
		)
		return false, nil
	}
	entry := rep.Resolved(e.Alias, e.Name, root)
	logger.Info("entity resolved", logging.String("alias", e.Alias), logging.String("source", root))

	records, skipped, err := scan.Walk(ctx, root, r.scanOptions())
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return true, ctxErr
		}
		wrapped := services.Wrap(services.ErrResolution, "scan", "walk source root", "Unable to list entity files", err)
		rep.AddFailure(report.Failure{Entity: e.Name, Path: root, Code: services.Code(wrapped), Message: wrapped.Error()})
		logging.WarnWithContext(logger, "entity source unreadable; skipping", "entity_scan_failed",
			logging.String("source", root),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the source root"),
		)
		return true, nil
	}
	for _, s := range skipped {
		rep.SkippedFile(entry)
		logger.Debug("file skipped", logging.String("path", s.Path), logging.String("reason", s.Reason))
	}

	tree := organizer.NewTargetTree(r.cfg.Paths.TargetRoot, e.Name)
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return true, err
		}
		decision := r.classifier.Explain(record.Name)
		result := r.materializer.Materialize(ctx, tree, record, decision.Category)
		rep.Materialized(entry, result)
		if result.Status == organizer.StatusFailed {
			logging.WarnWithContext(logger, "file not organized", "materialize_failed",
				logging.String("path", record.Path),
				logging.String("category", string(decision.Category)),
				logging.Error(result.Err),
				logging.String(logging.FieldErrorHint, "check free space and permissions on the target root"),
			)
			continue
		}
		logger.Debug("file organized",
			logging.String("path", record.Rel),
			logging.String("dest", result.Dest),
			logging.String("category", string(decision.Category)),
			logging.String("rule", decision.Rule),
			logging.String("keyword", decision.Keyword),
			logging.String("status", string(result.Status)),
		)
		if inline {
			placed := record
			placed.Path = result.Dest
			placed.Rel = r.targetRel(result.Dest)
			rep.AddFlags(r.reviewer.Review(e.Name, decision.Category, placed)...)
		}
	}

	logger.Info("entity organized",
		logging.Int("processed", entry.Processed),
		logging.Int("organized", entry.Organized),
		logging.Int("unchanged", entry.Unchanged),
		logging.Int("failed", entry.Failed),
		logging.Int("skipped", entry.Skipped),
	)
	return true, nil
}

func (r *Runner) reviewTree(ctx context.Context, rep *report.RunReport) error {
	flags, err := r.reviewer.ReviewTree(ctx, r.cfg.Paths.TargetRoot)
	rep.SetFlags(flags)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrConfiguration, "review", "read target root", "Target root does not exist", err)
		}
		if ctx.Err() != nil {
			return err
		}
		return services.Wrap(services.ErrValidation, "review", "read target root", "", err)
	}
	return nil
}

func (r *Runner) dedupe(ctx context.Context, rep *report.RunReport, dryRun bool) error {
	d := dedupe.New(dedupe.Options{VerifyContent: r.cfg.Dedupe.VerifyContent, DryRun: dryRun}, r.logger)
	summary, err := d.Run(ctx, r.cfg.Paths.TargetRoot)
	rep.Dedupe = &summary
	for _, c := range summary.Candidates {
		if c.Action != dedupe.ActionFailed {
			continue
		}
		message := ""
		if c.Err != nil {
			message = c.Err.Error()
		}
		rep.AddFailure(report.Failure{Path: c.Path, Code: services.Code(c.Err), Message: message})
	}
	if err != nil && ctx.Err() == nil {
		return services.Wrap(services.ErrDelete, "dedupe", "walk target root", "", err)
	}
	return err
}

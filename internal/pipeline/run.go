package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"framefix/internal/export"
	"framefix/internal/logging"
	"framefix/internal/media/render"
	"framefix/internal/notifications"
	"framefix/internal/report"
	"framefix/internal/staging"
)

const lockFileName = ".framefix.lock"

// Result summarizes a completed run.
type Result struct {
	RunID     string
	Plan      Plan
	CSVPath   string
	XLSXPath  string
	Persisted bool
	Artifacts ArtifactSummary
	Duration  time.Duration
}

// stageError tags a failure with the stage that produced it.
type stageError struct {
	stage string
	err   error
}

func (e *stageError) Error() string { return e.err.Error() }
func (e *stageError) Unwrap() error { return e.err }

// Run executes a full run and writes its artifacts.
func (r *Runner) Run(ctx context.Context, req Request) (Result, error) {
	started := time.Now()
	runID := r.newRunID()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	result, err := r.run(ctx, runID, req)
	if err != nil {
		stage := "run"
		var se *stageError
		if errors.As(err, &se) {
			stage = se.stage
			err = se.err
		}
		if !errors.Is(err, context.Canceled) {
			logging.ErrorWithContext(logger, "run failed", "run_failed",
				logging.String(logging.FieldStage, stage),
				logging.Error(err),
			)
			r.publish(ctx, notifications.EventRunFailed, notifications.Payload{"stage": stage, "error": err})
		}
		return Result{}, err
	}

	result.Duration = time.Since(started)
	logger.Info("run completed",
		logging.String(logging.FieldEventType, "run_completed"),
		logging.Int("rows", len(result.Plan.Report.Rows)),
		logging.Int("unmatched", len(result.Plan.Report.Unmatched)),
		logging.String("csv", result.CSVPath),
		logging.Duration("duration", result.Duration),
	)
	if unmatched := result.Plan.Report.Unmatched; len(unmatched) > 0 {
		r.publish(ctx, notifications.EventUnmatchedPaths, notifications.Payload{"count": len(unmatched), "paths": unmatched})
	}
	r.publish(ctx, notifications.EventRunCompleted, notifications.Payload{
		"title":  result.Plan.Report.Header.Title,
		"rows":   len(result.Plan.Report.Rows),
		"output": result.CSVPath,
	})
	return result, nil
}

func (r *Runner) run(ctx context.Context, runID string, req Request) (Result, error) {
	if req.XLSX && strings.TrimSpace(req.MediaPath) == "" {
		return Result{}, &stageError{stage: "validate", err: ErrMediaRequired}
	}

	unlock, err := r.acquireLock()
	if err != nil {
		return Result{}, &stageError{stage: "lock", err: err}
	}
	defer unlock()

	plan, err := r.Plan(ctx, req)
	if err != nil {
		return Result{}, &stageError{stage: "plan", err: err}
	}
	result := Result{RunID: runID, Plan: plan}

	if r.store != nil {
		if err := r.persist(ctx, runID, plan); err != nil {
			return Result{}, &stageError{stage: "persist", err: err}
		}
		result.Persisted = true
	}

	exportCtx := logging.WithStage(ctx, "export")
	result.CSVPath = r.cfg.CSVPath()
	if err := export.WriteCSV(result.CSVPath, plan.Report); err != nil {
		return Result{}, &stageError{stage: "export", err: err}
	}
	logging.WithContext(exportCtx, r.logger).Info("csv written",
		logging.String(logging.FieldEventType, "csv_written"),
		logging.String("path", result.CSVPath),
		logging.Int("rows", len(plan.Report.Rows)),
	)

	if req.XLSX {
		rows, header, err := r.workbookSource(ctx, plan)
		if err != nil {
			return Result{}, &stageError{stage: "workbook", err: err}
		}
		artifactCtx := logging.WithStage(ctx, "artifacts")
		staging.CleanArtifacts(r.cfg.ArtifactDir(), logging.WithContext(artifactCtx, r.logger))
		source := render.Source{Path: req.MediaPath, FPS: plan.FPS}
		wbRows, summary := r.renderArtifacts(artifactCtx, source, rows)
		if err := ctx.Err(); err != nil {
			return Result{}, &stageError{stage: "artifacts", err: err}
		}
		result.Artifacts = summary
		result.XLSXPath = r.cfg.XLSXPath()
		workbookCtx := logging.WithStage(ctx, "workbook")
		wb := export.Workbook{Sheet: r.cfg.Report.SheetName, Header: header, Rows: wbRows}
		if err := export.WriteXLSX(result.XLSXPath, wb, logging.WithContext(workbookCtx, r.logger)); err != nil {
			return Result{}, &stageError{stage: "workbook", err: err}
		}
		logging.WithContext(workbookCtx, r.logger).Info("workbook written",
			logging.String(logging.FieldEventType, "xlsx_written"),
			logging.String("path", result.XLSXPath),
			logging.Int("thumbnails", summary.Thumbnails),
			logging.Int("clips", summary.Clips),
			logging.Int("uploads", summary.Uploads),
		)
	}

	return result, nil
}

func (r *Runner) acquireLock() (func(), error) {
	dir := r.cfg.Paths.OutputDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(r.logger, "failed to release run lock", "lock_release_failed",
				logging.String("lock", lock.Path()),
				logging.Error(err),
			)
		}
	}, nil
}

func (r *Runner) persist(ctx context.Context, runID string, plan Plan) error {
	ctx = logging.WithStage(ctx, "persist")
	if err := r.store.Reset(ctx); err != nil {
		return err
	}
	if err := r.store.SaveWorkOrder(ctx, runID, plan.WorkOrder); err != nil {
		return err
	}
	if err := r.store.SaveRows(ctx, runID, plan.Report.Rows); err != nil {
		return err
	}
	logging.WithContext(ctx, r.logger).Info("records stored",
		logging.String(logging.FieldEventType, "records_stored"),
		logging.Int("work_order_records", len(plan.WorkOrder.Locations)),
		logging.Int("shot_records", len(plan.Report.Rows)),
	)
	return nil
}

// workbookSource returns the rows and header for the workbook. With a store
// they are read back through the frame-bound query, otherwise they come
// straight from the plan.
func (r *Runner) workbookSource(ctx context.Context, plan Plan) ([]report.Row, report.Header, error) {
	if r.store == nil {
		return plan.Report.Rows, plan.Report.Header, nil
	}
	records, err := r.store.RowsWithinBound(ctx, plan.MaxFrame)
	if err != nil {
		return nil, report.Header{}, err
	}
	rows := make([]report.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, report.Row{Location: rec.Location, Range: rec.FrameRange()})
	}
	header := plan.Report.Header
	woRecords, err := r.store.WorkOrder(ctx)
	if err != nil {
		return nil, report.Header{}, err
	}
	if len(woRecords) > 0 {
		first := woRecords[0]
		header = report.Header{
			Title:    first.Title,
			Producer: first.Producer,
			Operator: first.Operator,
			Job:      first.Job,
			Notes:    first.Notes,
		}
	}
	return rows, header, nil
}

func (r *Runner) publish(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Publish(ctx, event, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, r.logger), "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "notification not delivered"),
		)
	}
}

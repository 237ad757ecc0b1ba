package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"framefix/internal/config"
	"framefix/internal/frames"
	"framefix/internal/logging"
	"framefix/internal/matching"
	"framefix/internal/report"
	"framefix/internal/shotlog"
	"framefix/internal/workorder"
)

// Request describes one run's inputs.
type Request struct {
	WorkOrderPath string
	ShotLogPath   string
	// MediaPath is the reference video. When set, frames beyond its frame
	// count are filtered out and the workbook can be produced.
	MediaPath string
	// MaxFrame bounds frames explicitly when HasMaxFrame is set, skipping
	// the frame count.
	MaxFrame    int
	HasMaxFrame bool
	XLSX        bool
	// Strict forces the abort-on-unmatched policy regardless of config.
	Strict bool
}

// Plan is the in-memory result of parsing, matching and assembling.
type Plan struct {
	WorkOrder workorder.WorkOrder
	Entries   []shotlog.Entry
	Mapping   matching.Mapping
	MaxFrame  int
	Bounded   bool
	// FPS is the frame rate timecodes and seeks use for this run.
	FPS float64
	// Dropped lists shot paths whose entry exceeded the frame bound.
	Dropped []string
	Report  report.Report
}

func (r *Runner) policy(req Request) report.UnmatchedPolicy {
	return report.PolicyFromStrict(req.Strict || r.cfg.Report.StrictMatching)
}

// Plan parses the inputs and assembles the report without writing anything.
func (r *Runner) Plan(ctx context.Context, req Request) (Plan, error) {
	var plan Plan

	stageCtx := logging.WithStage(ctx, "parse")
	logger := logging.WithContext(stageCtx, r.logger)
	wo, err := workorder.Load(req.WorkOrderPath)
	if err != nil {
		return Plan{}, fmt.Errorf("parse work order: %w", err)
	}
	entries, err := shotlog.Load(req.ShotLogPath)
	if err != nil {
		return Plan{}, fmt.Errorf("parse shot log: %w", err)
	}
	plan.WorkOrder = wo
	logger.Info("inputs parsed",
		logging.String(logging.FieldEventType, "inputs_parsed"),
		logging.String("title", wo.Title),
		logging.Int("locations", len(wo.Locations)),
		logging.Int("shot_entries", len(entries)),
	)

	stageCtx = logging.WithStage(ctx, "match")
	logger = logging.WithContext(stageCtx, r.logger)
	shotPaths := shotlog.Paths(entries)
	plan.Mapping = matching.Match(wo.Locations, shotPaths)
	unmatched := matching.Unmatched(plan.Mapping, shotPaths)
	logger.Info("paths matched",
		logging.String(logging.FieldEventType, "paths_matched"),
		logging.Int("mapped", len(plan.Mapping)),
		logging.Int("unmatched", len(unmatched)),
	)
	// Unmatched paths are judged on every parsed entry, before the frame
	// bound can drop any of them.
	if len(unmatched) > 0 && r.policy(req) == report.AbortOnUnmatched {
		return Plan{}, fmt.Errorf("match paths: %w", &report.UnmatchedPathError{Paths: unmatched})
	}
	warnUnmatched(logger, entries, unmatched)

	switch {
	case req.HasMaxFrame:
		plan.MaxFrame, plan.Bounded = req.MaxFrame, true
	case strings.TrimSpace(req.MediaPath) != "":
		stageCtx = logging.WithStage(ctx, "probe")
		maxFrame, err := r.counter.MaxFrame(stageCtx, req.MediaPath)
		if err != nil {
			return Plan{}, fmt.Errorf("count frames: %w", err)
		}
		plan.MaxFrame, plan.Bounded = maxFrame, true
		logging.WithContext(stageCtx, r.logger).Info("frames counted",
			logging.String(logging.FieldEventType, "frames_counted"),
			logging.String("media", req.MediaPath),
			logging.Int("max_frame", maxFrame),
		)
	}

	plan.FPS = r.frameRate(logging.WithStage(ctx, "probe"), req.MediaPath)

	plan.Entries = entries
	if plan.Bounded {
		plan.Entries = report.FilterWithinBound(entries, plan.MaxFrame)
		plan.Dropped = droppedPaths(entries, plan.MaxFrame)
		if len(plan.Dropped) > 0 {
			logging.WithContext(logging.WithStage(ctx, "filter"), r.logger).Info("entries beyond frame bound dropped",
				logging.String(logging.FieldEventType, "entries_dropped"),
				logging.Int("max_frame", plan.MaxFrame),
				logging.Int("dropped", len(plan.Dropped)),
			)
		}
	}

	stageCtx = logging.WithStage(ctx, "assemble")
	logger = logging.WithContext(stageCtx, r.logger)
	rep, err := report.Assemble(wo, plan.Mapping, plan.Entries, r.policy(req))
	if err != nil {
		return Plan{}, fmt.Errorf("assemble report: %w", err)
	}
	rep.Unmatched = unmatched
	logger.Debug("report assembled",
		logging.Int("rows", len(rep.Rows)),
		logging.Int("frames", rep.FrameCount()),
	)
	plan.Report = rep
	return plan, nil
}

// frameRate returns media.fps when it is set, otherwise the rate reported by
// the reference video. Without either, config.FallbackFPS is used.
func (r *Runner) frameRate(ctx context.Context, mediaPath string) float64 {
	if r.cfg.Media.FPS > 0 {
		return r.cfg.Media.FPS
	}
	if strings.TrimSpace(mediaPath) == "" {
		return config.FallbackFPS
	}
	logger := logging.WithContext(ctx, r.logger)
	rate, err := r.counter.FrameRate(ctx, mediaPath)
	if err == nil && rate <= 0 {
		err = fmt.Errorf("frame rate %v is not positive", rate)
	}
	if err != nil {
		logging.WarnWithContext(logger, "frame rate unavailable", "frame_rate_unknown",
			logging.String("media", mediaPath),
			logging.Error(err),
			logging.Any("fallback_fps", config.FallbackFPS),
			logging.String(logging.FieldErrorHint, "set media.fps to the reference video's frame rate"),
			logging.String(logging.FieldImpact, "timecodes and seeks assume the fallback rate"),
		)
		return config.FallbackFPS
	}
	logger.Info("frame rate detected",
		logging.String(logging.FieldEventType, "frame_rate_detected"),
		logging.String("media", mediaPath),
		logging.Any("fps", rate),
	)
	return rate
}

func warnUnmatched(logger *slog.Logger, entries []shotlog.Entry, unmatched []string) {
	if len(unmatched) == 0 {
		return
	}
	ranges := make(map[string][]frames.Range, len(unmatched))
	for _, entry := range entries {
		ranges[entry.Path] = append(ranges[entry.Path], entry.Ranges...)
	}
	for _, path := range unmatched {
		logging.WarnWithContext(logger, "shot path has no work-order location", "unmatched_path",
			logging.String("path", path),
			logging.String("frames", strings.Join(frames.FormatRanges(ranges[path]), " ")),
			logging.String(logging.FieldErrorHint, "check the work order location block or run with --strict"),
			logging.String(logging.FieldImpact, "entry skipped"),
		)
	}
}

// droppedPaths lists the paths of entries with a frame beyond maxFrame.
func droppedPaths(entries []shotlog.Entry, maxFrame int) []string {
	var dropped []string
	for _, entry := range entries {
		for _, rng := range entry.Ranges {
			if !rng.WithinBound(maxFrame) {
				dropped = append(dropped, entry.Path)
				break
			}
		}
	}
	return dropped
}

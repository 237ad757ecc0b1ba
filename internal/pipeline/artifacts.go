package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"framefix/internal/export"
	"framefix/internal/logging"
	"framefix/internal/media/render"
	"framefix/internal/report"
)

// ArtifactSummary counts the media artifacts produced for the workbook.
type ArtifactSummary struct {
	Thumbnails int
	Clips      int
	Uploads    int
	Failures   int
}

func (s *ArtifactSummary) add(other ArtifactSummary) {
	s.Thumbnails += other.Thumbnails
	s.Clips += other.Clips
	s.Uploads += other.Uploads
	s.Failures += other.Failures
}

// renderArtifacts produces a thumbnail for every row and, when enabled, a
// clip for every multi-frame row, running up to media.render_workers rows at
// once. A failed artifact is logged and the row keeps going without it.
// The returned rows keep the input order.
func (r *Runner) renderArtifacts(ctx context.Context, source render.Source, rows []report.Row) ([]export.WorkbookRow, ArtifactSummary) {
	out := make([]export.WorkbookRow, len(rows))
	var (
		mu      sync.Mutex
		summary ArtifactSummary
	)

	workers := r.cfg.Media.RenderWorkers
	if workers <= 0 {
		workers = 1
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, row := range rows {
		eg.Go(func() error {
			wbRow, rowSummary := r.renderRow(egCtx, source, i, row)
			out[i] = wbRow
			mu.Lock()
			summary.add(rowSummary)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	return out, summary
}

func (r *Runner) renderRow(ctx context.Context, source render.Source, index int, row report.Row) (export.WorkbookRow, ArtifactSummary) {
	logger := logging.WithContext(ctx, r.logger)
	dir := r.cfg.ArtifactDir()
	var summary ArtifactSummary

	// Spreadsheet rows start at 4, below the three header rows.
	sheetRow := index + 4
	wbRow := export.WorkbookRow{
		Row:      row,
		Timecode: render.RangeTimecode(row.Range, source.FPS),
	}

	thumb := filepath.Join(dir, fmt.Sprintf("thumb-%03d.png", sheetRow))
	if err := r.renderer.Thumbnail(ctx, source, row.Range, thumb); err != nil {
		summary.Failures++
		logging.WarnWithContext(logger, "thumbnail failed", "thumbnail_failed",
			logging.String("location", row.Location),
			logging.String("range", row.Range.String()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "verify the reference video with ffprobe"),
			logging.String(logging.FieldImpact, "row written without thumbnail"),
		)
	} else {
		summary.Thumbnails++
		wbRow.Thumbnail = thumb
	}

	if r.cfg.Report.Clips && !row.Range.IsSingle() {
		wbRow.ClipAsset = r.clip(ctx, source, row, filepath.Join(dir, fmt.Sprintf("clip-%03d.mp4", sheetRow)), &summary)
	}
	return wbRow, summary
}

// clip renders and, when uploads are enabled, uploads one clip. It returns
// the asset identifier or "" when no asset was produced.
func (r *Runner) clip(ctx context.Context, source render.Source, row report.Row, dest string, summary *ArtifactSummary) string {
	logger := logging.WithContext(ctx, r.logger)
	if err := r.renderer.Clip(ctx, source, row.Range, dest); err != nil {
		summary.Failures++
		logging.WarnWithContext(logger, "clip failed", "clip_failed",
			logging.String("location", row.Location),
			logging.String("range", row.Range.String()),
			logging.Error(err),
			logging.String(logging.FieldImpact, "row written without clip"),
		)
		return ""
	}
	summary.Clips++

	if !r.cfg.Upload.Enabled || r.uploader == nil {
		return ""
	}
	asset, err := r.uploader.Upload(ctx, dest)
	if err != nil {
		summary.Failures++
		logging.WarnWithContext(logger, "clip upload failed", "upload_failed",
			logging.String("clip", dest),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check upload.url and the upload token"),
			logging.String(logging.FieldImpact, "clip kept locally"),
		)
		return ""
	}
	summary.Uploads++
	logger.Debug("clip uploaded", logging.String("clip", dest), logging.String("asset", asset))
	return asset
}

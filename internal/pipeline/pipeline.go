package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"framefix/internal/config"
	"framefix/internal/deps"
	"framefix/internal/frames"
	"framefix/internal/logging"
	"framefix/internal/media/ffprobe"
	"framefix/internal/media/render"
	"framefix/internal/notifications"
	"framefix/internal/report"
	"framefix/internal/store"
	"framefix/internal/upload"
	"framefix/internal/workorder"
)

var (
	// ErrRunInProgress is returned when another run holds the output lock.
	ErrRunInProgress = errors.New("another run is writing to the output directory")
	// ErrMediaRequired is returned when the workbook is requested without a reference video.
	ErrMediaRequired = errors.New("workbook output requires a reference video")
)

// FrameCounter reports the highest frame number present in a video and the
// rate its frames play at.
type FrameCounter interface {
	MaxFrame(ctx context.Context, mediaPath string) (int, error)
	FrameRate(ctx context.Context, mediaPath string) (float64, error)
}

// RecordStore persists parsed records for later queries.
type RecordStore interface {
	Reset(ctx context.Context) error
	SaveWorkOrder(ctx context.Context, runID string, wo workorder.WorkOrder) error
	SaveRows(ctx context.Context, runID string, rows []report.Row) error
	RowsWithinBound(ctx context.Context, maxFrame int) ([]store.ShotRecord, error)
	WorkOrder(ctx context.Context) ([]store.WorkOrderRecord, error)
}

// MediaRenderer produces still and motion artifacts for a frame range.
type MediaRenderer interface {
	Thumbnail(ctx context.Context, source render.Source, rng frames.Range, dest string) error
	Clip(ctx context.Context, source render.Source, rng frames.Range, dest string) error
}

// ClipUploader sends a rendered clip to the asset service.
type ClipUploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Runner executes runs with a fixed set of collaborators.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	counter  FrameCounter
	store    RecordStore
	renderer MediaRenderer
	uploader ClipUploader
	notifier notifications.Service
	newRunID func() string
}

// Option customizes a Runner.
type Option func(*Runner)

// WithFrameCounter overrides the ffprobe frame counter.
func WithFrameCounter(counter FrameCounter) Option {
	return func(r *Runner) { r.counter = counter }
}

// WithStore enables persistence through store. A nil store disables it.
func WithStore(store RecordStore) Option {
	return func(r *Runner) { r.store = store }
}

// WithRenderer overrides the ffmpeg renderer.
func WithRenderer(renderer MediaRenderer) Option {
	return func(r *Runner) { r.renderer = renderer }
}

// WithUploader overrides the clip uploader.
func WithUploader(uploader ClipUploader) Option {
	return func(r *Runner) { r.uploader = uploader }
}

// WithNotifier overrides the notification service.
func WithNotifier(notifier notifications.Service) Option {
	return func(r *Runner) { r.notifier = notifier }
}

// WithRunIDGenerator overrides run identifier generation.
func WithRunIDGenerator(fn func() string) Option {
	return func(r *Runner) { r.newRunID = fn }
}

// New builds a Runner whose default collaborators come from cfg. Persistence
// is off unless WithStore supplies a store.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "pipeline"),
		counter: ffprobe.Counter{
			Binary:  cfg.Media.FFprobeBinary,
			Timeout: cfg.ProbeTimeout(),
		},
		renderer: render.Renderer{
			Binary:  ffmpegBinary(cfg),
			Width:   cfg.Media.ThumbnailWidth,
			Height:  cfg.Media.ThumbnailHeight,
			Timeout: cfg.RenderTimeout(),
		},
		uploader: upload.NewUploader(cfg),
		notifier: notifications.NewService(cfg),
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ffmpegBinary prefers the ffmpeg installed next to ffprobe when the config
// leaves the ffmpeg binary at its bare default name.
func ffmpegBinary(cfg *config.Config) string {
	if cfg.Media.FFmpegBinary != "" && cfg.Media.FFmpegBinary != "ffmpeg" {
		return cfg.Media.FFmpegBinary
	}
	if status := deps.ResolveFFmpeg(cfg.Media.FFprobeBinary); status.Available {
		return status.Command
	}
	return "ffmpeg"
}

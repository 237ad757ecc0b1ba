package render

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"framefix/internal/frames"
)

// ErrSingleFrame is returned by Clip for ranges that cover one frame.
var ErrSingleFrame = errors.New("range covers a single frame")

// Source is the reference video frames are cut from. FPS converts frame
// numbers into seek positions.
type Source struct {
	Path string
	FPS  float64
}

func (s Source) validate() error {
	if strings.TrimSpace(s.Path) == "" {
		return errors.New("empty source")
	}
	if s.FPS <= 0 {
		return fmt.Errorf("source %s: frame rate %v is not positive", s.Path, s.FPS)
	}
	return nil
}

// Renderer shells out to ffmpeg for stills and clips.
type Renderer struct {
	Binary  string
	Width   int
	Height  int
	Timeout time.Duration
}

// Thumbnail writes the frame at the midpoint of rng, scaled to the configured
// size, to dest.
func (r Renderer) Thumbnail(ctx context.Context, source Source, rng frames.Range, dest string) error {
	if err := source.validate(); err != nil {
		return fmt.Errorf("render thumbnail: %w", err)
	}
	seek := formatSeconds(Seconds(rng.Midpoint(), source.FPS))
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", seek,
		"-i", source.Path,
		"-frames:v", "1",
	}
	if r.Width > 0 && r.Height > 0 {
		args = append(args, "-vf", "scale="+strconv.Itoa(r.Width)+":"+strconv.Itoa(r.Height))
	}
	args = append(args, dest)
	if err := r.run(ctx, dest, args); err != nil {
		return fmt.Errorf("render thumbnail %s: %w", rng, err)
	}
	return nil
}

// Clip stream-copies the span of rng from source into dest.
func (r Renderer) Clip(ctx context.Context, source Source, rng frames.Range, dest string) error {
	if rng.IsSingle() {
		return fmt.Errorf("render clip %s: %w", rng, ErrSingleFrame)
	}
	if err := source.validate(); err != nil {
		return fmt.Errorf("render clip: %w", err)
	}
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-ss", formatSeconds(Seconds(rng.Start, source.FPS)),
		"-i", source.Path,
		"-t", formatSeconds(Seconds(rng.Len(), source.FPS)),
		"-c:v", "copy",
		"-c:a", "copy",
		dest,
	}
	if err := r.run(ctx, dest, args); err != nil {
		return fmt.Errorf("render clip %s: %w", rng, err)
	}
	return nil
}

func (r Renderer) run(ctx context.Context, dest string, args []string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ensure artifact directory: %w", err)
	}
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	binary := strings.TrimSpace(r.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		if detail := strings.TrimSpace(string(output)); detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}

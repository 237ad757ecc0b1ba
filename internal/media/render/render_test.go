package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framefix/internal/frames"
)

// stubFFmpeg records its arguments one per line and creates the last argument.
func stubFFmpeg(t *testing.T) (binary, argsFile string) {
	t.Helper()
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	binary = filepath.Join(dir, "ffmpeg")
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + argsFile + "\nfor last; do :; done\n: > \"$last\"\n"
	if err := os.WriteFile(binary, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return binary, argsFile
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(raw)), "\n")
}

func argAfter(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func TestTimecode(t *testing.T) {
	tests := []struct {
		frame int
		fps   float64
		want  string
	}{
		{0, 60, "00:00:00:00"},
		{59, 60, "00:00:00:59"},
		{60, 60, "00:00:01:00"},
		{3600*60 + 61, 60, "01:00:01:01"},
		{48, 24, "00:00:02:00"},
		{60, 59.94, "00:00:01:00"},
		{-5, 60, "00:00:00:00"},
	}
	for _, tt := range tests {
		if got := Timecode(tt.frame, tt.fps); got != tt.want {
			t.Errorf("Timecode(%d, %v) = %q, want %q", tt.frame, tt.fps, got, tt.want)
		}
	}
}

func TestRangeTimecode(t *testing.T) {
	if got := RangeTimecode(frames.Range{Start: 30, End: 90}, 60); got != "00:00:00:30-00:00:01:30" {
		t.Fatalf("unexpected range timecode %q", got)
	}
	if got := RangeTimecode(frames.Single(120), 60); got != "00:00:02:00" {
		t.Fatalf("unexpected single timecode %q", got)
	}
}

func TestThumbnailSeeksToMidpoint(t *testing.T) {
	binary, argsFile := stubFFmpeg(t)
	dest := filepath.Join(t.TempDir(), "thumbs", "row-1.png")
	r := Renderer{Binary: binary, Width: 96, Height: 74}

	if err := r.Thumbnail(context.Background(), Source{Path: "/media/ref.mp4", FPS: 60}, frames.Range{Start: 60, End: 180}, dest); err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	args := readArgs(t, argsFile)
	if got := argAfter(args, "-ss"); got != "2.000" {
		t.Fatalf("expected seek 2.000, got %q (%v)", got, args)
	}
	if got := argAfter(args, "-vf"); got != "scale=96:74" {
		t.Fatalf("expected scale filter, got %q", got)
	}
	if got := argAfter(args, "-i"); got != "/media/ref.mp4" {
		t.Fatalf("expected source path, got %q", got)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("expected thumbnail at %s: %v", dest, err)
	}
}

func TestClipCopiesSpan(t *testing.T) {
	binary, argsFile := stubFFmpeg(t)
	dest := filepath.Join(t.TempDir(), "clip.mp4")
	r := Renderer{Binary: binary}

	if err := r.Clip(context.Background(), Source{Path: "/media/ref.mp4", FPS: 60}, frames.Range{Start: 30, End: 89}, dest); err != nil {
		t.Fatalf("Clip: %v", err)
	}
	args := readArgs(t, argsFile)
	if got := argAfter(args, "-ss"); got != "0.500" {
		t.Fatalf("expected start 0.500, got %q", got)
	}
	if got := argAfter(args, "-t"); got != "1.000" {
		t.Fatalf("expected duration 1.000, got %q", got)
	}
	if got := argAfter(args, "-c:v"); got != "copy" {
		t.Fatalf("expected stream copy, got %q", got)
	}
}

func TestClipRejectsSingleFrame(t *testing.T) {
	r := Renderer{Binary: "ffmpeg"}
	err := r.Clip(context.Background(), Source{Path: "/media/ref.mp4", FPS: 60}, frames.Single(10), filepath.Join(t.TempDir(), "x.mp4"))
	if !errors.Is(err, ErrSingleFrame) {
		t.Fatalf("expected ErrSingleFrame, got %v", err)
	}
}

func TestRunReportsOutput(t *testing.T) {
	binary := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(binary, []byte("#!/bin/sh\necho 'Invalid data found' >&2\nexit 1\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	r := Renderer{Binary: binary}
	err := r.Thumbnail(context.Background(), Source{Path: "/media/bad.mp4", FPS: 60}, frames.Single(1), filepath.Join(t.TempDir(), "t.png"))
	if err == nil || !strings.Contains(err.Error(), "Invalid data found") {
		t.Fatalf("expected ffmpeg output in error, got %v", err)
	}
}

func TestSeekUsesSourceFrameRate(t *testing.T) {
	binary, argsFile := stubFFmpeg(t)
	r := Renderer{Binary: binary}

	if err := r.Clip(context.Background(), Source{Path: "/media/ref.mov", FPS: 24}, frames.Range{Start: 48, End: 71}, filepath.Join(t.TempDir(), "clip.mp4")); err != nil {
		t.Fatalf("Clip: %v", err)
	}
	args := readArgs(t, argsFile)
	if got := argAfter(args, "-ss"); got != "2.000" {
		t.Fatalf("expected start 2.000 at 24 fps, got %q", got)
	}
	if got := argAfter(args, "-t"); got != "1.000" {
		t.Fatalf("expected duration 1.000 at 24 fps, got %q", got)
	}
}

func TestRenderRejectsInvalidSource(t *testing.T) {
	r := Renderer{Binary: "ffmpeg"}
	dest := filepath.Join(t.TempDir(), "t.png")
	for _, source := range []Source{{Path: " ", FPS: 60}, {Path: "/media/ref.mp4"}} {
		if err := r.Thumbnail(context.Background(), source, frames.Single(1), dest); err == nil {
			t.Fatalf("expected error for source %+v", source)
		}
	}
}

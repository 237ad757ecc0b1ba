package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// ErrNoVideoStream is returned when the media has no countable video stream.
var ErrNoVideoStream = errors.New("no video stream")

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index        int    `json:"index"`
	CodecName    string `json:"codec_name"`
	CodecType    string `json:"codec_type"`
	Duration     string `json:"duration"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	RFrameRate   string `json:"r_frame_rate"`
	AvgFrameRate string `json:"avg_frame_rate"`
	NBFrames     string `json:"nb_frames"`
	NBReadFrames string `json:"nb_read_frames"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	NBStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON response.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	output, err := run(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// CountFrames decodes the first video stream of path and returns the number of
// frames read.
func CountFrames(ctx context.Context, binary string, path string) (int, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, errors.New("ffprobe count frames: empty path")
	}
	output, err := run(ctx, binary,
		"-v", "error",
		"-count_frames", "-select_streams", "v:0",
		"-show_entries", "stream=nb_read_frames",
		"-of", "json",
		"--", path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe count frames: %w", err)
	}
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return 0, fmt.Errorf("ffprobe parse: %w", err)
	}
	if len(result.Streams) == 0 {
		return 0, fmt.Errorf("ffprobe count frames %s: %w", path, ErrNoVideoStream)
	}
	count, err := strconv.Atoi(strings.TrimSpace(result.Streams[0].NBReadFrames))
	if err != nil || count < 0 {
		return 0, fmt.Errorf("ffprobe count frames %s: unexpected nb_read_frames %q", path, result.Streams[0].NBReadFrames)
	}
	return count, nil
}

func run(ctx context.Context, binary string, args ...string) ([]byte, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return output, nil
}

// Counter reports the frame count of a reference video.
type Counter struct {
	Binary  string
	Timeout time.Duration
}

// MaxFrame returns the highest frame number a fix request may reference,
// which is the decoded frame count of the first video stream.
func (c Counter) MaxFrame(ctx context.Context, mediaPath string) (int, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return CountFrames(ctx, c.Binary, mediaPath)
}

// FrameRate returns the frame rate of the first video stream of mediaPath.
func (c Counter) FrameRate(ctx context.Context, mediaPath string) (float64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	result, err := Inspect(ctx, c.Binary, mediaPath)
	if err != nil {
		return 0, err
	}
	if result.VideoStreamCount() == 0 {
		return 0, fmt.Errorf("ffprobe frame rate %s: %w", mediaPath, ErrNoVideoStream)
	}
	rate := result.FrameRate()
	if rate <= 0 {
		return 0, fmt.Errorf("ffprobe frame rate %s: no usable rate", mediaPath)
	}
	return rate, nil
}

func (c Counter) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout > 0 {
		return context.WithTimeout(ctx, c.Timeout)
	}
	return ctx, func() {}
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	count := 0
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			count++
		}
	}
	return count
}

// FrameRate returns the frame rate of the first video stream, or 0 when unavailable.
func (r Result) FrameRate() float64 {
	for _, stream := range r.Streams {
		if !strings.EqualFold(stream.CodecType, "video") {
			continue
		}
		if rate := parseRational(stream.AvgFrameRate); rate > 0 {
			return rate
		}
		return parseRational(stream.RFrameRate)
	}
	return 0
}

func parseRational(value string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		rate := parseFloat(num)
		if math.IsNaN(rate) {
			return 0
		}
		return rate
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if math.IsNaN(n) || math.IsNaN(d) || d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

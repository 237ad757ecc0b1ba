package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"framefix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Store.Path = filepath.Join(base, "data", "framefix.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithStrictMatching enables the abort-on-unmatched policy.
func WithStrictMatching() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Report.StrictMatching = true
	}
}

// WithoutStore disables SQLite persistence.
func WithoutStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Enabled = false
	}
}

// WithUpload enables clip uploads against url.
func WithUpload(url, token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Upload.Enabled = true
		b.cfg.Upload.URL = url
		b.cfg.Upload.Token = token
	}
}

// WithFakeFFprobe points the config at a script that reports one 24 fps
// video stream with frameCount decoded frames for any input.
func WithFakeFFprobe(frameCount int) ConfigOption {
	return func(b *configBuilder) {
		body := "echo '{\"streams\":[{\"codec_type\":\"video\",\"avg_frame_rate\":\"24/1\",\"nb_read_frames\":\"" + strconv.Itoa(frameCount) + "\"}]}'"
		b.cfg.Media.FFprobeBinary = writeScript(b.t, filepath.Join(b.baseDir, "bin"), "ffprobe", body)
	}
}

// WithFakeFFmpeg points the config at a script that creates its final
// argument, standing in for a successful thumbnail or clip render.
func WithFakeFFmpeg() ConfigOption {
	return func(b *configBuilder) {
		body := "for last; do :; done\n: > \"$last\""
		b.cfg.Media.FFmpegBinary = writeScript(b.t, filepath.Join(b.baseDir, "bin"), "ffmpeg", body)
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffprobe and ffmpeg are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffprobe", "ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			writeScript(b.t, binDir, name, "exit 0")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}

func writeScript(t testing.TB, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	target := filepath.Join(dir, name)
	if err := os.WriteFile(target, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub %s: %v", name, err)
	}
	return target
}

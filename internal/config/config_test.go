package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"framefix/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("FRAMEFIX_UPLOAD_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "framefix")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Store.Path != filepath.Join(wantData, "framefix.db") {
		t.Fatalf("unexpected store path: %q", cfg.Store.Path)
	}
	if !filepath.IsAbs(cfg.Paths.OutputDir) {
		t.Fatalf("expected absolute output dir, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Media.FPS != 0 {
		t.Fatalf("expected fps detection by default, got %v", cfg.Media.FPS)
	}
	if cfg.Report.StrictMatching {
		t.Fatal("expected strict matching disabled by default")
	}
	if !cfg.Store.Enabled {
		t.Fatal("expected store enabled by default")
	}
	if cfg.Upload.Enabled {
		t.Fatal("expected upload disabled by default")
	}
	if cfg.CSVPath() != filepath.Join(cfg.Paths.OutputDir, "output.csv") {
		t.Fatalf("unexpected csv path: %q", cfg.CSVPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "framefix.toml")

	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(dir, "out")
	cfg.Media.FPS = 24
	cfg.Report.StrictMatching = true
	cfg.Logging.Format = "JSON"
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s (exists=%v)", path, resolved, exists)
	}
	if loaded.Paths.OutputDir != filepath.Join(dir, "out") {
		t.Fatalf("unexpected output dir %q", loaded.Paths.OutputDir)
	}
	if loaded.Media.FPS != 24 {
		t.Fatalf("unexpected fps %v", loaded.Media.FPS)
	}
	if !loaded.Report.StrictMatching {
		t.Fatal("expected strict matching from file")
	}
	if loaded.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", loaded.Logging.Format)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[report]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestUploadEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FRAMEFIX_UPLOAD_TOKEN", " secret ")
	t.Setenv("FRAMEFIX_UPLOAD_URL", "https://assets.example.com/upload/")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[upload]\nenabled = true\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upload.Token != "secret" {
		t.Fatalf("expected token from env, got %q", cfg.Upload.Token)
	}
	if cfg.Upload.URL != "https://assets.example.com/upload" {
		t.Fatalf("expected trimmed url from env, got %q", cfg.Upload.URL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{name: "fps", mutate: func(c *config.Config) { c.Media.FPS = -1 }, want: "media.fps"},
		{name: "thumbnail", mutate: func(c *config.Config) { c.Media.ThumbnailWidth = -5 }, want: "media.thumbnail_width"},
		{name: "workers", mutate: func(c *config.Config) { c.Media.RenderWorkers = -1 }, want: "media.render_workers"},
		{name: "csv path", mutate: func(c *config.Config) { c.Report.CSVName = "nested/out.csv" }, want: "report.csv_name"},
		{name: "sheet", mutate: func(c *config.Config) { c.Report.SheetName = "bad/name" }, want: "report.sheet_name"},
		{name: "upload url", mutate: func(c *config.Config) { c.Upload.Enabled = true; c.Upload.URL = "" }, want: "upload.url"},
		{name: "upload scheme", mutate: func(c *config.Config) { c.Upload.Enabled = true; c.Upload.URL = "ftp://x" }, want: "http(s)"},
		{name: "level", mutate: func(c *config.Config) { c.Logging.Level = "loud" }, want: "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}

func TestExpandPathTilde(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := config.ExpandPath("~/x/y")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("unexpected expansion %q", got)
	}
}

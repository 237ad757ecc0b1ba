package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	OutputDir string `toml:"output_dir"`
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
}

// Media contains ffprobe/ffmpeg settings used for frame counting and rendering.
type Media struct {
	FFprobeBinary   string  `toml:"ffprobe_binary"`
	FFmpegBinary    string  `toml:"ffmpeg_binary"`
	FPS             float64 `toml:"fps"`
	ThumbnailWidth  int     `toml:"thumbnail_width"`
	ThumbnailHeight int     `toml:"thumbnail_height"`
	ProbeTimeout    int     `toml:"probe_timeout"`
	RenderTimeout   int     `toml:"render_timeout"`
	// RenderWorkers bounds concurrent ffmpeg invocations for workbook artifacts.
	RenderWorkers int `toml:"render_workers"`
}

// Report contains output naming and matching policy.
type Report struct {
	CSVName   string `toml:"csv_name"`
	XLSXName  string `toml:"xlsx_name"`
	SheetName string `toml:"sheet_name"`
	// StrictMatching aborts the run when a shot-log path has no work-order
	// location. When false the path is reported and its entry skipped.
	StrictMatching bool `toml:"strict_matching"`
	// Clips controls clip generation for multi-frame ranges in the spreadsheet.
	Clips bool `toml:"clips"`
}

// Store contains the SQLite record store settings.
type Store struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"` // Default: <data_dir>/framefix.db
}

// Upload contains the remote asset service settings for generated clips.
type Upload struct {
	Enabled        bool   `toml:"enabled"`
	URL            string `toml:"url"`
	Token          string `toml:"token"`
	ProjectID      string `toml:"project_id"`
	FieldName      string `toml:"field_name"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications contains ntfy settings for run events.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for framefix.
//
// Configuration sections by subsystem:
//   - Paths: output, data, and log directories
//   - Media: ffprobe/ffmpeg binaries, frame rate, thumbnail size, timeouts
//   - Report: output file names and the unmatched-path policy
//   - Store: SQLite record store
//   - Upload: clip upload endpoint
//   - Notifications: ntfy topic for run events
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Media         Media         `toml:"media"`
	Report        Report        `toml:"report"`
	Store         Store         `toml:"store"`
	Upload        Upload        `toml:"upload"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPathLiteral)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPathLiteral)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	if c.Store.Enabled {
		if err := os.MkdirAll(filepath.Dir(c.Store.Path), 0o755); err != nil {
			return fmt.Errorf("create store directory: %w", err)
		}
	}
	return nil
}

// CSVPath returns the CSV report location inside the output directory.
func (c *Config) CSVPath() string {
	return filepath.Join(c.Paths.OutputDir, c.Report.CSVName)
}

// XLSXPath returns the spreadsheet location inside the output directory.
func (c *Config) XLSXPath() string {
	return filepath.Join(c.Paths.OutputDir, c.Report.XLSXName)
}

// ArtifactDir returns the directory holding thumbnails and clips.
func (c *Config) ArtifactDir() string {
	return filepath.Join(c.Paths.OutputDir, "media")
}

// ProbeTimeout returns the ffprobe frame-count timeout.
func (c *Config) ProbeTimeout() time.Duration {
	return time.Duration(c.Media.ProbeTimeout) * time.Second
}

// RenderTimeout returns the per-invocation ffmpeg timeout.
func (c *Config) RenderTimeout() time.Duration {
	return time.Duration(c.Media.RenderTimeout) * time.Second
}

// UploadTimeout returns the HTTP timeout for clip uploads.
func (c *Config) UploadTimeout() time.Duration {
	return time.Duration(c.Upload.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateMedia(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateUpload(); err != nil {
		return err
	}
	if c.Notifications.NtfyTopic != "" && c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return c.validateLogging()
}

func (c *Config) validateMedia() error {
	if err := ensurePositiveMap(map[string]int{
		"media.thumbnail_width":  c.Media.ThumbnailWidth,
		"media.thumbnail_height": c.Media.ThumbnailHeight,
		"media.probe_timeout":    c.Media.ProbeTimeout,
		"media.render_timeout":   c.Media.RenderTimeout,
		"media.render_workers":   c.Media.RenderWorkers,
	}); err != nil {
		return err
	}
	if c.Media.FPS < 0 {
		return errors.New("media.fps must not be negative")
	}
	return nil
}

func (c *Config) validateReport() error {
	for key, name := range map[string]string{
		"report.csv_name":  c.Report.CSVName,
		"report.xlsx_name": c.Report.XLSXName,
	} {
		if filepath.Base(name) != name {
			return fmt.Errorf("%s must be a file name, not a path (got %q)", key, name)
		}
	}
	if strings.ContainsAny(c.Report.SheetName, `:\/?*[]`) || len(c.Report.SheetName) > 31 {
		return fmt.Errorf("report.sheet_name %q is not a valid worksheet name", c.Report.SheetName)
	}
	return nil
}

func (c *Config) validateUpload() error {
	if !c.Upload.Enabled {
		return nil
	}
	if c.Upload.URL == "" {
		return fmt.Errorf("upload.url must be set when upload.enabled is true (or set %s)", uploadURLEnv)
	}
	if !strings.HasPrefix(c.Upload.URL, "http://") && !strings.HasPrefix(c.Upload.URL, "https://") {
		return fmt.Errorf("upload.url must be an http(s) URL, got %q", c.Upload.URL)
	}
	if c.Upload.TimeoutSeconds <= 0 {
		return errors.New("upload.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMedia()
	c.normalizeReport()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeUpload()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMedia() {
	c.Media.FFprobeBinary = strings.TrimSpace(c.Media.FFprobeBinary)
	if c.Media.FFprobeBinary == "" {
		c.Media.FFprobeBinary = defaultFFprobeBinary
	}
	c.Media.FFmpegBinary = strings.TrimSpace(c.Media.FFmpegBinary)
	if c.Media.FFmpegBinary == "" {
		c.Media.FFmpegBinary = defaultFFmpegBinary
	}
	if c.Media.ThumbnailWidth == 0 {
		c.Media.ThumbnailWidth = defaultThumbnailWidth
	}
	if c.Media.ThumbnailHeight == 0 {
		c.Media.ThumbnailHeight = defaultThumbnailHeight
	}
	if c.Media.ProbeTimeout == 0 {
		c.Media.ProbeTimeout = defaultProbeTimeout
	}
	if c.Media.RenderTimeout == 0 {
		c.Media.RenderTimeout = defaultRenderTimeout
	}
	if c.Media.RenderWorkers == 0 {
		c.Media.RenderWorkers = defaultRenderWorkers
	}
}

func (c *Config) normalizeReport() {
	c.Report.CSVName = strings.TrimSpace(c.Report.CSVName)
	if c.Report.CSVName == "" {
		c.Report.CSVName = defaultCSVName
	}
	c.Report.XLSXName = strings.TrimSpace(c.Report.XLSXName)
	if c.Report.XLSXName == "" {
		c.Report.XLSXName = defaultXLSXName
	}
	c.Report.SheetName = strings.TrimSpace(c.Report.SheetName)
	if c.Report.SheetName == "" {
		c.Report.SheetName = defaultSheetName
	}
}

func (c *Config) normalizeStore() error {
	var err error
	if strings.TrimSpace(c.Store.Path) == "" {
		c.Store.Path = filepath.Join(c.Paths.DataDir, defaultStoreFile)
	}
	if c.Store.Path, err = expandPath(c.Store.Path); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeUpload() {
	c.Upload.URL = strings.TrimSpace(c.Upload.URL)
	if c.Upload.URL == "" {
		if value, ok := os.LookupEnv(uploadURLEnv); ok {
			c.Upload.URL = strings.TrimSpace(value)
		}
	}
	c.Upload.URL = strings.TrimRight(c.Upload.URL, "/")
	c.Upload.Token = strings.TrimSpace(c.Upload.Token)
	if c.Upload.Token == "" {
		if value, ok := os.LookupEnv(uploadTokenEnv); ok {
			c.Upload.Token = strings.TrimSpace(value)
		}
	}
	c.Upload.ProjectID = strings.TrimSpace(c.Upload.ProjectID)
	c.Upload.FieldName = strings.TrimSpace(c.Upload.FieldName)
	if c.Upload.FieldName == "" {
		c.Upload.FieldName = defaultUploadFieldName
	}
	if c.Upload.TimeoutSeconds == 0 {
		c.Upload.TimeoutSeconds = defaultUploadTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNtfyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

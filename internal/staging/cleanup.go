package staging

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"framefix/internal/logging"
)

// Artifact name patterns written by the pipeline.
var artifactPatterns = []string{"thumb-*.png", "clip-*.mp4"}

// CleanResult contains the outcome of an artifact cleanup.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a file path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanArtifacts removes thumbnails and clips left in dir by earlier runs.
// Files that do not follow the artifact naming are kept.
func CleanArtifacts(dir string, logger *slog.Logger) CleanResult {
	var result CleanResult

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return result
	}

	for _, path := range matchArtifacts(dir) {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			result.Errors = append(result.Errors, CleanupError{Path: path, Error: err})
			if logger != nil {
				logging.WarnWithContext(logger, "failed to remove stale artifact", "artifact_cleanup_failed",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check output directory permissions"),
					logging.String(logging.FieldImpact, "stale artifact left on disk"),
				)
			}
			continue
		}
		result.Removed = append(result.Removed, path)
	}

	if logger != nil && len(result.Removed) > 0 {
		logger.Info("removed stale artifacts",
			logging.String("dir", dir),
			logging.Int("count", len(result.Removed)),
			logging.String(logging.FieldEventType, "artifact_cleanup"),
		)
	}
	return result
}

// ArtifactInfo contains metadata about one artifact file.
type ArtifactInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// ListArtifacts returns the artifacts in dir sorted by name. A missing
// directory yields no artifacts.
func ListArtifacts(dir string) ([]ArtifactInfo, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var artifacts []ArtifactInfo
	for _, path := range matchArtifacts(dir) {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		artifacts = append(artifacts, ArtifactInfo{
			Name:    filepath.Base(path),
			Path:    path,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return artifacts, nil
}

// TotalSize sums the size of artifacts.
func TotalSize(artifacts []ArtifactInfo) int64 {
	var total int64
	for _, artifact := range artifacts {
		total += artifact.Size
	}
	return total
}

func matchArtifacts(dir string) []string {
	var paths []string
	for _, pattern := range artifactPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			continue
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)
	return paths
}

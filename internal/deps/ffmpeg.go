package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ResolveFFmpeg reports the ffmpeg binary paired with the given ffprobe.
//
// Static ffmpeg builds ship ffprobe and ffmpeg side by side, so an ffmpeg
// next to the resolved ffprobe wins over whatever PATH provides.
func ResolveFFmpeg(ffprobeCommand string) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "Renders thumbnails and clips for the workbook",
		Optional:    true,
	}

	probe := strings.TrimSpace(ffprobeCommand)
	if probe != "" {
		if resolved, err := exec.LookPath(probe); err == nil {
			candidate := siblingBinary(resolved, "ffmpeg")
			if info, statErr := os.Stat(candidate); statErr == nil && isExecutable(info) {
				result.Command = candidate
				result.Available = true
				return result
			}
		}
	}

	ffmpegName := "ffmpeg"
	if ffmpegPath, err := exec.LookPath(ffmpegName); err == nil {
		result.Command = ffmpegPath
		result.Available = true
		return result
	}

	result.Command = ffmpegName
	result.Available = false
	result.Detail = fmt.Sprintf("binary %q not found", ffmpegName)
	return result
}

func siblingBinary(path, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(filepath.Dir(path), name)
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary framefix relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// MediaRequirements lists the media tools used by a run. ffprobe is required
// whenever a reference video is supplied; ffmpeg only backs thumbnails and clips.
func MediaRequirements(ffprobeBinary, ffmpegBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "FFprobe",
			Command:     defaultCommand(ffprobeBinary, "ffprobe"),
			Description: "Counts frames in the reference video",
		},
		{
			Name:        "FFmpeg",
			Command:     defaultCommand(ffmpegBinary, "ffmpeg"),
			Description: "Renders thumbnails and clips for the workbook",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Missing returns the required statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var missing []Status
	for _, status := range statuses {
		if !status.Available && !status.Optional {
			missing = append(missing, status)
		}
	}
	return missing
}

func defaultCommand(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

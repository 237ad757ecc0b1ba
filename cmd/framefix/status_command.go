package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"framefix/internal/config"
	"framefix/internal/deps"
	"framefix/internal/fileutil"
	"framefix/internal/staging"
)

type statusPayload struct {
	ConfigPath    string        `json:"config_path"`
	ConfigFound   bool          `json:"config_found"`
	OutputDir     string        `json:"output_dir"`
	StorePath     string        `json:"store_path,omitempty"`
	StoreEnabled  bool          `json:"store_enabled"`
	Upload        bool          `json:"upload_enabled"`
	Notifications bool          `json:"notifications_enabled"`
	Artifacts     int           `json:"artifacts"`
	ArtifactBytes int64         `json:"artifact_bytes"`
	Dependencies  []deps.Status `json:"dependencies"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration and media tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			payload := statusPayload{
				ConfigPath:    ctx.configPath,
				ConfigFound:   ctx.configSeen,
				OutputDir:     cfg.Paths.OutputDir,
				StoreEnabled:  cfg.Store.Enabled,
				Upload:        cfg.Upload.Enabled,
				Notifications: strings.TrimSpace(cfg.Notifications.NtfyTopic) != "",
				Dependencies:  dependencyStatuses(cfg),
			}
			if cfg.Store.Enabled {
				payload.StorePath = cfg.Store.Path
			}
			artifacts, err := staging.ListArtifacts(cfg.ArtifactDir())
			if err != nil {
				return fmt.Errorf("list artifacts: %w", err)
			}
			payload.Artifacts = len(artifacts)
			payload.ArtifactBytes = staging.TotalSize(artifacts)
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), payload)
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			lines := renderSectionHeader("Configuration", colorize)

			if payload.ConfigFound {
				lines = append(lines, renderStatusLine("Config", statusOK, payload.ConfigPath, colorize))
			} else {
				lines = append(lines, renderStatusLine("Config", statusInfo, "defaults (no file at "+payload.ConfigPath+")", colorize))
			}
			lines = append(lines, renderStatusLine("Output", statusInfo, payload.OutputDir, colorize))
			lines = append(lines, renderStatusLine("Artifacts", statusInfo,
				fmt.Sprintf("%d files (%s)", payload.Artifacts, humanize.Bytes(uint64(payload.ArtifactBytes))), colorize))
			switch {
			case !cfg.Store.Enabled:
				lines = append(lines, renderStatusLine("Record Store", statusInfo, "disabled", colorize))
			case fileutil.Exists(cfg.Store.Path):
				lines = append(lines, renderStatusLine("Record Store", statusOK, cfg.Store.Path, colorize))
			default:
				lines = append(lines, renderStatusLine("Record Store", statusInfo, cfg.Store.Path+" (created on first run)", colorize))
			}
			if cfg.Upload.Enabled {
				lines = append(lines, renderStatusLine("Clip Upload", statusOK, cfg.Upload.URL, colorize))
			} else {
				lines = append(lines, renderStatusLine("Clip Upload", statusInfo, "disabled", colorize))
			}
			if payload.Notifications {
				lines = append(lines, renderStatusLine("Notifications", statusOK, cfg.Notifications.NtfyTopic, colorize))
			} else {
				lines = append(lines, renderStatusLine("Notifications", statusInfo, "disabled", colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			for _, status := range payload.Dependencies {
				lines = append(lines, renderDependencyLine(status, colorize))
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

// dependencyStatuses checks ffprobe and ffmpeg. A bare "ffmpeg" setting is
// resolved the way runs resolve it, preferring the ffprobe sibling.
func dependencyStatuses(cfg *config.Config) []deps.Status {
	statuses := deps.CheckBinaries(deps.MediaRequirements(cfg.Media.FFprobeBinary, cfg.Media.FFmpegBinary))
	if cfg.Media.FFmpegBinary != "ffmpeg" {
		return statuses
	}
	for i := range statuses {
		if statuses[i].Name == "FFmpeg" {
			resolved := deps.ResolveFFmpeg(cfg.Media.FFprobeBinary)
			resolved.Description = statuses[i].Description
			statuses[i] = resolved
		}
	}
	return statuses
}

func renderDependencyLine(status deps.Status, colorize bool) string {
	if status.Available {
		return renderStatusLine(status.Name, statusOK, status.Command, colorize)
	}
	kind := statusError
	if status.Optional {
		kind = statusWarn
	}
	message := status.Detail
	if message == "" {
		message = "unavailable"
	}
	if status.Description != "" {
		message += " – " + status.Description
	}
	return renderStatusLine(status.Name, kind, message, colorize)
}

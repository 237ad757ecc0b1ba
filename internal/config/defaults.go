package config

const (
	defaultOutputDir         = "."
	defaultDataDir           = "~/.local/share/framefix"
	defaultLogDir            = "~/.local/share/framefix/logs"
	defaultFFprobeBinary     = "ffprobe"
	defaultFFmpegBinary      = "ffmpeg"
	defaultThumbnailWidth    = 96
	defaultThumbnailHeight   = 74
	defaultProbeTimeout      = 600
	defaultRenderTimeout     = 120
	defaultRenderWorkers     = 2
	defaultCSVName           = "output.csv"
	defaultXLSXName          = "Output.xlsx"
	defaultSheetName         = "output"
	defaultStoreFile         = "framefix.db"
	defaultUploadTimeout     = 120
	defaultUploadFieldName   = "file"
	defaultNtfyTimeout       = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
	uploadTokenEnv           = "FRAMEFIX_UPLOAD_TOKEN"
	uploadURLEnv             = "FRAMEFIX_UPLOAD_URL"
	defaultConfigPathLiteral = "~/.config/framefix/config.toml"
	projectConfigName        = "framefix.toml"
)

// FallbackFPS is the frame rate assumed when media.fps is unset and the
// reference video does not report one.
const FallbackFPS = 60.0

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
		},
		Media: Media{
			FFprobeBinary:   defaultFFprobeBinary,
			FFmpegBinary:    defaultFFmpegBinary,
			ThumbnailWidth:  defaultThumbnailWidth,
			ThumbnailHeight: defaultThumbnailHeight,
			ProbeTimeout:    defaultProbeTimeout,
			RenderTimeout:   defaultRenderTimeout,
			RenderWorkers:   defaultRenderWorkers,
		},
		Report: Report{
			CSVName:   defaultCSVName,
			XLSXName:  defaultXLSXName,
			SheetName: defaultSheetName,
			Clips:     true,
		},
		Store: Store{
			Enabled: true,
		},
		Upload: Upload{
			TimeoutSeconds: defaultUploadTimeout,
			FieldName:      defaultUploadFieldName,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

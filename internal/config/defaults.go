package config

const (
	defaultDatabasePath       = "~/.local/share/curator/curator.db"
	defaultVaultDir           = "~/vault/reading-list"
	defaultLogDir             = "~/.local/share/curator/logs"
	defaultLookbackDays       = 7
	defaultMaxItemsPerSource  = 20
	defaultSubtitleLanguage   = "en"
	defaultYtdlpBinary        = "yt-dlp"
	defaultFetchTimeout       = 120
	defaultFeedTimeout        = 30
	defaultFabricBinary       = "fabric"
	defaultFabricPattern      = "rate_content"
	defaultRatingTimeout      = 60
	defaultRatingDelaySeconds = 2.0
	defaultRatingBatchSize    = 10
	defaultTranscriptMaxChars = 5000
	defaultDigestWindowDays   = 7
	defaultFilenamePrefix     = "Curated Digest"
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			Database: defaultDatabasePath,
			VaultDir: defaultVaultDir,
			LogDir:   defaultLogDir,
		},
		Fetch: Fetch{
			LookbackDays:       defaultLookbackDays,
			MaxItemsPerSource:  defaultMaxItemsPerSource,
			SubtitleLanguage:   defaultSubtitleLanguage,
			YtdlpBinary:        defaultYtdlpBinary,
			TimeoutSeconds:     defaultFetchTimeout,
			FeedTimeoutSeconds: defaultFeedTimeout,
		},
		Rating: Rating{
			FabricBinary:       defaultFabricBinary,
			Pattern:            defaultFabricPattern,
			TimeoutSeconds:     defaultRatingTimeout,
			DelaySeconds:       defaultRatingDelaySeconds,
			BatchSize:          defaultRatingBatchSize,
			TranscriptMaxChars: defaultTranscriptMaxChars,
		},
		Digest: Digest{
			WindowDays:     defaultDigestWindowDays,
			FilenamePrefix: defaultFilenamePrefix,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

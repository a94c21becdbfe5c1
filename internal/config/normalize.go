package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFetch()
	c.normalizeRating()
	c.normalizeDigest()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabasePath
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if c.Paths.VaultDir, err = expandPath(c.Paths.VaultDir); err != nil {
		return fmt.Errorf("paths.vault_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeFetch() {
	if c.Fetch.LookbackDays <= 0 {
		c.Fetch.LookbackDays = defaultLookbackDays
	}
	if c.Fetch.MaxItemsPerSource <= 0 {
		c.Fetch.MaxItemsPerSource = defaultMaxItemsPerSource
	}
	c.Fetch.SubtitleLanguage = strings.ToLower(strings.TrimSpace(c.Fetch.SubtitleLanguage))
	if c.Fetch.SubtitleLanguage == "" {
		c.Fetch.SubtitleLanguage = defaultSubtitleLanguage
	}
	c.Fetch.YtdlpBinary = strings.TrimSpace(c.Fetch.YtdlpBinary)
	if c.Fetch.YtdlpBinary == "" {
		c.Fetch.YtdlpBinary = defaultYtdlpBinary
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = defaultFetchTimeout
	}
	if c.Fetch.FeedTimeoutSeconds <= 0 {
		c.Fetch.FeedTimeoutSeconds = defaultFeedTimeout
	}
}

func (c *Config) normalizeRating() {
	c.Rating.FabricBinary = strings.TrimSpace(c.Rating.FabricBinary)
	if c.Rating.FabricBinary == "" {
		c.Rating.FabricBinary = defaultFabricBinary
	}
	c.Rating.Pattern = strings.TrimSpace(c.Rating.Pattern)
	if c.Rating.Pattern == "" {
		c.Rating.Pattern = defaultFabricPattern
	}
	c.Rating.Model = strings.TrimSpace(c.Rating.Model)
	if c.Rating.TimeoutSeconds <= 0 {
		c.Rating.TimeoutSeconds = defaultRatingTimeout
	}
	if c.Rating.DelaySeconds < 0 {
		c.Rating.DelaySeconds = defaultRatingDelaySeconds
	}
	if c.Rating.TranscriptMaxChars <= 0 {
		c.Rating.TranscriptMaxChars = defaultTranscriptMaxChars
	}
	if c.Rating.BatchSize <= 0 {
		c.Rating.BatchSize = defaultRatingBatchSize
	}
}

func (c *Config) normalizeDigest() {
	if c.Digest.WindowDays <= 0 {
		c.Digest.WindowDays = defaultDigestWindowDays
	}
	c.Digest.FilenamePrefix = strings.TrimSpace(c.Digest.FilenamePrefix)
	if c.Digest.FilenamePrefix == "" {
		c.Digest.FilenamePrefix = defaultFilenamePrefix
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("CURATOR_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
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

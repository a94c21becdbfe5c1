package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFetch(); err != nil {
		return err
	}
	if err := c.validateRating(); err != nil {
		return err
	}
	if err := c.validateDigest(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.Database) == "" {
		return errors.New("paths.database must be set")
	}
	if strings.TrimSpace(c.Paths.VaultDir) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/curator/config.toml"
		}
		return fmt.Errorf("paths.vault_dir is required. Edit %s (create with 'curator config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateFetch() error {
	if err := ensurePositiveMap(map[string]int{
		"fetch.lookback_days":        c.Fetch.LookbackDays,
		"fetch.max_items_per_source": c.Fetch.MaxItemsPerSource,
		"fetch.timeout_seconds":      c.Fetch.TimeoutSeconds,
		"fetch.feed_timeout_seconds": c.Fetch.FeedTimeoutSeconds,
	}); err != nil {
		return err
	}
	if strings.TrimSpace(c.Fetch.YtdlpBinary) == "" {
		return errors.New("fetch.ytdlp_binary must be set")
	}
	if strings.TrimSpace(c.Fetch.SubtitleLanguage) == "" {
		return errors.New("fetch.subtitle_language must be set")
	}
	return nil
}

func (c *Config) validateRating() error {
	if strings.TrimSpace(c.Rating.FabricBinary) == "" {
		return errors.New("rating.fabric_binary must be set")
	}
	if strings.TrimSpace(c.Rating.Pattern) == "" {
		return errors.New("rating.pattern must be set")
	}
	if err := ensurePositiveMap(map[string]int{
		"rating.timeout_seconds":      c.Rating.TimeoutSeconds,
		"rating.transcript_max_chars": c.Rating.TranscriptMaxChars,
	}); err != nil {
		return err
	}
	if c.Rating.DelaySeconds < 0 {
		return errors.New("rating.delay_seconds must be >= 0")
	}
	if c.Rating.BatchSize < 0 {
		return errors.New("rating.batch_size must be >= 0")
	}
	return nil
}

func (c *Config) validateDigest() error {
	if c.Digest.WindowDays <= 0 {
		return errors.New("digest.window_days must be positive")
	}
	if strings.TrimSpace(c.Digest.FilenamePrefix) == "" {
		return errors.New("digest.filename_prefix must be set")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.Enabled && strings.TrimSpace(c.Notifications.NtfyTopic) == "" {
		return errors.New("notifications.ntfy_topic must be set when notifications.enabled is true (or set CURATOR_NTFY_TOPIC)")
	}
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit the file to set vault_dir and add sources before running curator fetch.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := [][]string{
				{"paths.database", cfg.Paths.Database},
				{"paths.vault_dir", cfg.Paths.VaultDir},
				{"paths.log_dir", cfg.Paths.LogDir},
				{"fetch.lookback_days", fmt.Sprintf("%d", cfg.Fetch.LookbackDays)},
				{"fetch.max_items_per_source", fmt.Sprintf("%d", cfg.Fetch.MaxItemsPerSource)},
				{"fetch.subtitle_language", cfg.Fetch.SubtitleLanguage},
				{"fetch.ytdlp_binary", cfg.Fetch.YtdlpBinary},
				{"fetch.timeout_seconds", fmt.Sprintf("%d", cfg.Fetch.TimeoutSeconds)},
				{"fetch.feed_timeout_seconds", fmt.Sprintf("%d", cfg.Fetch.FeedTimeoutSeconds)},
				{"rating.fabric_binary", cfg.Rating.FabricBinary},
				{"rating.pattern", cfg.Rating.Pattern},
				{"rating.model", cfg.Rating.Model},
				{"rating.timeout_seconds", fmt.Sprintf("%d", cfg.Rating.TimeoutSeconds)},
				{"rating.delay_seconds", fmt.Sprintf("%g", cfg.Rating.DelaySeconds)},
				{"rating.transcript_max_chars", fmt.Sprintf("%d", cfg.Rating.TranscriptMaxChars)},
				{"rating.batch_size", fmt.Sprintf("%d", cfg.Rating.BatchSize)},
				{"digest.window_days", fmt.Sprintf("%d", cfg.Digest.WindowDays)},
				{"digest.filename_prefix", cfg.Digest.FilenamePrefix},
				{"notifications.enabled", yesNo(cfg.Notifications.Enabled)},
				{"notifications.ntfy_topic", cfg.Notifications.NtfyTopic},
				{"logging.format", cfg.Logging.Format},
				{"logging.level", cfg.Logging.Level},
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Setting", "Value"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			))
			return nil
		},
	}
}

package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"curator/internal/config"
	"curator/internal/content"
	"curator/internal/store"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	sourcesCmd := &cobra.Command{
		Use:   "sources",
		Short: "Manage content sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSourcesList(ctx, cmd)
		},
	}

	sourcesCmd.AddCommand(newSourcesListCommand(ctx))
	sourcesCmd.AddCommand(newSourcesAddCommand(ctx))
	sourcesCmd.AddCommand(newSourcesEnableCommand(ctx, true))
	sourcesCmd.AddCommand(newSourcesEnableCommand(ctx, false))
	sourcesCmd.AddCommand(newSourcesImportCommand(ctx))
	return sourcesCmd
}

func newSourcesListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSourcesList(ctx, cmd)
		},
	}
}

func runSourcesList(ctx *commandContext, cmd *cobra.Command) error {
	return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
		sources, err := st.ListSources(cmd.Context(), false)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(sources) == 0 {
			fmt.Fprintln(out, "No sources configured (add one with 'curator sources add')")
			return nil
		}

		rows := make([][]string, 0, len(sources))
		for _, source := range sources {
			lastFetch := "never"
			if source.LastFetchAt != nil {
				lastFetch = source.LastFetchAt.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{
				strconv.FormatInt(source.ID, 10),
				source.Name,
				string(source.Type),
				yesNo(source.Enabled),
				lastFetch,
				source.URL,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"ID", "Name", "Type", "Enabled", "Last Fetch", "URL"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
		))
		return nil
	})
}

func newSourcesAddCommand(ctx *commandContext) *cobra.Command {
	var name, typeValue, url string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a content source",
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceType, ok := content.ParseSourceType(typeValue)
			if !ok {
				return fmt.Errorf("unknown source type %q (known: %s)", typeValue, knownSourceTypes())
			}
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				source, err := st.AddSource(cmd.Context(), strings.TrimSpace(name), sourceType, strings.TrimSpace(url))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added source %s (id %d)\n", source.Name, source.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Unique source name")
	cmd.Flags().StringVar(&typeValue, "type", string(content.SourceTypeVideoChannel), "Source type")
	cmd.Flags().StringVar(&url, "url", "", "Origin URL")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newSourcesEnableCommand(ctx *commandContext, enable bool) *cobra.Command {
	verb := "enable"
	if !enable {
		verb = "disable"
	}

	return &cobra.Command{
		Use:   verb + " NAME",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				updated, err := st.SetSourceEnabled(cmd.Context(), args[0], enable)
				if err != nil {
					return err
				}
				if !updated {
					return fmt.Errorf("source %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Source %s %sd\n", args[0], verb)
				return nil
			})
		},
	}
}

// sourceSeed is one entry of the YAML import file.
type sourceSeed struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Enabled *bool  `yaml:"enabled"`
}

type sourceSeedFile struct {
	Sources []sourceSeed `yaml:"sources"`
}

func newSourcesImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import sources from a YAML file",
		Long: `Import sources from a YAML file of the form:

sources:
  - name: primeagen
    type: video-channel
    url: https://www.youtube.com/@ThePrimeTimeagen
  - name: blog
    type: feed
    url: https://example.com/feed.xml
    enabled: false

Existing names are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import file: %w", err)
			}

			var seed sourceSeedFile
			if err := yaml.Unmarshal(raw, &seed); err != nil {
				return fmt.Errorf("parse import file: %w", err)
			}
			if len(seed.Sources) == 0 {
				return fmt.Errorf("import file %s contains no sources", args[0])
			}

			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var added, skipped int
				out := cmd.OutOrStdout()
				for _, entry := range seed.Sources {
					name := strings.TrimSpace(entry.Name)
					url := strings.TrimSpace(entry.URL)
					if name == "" || url == "" {
						return fmt.Errorf("import entry needs both name and url (got name=%q url=%q)", entry.Name, entry.URL)
					}
					sourceType, ok := content.ParseSourceType(entry.Type)
					if !ok {
						return fmt.Errorf("source %q: unknown type %q (known: %s)", name, entry.Type, knownSourceTypes())
					}

					existing, err := st.SourceByName(cmd.Context(), name)
					if err != nil {
						return err
					}
					if existing != nil {
						skipped++
						continue
					}

					source, err := st.AddSource(cmd.Context(), name, sourceType, url)
					if err != nil {
						return err
					}
					if entry.Enabled != nil && !*entry.Enabled {
						if _, err := st.SetSourceEnabled(cmd.Context(), name, false); err != nil {
							return err
						}
					}
					added++
					fmt.Fprintf(out, "Added %s (%s)\n", source.Name, source.Type)
				}
				fmt.Fprintf(out, "Imported %d source(s), %d already present\n", added, skipped)
				return nil
			})
		},
	}
}

func knownSourceTypes() string {
	types := content.AllSourceTypes()
	names := make([]string, 0, len(types))
	for _, st := range types {
		names = append(names, strings.ReplaceAll(string(st), "_", "-"))
	}
	return strings.Join(names, ", ")
}

// ABOUTME: CLI command to (re)build the semantic search indices
// ABOUTME: Embeds summaries, profiles, and recent messages into the vector store
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	indexLookbackDays int
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the semantic search indices",
		Long: `Embed weekly summaries, identity profiles, and recent messages into
the three search indices.

Documents use deterministic IDs, so re-running refreshes existing
entries instead of duplicating them. Run after summarize to make new
summaries searchable.

Examples:
  correspondent index
  correspondent index --lookback 90`,
		RunE: runIndex,
	}

	cmd.Flags().IntVar(&indexLookbackDays, "lookback", 0, "Days of raw messages to index (default from config)")

	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lookback := indexLookbackDays
	if lookback == 0 {
		lookback = cfg.MessageLookbackDays
	}
	if err := validatePositiveInt(lookback, "lookback"); err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	loader, err := buildLoader(cfg, store)
	if err != nil {
		return err
	}

	if err := loader.LoadAll(cmd.Context(), lookback); err != nil {
		return fmt.Errorf("building indices: %w", err)
	}

	if !quiet {
		weekly, _ := loader.Weekly().Count()
		identity, _ := loader.Identity().Count()
		messages, _ := loader.Messages().Count()
		fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d summaries, %d profiles, %d messages\n",
			weekly, identity, messages)
	}
	return nil
}

// ABOUTME: CLI command to import a tweet archive export
// ABOUTME: Parses tweets.js and stores tweets for later analysis
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/correspondent/internal/ingest"
)

// NewImportArchiveCmd creates the import-archive command
func NewImportArchiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-archive <path>",
		Short: "Import a tweet archive",
		Long: `Import tweets from a downloaded archive export.

The path may be the archive directory or the tweets.js file itself.
Retweets and replies are imported and flagged as such.

Examples:
  correspondent import-archive ~/Downloads/twitter-archive
  correspondent import-archive ~/Downloads/twitter-archive/data/tweets.js`,
		Args: cobra.ExactArgs(1),
		RunE: runImportArchive,
	}

	return cmd
}

func runImportArchive(cmd *cobra.Command, args []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	importer := ingest.NewArchiveImporter(store)
	count, err := importer.Import(args[0])
	if err != nil {
		return fmt.Errorf("importing archive: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tweet(s)\n", count)
	}

	return nil
}

// ABOUTME: CLI command to ingest messages from a Messages database
// ABOUTME: Copies new messages, contacts, and chats into local storage
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/correspondent/internal/ingest"
)

var (
	ingestSource string
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Import messages from the Messages database",
		Long: `Import messages, contacts, and chats from a Messages chat.db.

The source database is opened read-only. Messages already imported are
skipped, so repeated runs only pick up new messages.

Examples:
  correspondent ingest
  correspondent ingest --source /path/to/chat.db`,
		RunE: runIngest,
	}

	cmd.Flags().StringVar(&ingestSource, "source", "", "Path to chat.db (default: ~/Library/Messages/chat.db)")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	source := ingestSource
	if source == "" {
		source = ingest.DefaultSourcePath()
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	importer := ingest.NewMessageImporter(store)
	stats, err := importer.Import(source)
	if err != nil {
		return fmt.Errorf("importing messages: %w", err)
	}

	if err := store.Optimize(); err != nil {
		return fmt.Errorf("optimizing storage: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d message(s) (%d already present)\n", stats.Inserted, stats.Skipped)
		fmt.Fprintf(cmd.OutOrStdout(), "Contacts: %d, Chats: %d\n", stats.Contacts, stats.Chats)

		if last, err := store.Messages.LastDate(); err == nil && !last.IsZero() {
			fmt.Fprintf(cmd.OutOrStdout(), "Most recent message: %s\n", formatTime(last))
		}
	}

	return nil
}

// ABOUTME: CLI command to ask a question over the message history
// ABOUTME: Retrieves relevant context and generates a grounded answer
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/correspondent/internal/core"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about your message history",
		Long: `Answer a question using retrieved summaries, profiles, and messages.

The question runs through the same search as the search command, and
the retrieved context is handed to the LLM to compose an answer.

Examples:
  correspondent ask "when did we last talk about the trip?"
  correspondent ask --contact "Dana" "what did we plan for March?"`,
		Args: cobra.ExactArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&searchContact, "contact", "", "Restrict context to one contact")
	cmd.Flags().StringVar(&searchStart, "start", "", "Earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&searchEnd, "end", "", "Latest date to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&searchLimit, "limit", 0, "Context items per index (default from config)")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts, err := searchOptions(cfg.SearchK)
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	searcher, err := buildSearcher(cfg, store)
	if err != nil {
		return err
	}

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	responder := core.NewResponder(searcher, gateway)
	answer, err := responder.Answer(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}

// ABOUTME: CLI command to search the message history
// ABOUTME: Queries summaries, profiles, and messages with optional filters
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/correspondent/internal/core"
	"github.com/harper/correspondent/internal/models"
)

var (
	searchContact string
	searchStart   string
	searchEnd     string
	searchLimit   int
)

// NewSearchCmd creates the search command
func NewSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search summaries, profiles, and messages",
		Long: `Search the message history with semantic similarity.

Each query runs against the weekly summary, identity profile, and raw
message indices. Results can be narrowed to one contact or a date range.

Examples:
  correspondent search "weekend plans"
  correspondent search --contact "Dana" "dinner"
  correspondent search --start 2025-01-01 --end 2025-03-01 "travel"
  correspondent search --format json "moving"`,
		Args: cobra.ExactArgs(1),
		RunE: runSearch,
	}

	cmd.Flags().StringVar(&searchContact, "contact", "", "Restrict results to one contact")
	cmd.Flags().StringVar(&searchStart, "start", "", "Earliest date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&searchEnd, "end", "", "Latest date to include (YYYY-MM-DD)")
	cmd.Flags().IntVar(&searchLimit, "limit", 0, "Results per index (default from config)")

	return cmd
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	results, err := searcher.Search(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	if results.Empty() {
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "No results for query: %s\n", args[0])
		}
		return nil
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "TYPE\tCONTACT\tDATE\tPREVIEW\n")
	fmt.Fprintf(w, "----\t-------\t----\t-------\n")
	printResultRows(w, results.Identity)
	printResultRows(w, results.Summaries)
	printResultRows(w, results.Messages)
	w.Flush()

	if !quiet {
		total := len(results.Identity) + len(results.Summaries) + len(results.Messages)
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d result(s)\n", total)
	}
	return nil
}

// searchOptions builds SearchOptions from the shared flags
func searchOptions(defaultK int) (core.SearchOptions, error) {
	k := searchLimit
	if k == 0 {
		k = defaultK
	}
	if err := validatePositiveInt(k, "limit"); err != nil {
		return core.SearchOptions{}, err
	}

	start, err := parseDateFlag(searchStart, "start date")
	if err != nil {
		return core.SearchOptions{}, err
	}
	end, err := parseDateFlag(searchEnd, "end date")
	if err != nil {
		return core.SearchOptions{}, err
	}

	return core.SearchOptions{
		Contact:   searchContact,
		StartDate: start,
		EndDate:   end,
		K:         k,
	}, nil
}

func printResultRows(w *tabwriter.Writer, docs []models.Document) {
	for _, doc := range docs {
		contentType, _ := doc.Metadata["content_type"].(string)
		contact, _ := doc.Metadata["contact"].(string)
		if contact == "" {
			contact = "(me)"
		}

		date := ""
		if ts, ok := doc.Metadata["timestamp"]; ok {
			switch v := ts.(type) {
			case int64:
				date = time.Unix(v, 0).Format("2006-01-02")
			case float64:
				date = time.Unix(int64(v), 0).Format("2006-01-02")
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			contentType,
			truncate(contact, 20),
			date,
			truncate(doc.Content, 60))
	}
}

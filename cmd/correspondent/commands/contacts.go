// ABOUTME: CLI command to list known contacts
// ABOUTME: Shows message counts, summary coverage, and profile status
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewContactsCmd creates the contacts command
func NewContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "List known contacts",
		Long: `List every contact seen during ingestion, with message counts and
how many weekly summaries and profile versions each one has.

Examples:
  correspondent contacts
  correspondent contacts --format json`,
		RunE: runContacts,
	}

	return cmd
}

type contactRow struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Messages   int    `json:"messages"`
	Weeks      int    `json:"weekly_summaries"`
	Profiles   int    `json:"profile_versions"`
}

func runContacts(cmd *cobra.Command, args []string) error {
	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	contacts, err := store.Contacts.All()
	if err != nil {
		return fmt.Errorf("listing contacts: %w", err)
	}

	if len(contacts) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "No contacts yet. Run ingest first.")
		}
		return nil
	}

	rows := make([]contactRow, 0, len(contacts))
	for _, contact := range contacts {
		messages, err := store.Messages.CountForContact(contact.ID)
		if err != nil {
			return fmt.Errorf("counting messages for %s: %w", contact.DisplayName, err)
		}
		weeks, err := store.Weekly.CountForContact(contact.ID)
		if err != nil {
			return fmt.Errorf("counting summaries for %s: %w", contact.DisplayName, err)
		}
		history, err := store.Identity.History(contact.ID)
		if err != nil {
			return fmt.Errorf("loading profile history for %s: %w", contact.DisplayName, err)
		}

		rows = append(rows, contactRow{
			Name:       contact.DisplayName,
			Identifier: contact.Identifier,
			Messages:   messages,
			Weeks:      weeks,
			Profiles:   len(history),
		})
	}

	if outputFormat == "json" {
		jsonData, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", jsonData)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "NAME\tIDENTIFIER\tMESSAGES\tWEEKS\tPROFILES\n")
	fmt.Fprintf(w, "----\t----------\t--------\t-----\t--------\n")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n",
			truncate(row.Name, 25),
			truncate(row.Identifier, 25),
			row.Messages,
			row.Weeks,
			row.Profiles)
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d contact(s)\n", len(rows))
	}
	return nil
}

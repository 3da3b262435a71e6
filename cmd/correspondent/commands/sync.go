// ABOUTME: Sync commands for Charm cloud backup of summaries
// ABOUTME: Provides status, backup, and forced sync
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/correspondent/internal/charm"
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Manage Charm cloud backup",
		Long: `Back up summaries and profiles to Charm cloud.

Backed-up data syncs across devices linked to the same Charm account
via SSH keys. Only generated summaries are backed up, never raw
messages.`,
	}

	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncBackupCmd())
	cmd.AddCommand(newSyncNowCmd())

	return cmd
}

func syncClient() (*charm.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	client, err := charm.NewClient(&charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to Charm: %w", err)
	}
	return client, nil
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show backup status and connection info",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := syncClient()
			if err != nil {
				return err
			}
			defer client.Close()

			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Status: Not connected")
				return nil
			}

			keys, err := client.ListKeys(charm.WeeklyPrefix)
			if err != nil {
				return fmt.Errorf("listing backed-up summaries: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Status: Connected")
			fmt.Fprintf(cmd.OutOrStdout(), "User ID: %s\n", id)
			fmt.Fprintf(cmd.OutOrStdout(), "Weekly summaries backed up: %d\n", len(keys))
			return nil
		},
	}
}

func newSyncBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Back up summaries and profiles to Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := syncClient()
			if err != nil {
				return err
			}
			defer client.Close()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer store.Close()

			stats, err := charm.BackupSummaries(client, store)
			if err != nil {
				return fmt.Errorf("backing up summaries: %w", err)
			}

			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d weekly summaries and %d profile versions\n",
					stats.Weekly, stats.Identity)
			}
			return nil
		},
	}
}

func newSyncNowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "now",
		Short: "Force immediate sync with Charm cloud",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := syncClient()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := client.Sync(); err != nil {
				return fmt.Errorf("sync failed: %w", err)
			}

			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "Sync complete")
			}
			return nil
		},
	}
}

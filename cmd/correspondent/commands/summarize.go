// ABOUTME: CLI commands to generate weekly and identity summaries
// ABOUTME: Drives the LLM aggregators over stored messages and tweets
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/correspondent/internal/core"
)

var (
	summarizeAll bool
)

// NewSummarizeCmd creates the summarize command group
func NewSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Generate summaries from stored messages",
		Long: `Generate weekly conversation summaries and contact identity profiles.

Summarization calls the configured LLM once per unprocessed week or
contact, paced to stay under the request rate limit.

Examples:
  correspondent summarize weekly
  correspondent summarize identity
  correspondent summarize tweets`,
	}

	cmd.AddCommand(newSummarizeWeeklyCmd())
	cmd.AddCommand(newSummarizeIdentityCmd())
	cmd.AddCommand(newSummarizeTweetsCmd())

	return cmd
}

func newSummarizeWeeklyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Summarize each contact's messages week by week",
		RunE:  runSummarizeWeekly,
	}

	cmd.Flags().BoolVar(&summarizeAll, "all", false, "Re-summarize weeks that already have summaries")

	return cmd
}

func runSummarizeWeekly(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	aggregator := core.NewWeeklyAggregator(store, gateway)
	aggregator.SkipExisting = cfg.SkipExistingWeeks && !summarizeAll

	if err := aggregator.Run(cmd.Context()); err != nil {
		return fmt.Errorf("generating weekly summaries: %w", err)
	}

	if err := store.Optimize(); err != nil {
		return fmt.Errorf("optimizing storage: %w", err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Weekly summaries up to date")
	}
	return nil
}

func newSummarizeIdentityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identity",
		Short: "Generate or update identity profiles for active contacts",
		RunE:  runSummarizeIdentity,
	}
}

func runSummarizeIdentity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	aggregator := core.NewIdentityAggregator(store, gateway)
	aggregator.MinMessages = cfg.MinIdentityMessages
	aggregator.ContactPause = cfg.ContactPause
	aggregator.ErrorPause = cfg.ErrorPause

	if err := aggregator.Run(cmd.Context()); err != nil {
		return fmt.Errorf("generating identity profiles: %w", err)
	}

	if err := store.Optimize(); err != nil {
		return fmt.Errorf("optimizing storage: %w", err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Identity profiles up to date")
	}
	return nil
}

func newSummarizeTweetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tweets",
		Short: "Analyze the imported tweet archive",
		Long: `Generate an identity profile and weekly digests from imported tweets.

Run import-archive first to populate the tweet store.`,
		RunE: runSummarizeTweets,
	}
}

func runSummarizeTweets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer store.Close()

	gateway, err := buildGateway(cfg)
	if err != nil {
		return err
	}

	analyzer := core.NewTweetAnalyzer(store, gateway)

	if err := analyzer.GenerateIdentity(cmd.Context()); err != nil {
		return fmt.Errorf("generating tweet identity: %w", err)
	}

	weeks, err := analyzer.GenerateWeekly(cmd.Context())
	if err != nil {
		return fmt.Errorf("generating tweet digests: %w", err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Tweet analysis complete (%d weekly digest(s))\n", weeks)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-dashboard/internal/gateway"
	"github.com/naka-gawa/pr-dashboard/internal/usecase"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collects pull request statistics from GitHub into the data file",
	Long: `Counts pull requests per repository and reviews per week for the
configured GitHub searches, and writes the result to the data file the
dashboard API serves.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		logger := newLogger(cmd)
		cfg := mustLoadConfig(cmd)

		if cmd.Flags().Changed("org") {
			cfg.GitHub.Org, _ = cmd.Flags().GetString("org")
		}
		if cmd.Flags().Changed("output") {
			cfg.Data.File, _ = cmd.Flags().GetString("output")
		}
		fromStr, _ := cmd.Flags().GetString("from")
		toStr, _ := cmd.Flags().GetString("to")

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fmt.Fprintln(os.Stderr, "Error: GITHUB_TOKEN environment variable is not set.")
			os.Exit(1)
		}

		repoQuery, prQuery := cfg.GitHub.Queries()
		if repoQuery == "" && prQuery == "" {
			fmt.Fprintln(os.Stderr, "Error: set --org or github.repo_query / github.pr_query.")
			os.Exit(1)
		}
		dateRange, err := createdRange(fromStr, toStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if prQuery != "" {
			prQuery += dateRange
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(token, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create GitHub gateway: %v\n", err)
			os.Exit(1)
		}
		aggregator := usecase.NewAggregator(githubGateway, logger)

		payload, err := aggregator.Aggregate(ctx, usecase.Options{
			RepoQuery:         repoQuery,
			PRQuery:           prQuery,
			BucketWidth:       cfg.GitHub.BucketWidth,
			ReviewConcurrency: cfg.GitHub.ReviewConcurrency,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to aggregate stats: %v\n", err)
			os.Exit(1)
		}

		if err := gateway.WriteDataFile(cfg.Data.File, payload); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write data file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d PR buckets and %d review weeks to %s\n", len(payload.BarData), len(payload.StackedData), cfg.Data.File)
	},
}

// createdRange builds the " created:from..to" search qualifier. The leading
// space is important for concatenation.
func createdRange(fromStr, toStr string) (string, error) {
	if fromStr == "" && toStr == "" {
		return "", nil
	}
	const githubDateLayout = "2006-01-02"
	const inputDateLayout = "2006/01/02"
	fromQuery, toQuery := "*", "*"
	if fromStr != "" {
		fromTime, err := time.Parse(inputDateLayout, fromStr)
		if err != nil {
			return "", fmt.Errorf("invalid --from date format, please use YYYY/MM/DD: %w", err)
		}
		fromQuery = fromTime.Format(githubDateLayout)
	}
	if toStr != "" {
		toTime, err := time.Parse(inputDateLayout, toStr)
		if err != nil {
			return "", fmt.Errorf("invalid --to date format, please use YYYY/MM/DD: %w", err)
		}
		toQuery = toTime.Format(githubDateLayout)
	}
	return fmt.Sprintf(" created:%s..%s", fromQuery, toQuery), nil
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringP("org", "o", "", "Target GitHub organization name")
	collectCmd.Flags().String("output", "", "Data file to write (.json)")
	collectCmd.Flags().String("from", "", "Only count pull requests created on or after this date (YYYY/MM/DD)")
	collectCmd.Flags().String("to", "", "Only count pull requests created on or before this date (YYYY/MM/DD)")
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

var indexSmokeQuery string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Rebuild the vector collection from the chunk store",
	Long: `Embeds every chunk in the chunk store and replaces the vector collection
with the result. A single-result smoke query is run afterwards to confirm
retrieval works.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVar(&indexSmokeQuery, "smoke-query", "", "query run after the rebuild")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	ctx := cmd.Context()
	report, err := indexService.RebuildFromStore(ctx)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	cmd.Printf("Collection %q rebuilt with %d records (%s, %d dims).\n",
		report.Collection.Name, report.Records, report.Collection.Model, report.Collection.Dimensions)

	query := smokeQuery()
	cmd.Printf("Query: %q\n", query)
	hit, err := indexService.Smoke(ctx, query)
	if err != nil {
		return fmt.Errorf("smoke query failed: %w", err)
	}
	if hit == nil {
		cmd.Println("Smoke query returned no results.")
		return nil
	}

	cmd.Printf("Smoke query top hit [%s] (distance %.4f):\n", hit.ID, hit.Distance)
	cmd.Printf("  %s\n", preview(hit.Document, 200))
	return nil
}

// smokeQuery picks the --smoke-query flag, then the configured query, then the default.
func smokeQuery() string {
	if indexSmokeQuery != "" {
		return indexSmokeQuery
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Collection.SmokeQuery != "" {
			return settings.Collection.SmokeQuery
		}
	}
	return domain.DefaultSmokeQuery
}

// preview returns the first n runes of s, with an ellipsis when cut.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

var (
	queryLimit int
	queryJSON  bool
)

var queryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Retrieve the chunks nearest to a query",
	Long: `Runs retrieval only: embeds the query and prints the nearest chunks of
the vector collection, closest first. No language model is called.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", domain.DefaultTopK, "number of chunks to return")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	hits, err := indexService.Query(cmd.Context(), args[0], queryLimit)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		data, err := json.MarshalIndent(hits, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i := range hits {
		cmd.Printf("  [%d] chunk %s (distance %.4f)\n", i+1, hits[i].ID, hits[i].Distance)
		if src := hits[i].Metadata["source"]; src != "" {
			cmd.Printf("      Source: %s\n", src)
		}
		cmd.Printf("      %s\n\n", preview(hits[i].Document, 200))
	}
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/gradewise/internal/core/domain"
)

var (
	buildRawDir    string
	buildChunkSize int
	buildOverlap   int
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Extract and chunk the reference PDF",
	Long: `Finds the first PDF in the raw directory, extracts its text page by
page, normalises it and writes overlapping chunks to the chunk store.

Unset flags fall back to the configured values.`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildRawDir, "raw-dir", "", "directory containing the source PDF")
	buildCmd.Flags().IntVar(&buildChunkSize, "chunk-size", 0, "maximum chunk length in characters")
	buildCmd.Flags().IntVar(&buildOverlap, "overlap", 0, "characters shared by consecutive chunks")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	if preprocessService == nil {
		return errors.New("preprocess service not configured")
	}

	opts := domain.BuildOptions{
		RawDir:    buildRawDir,
		ChunkSize: buildChunkSize,
	}
	if cmd.Flags().Changed("overlap") {
		overlap := buildOverlap
		opts.Overlap = &overlap
	}

	report, err := preprocessService.Build(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	cmd.Printf("Source:     %s\n", report.SourcePath)
	cmd.Printf("Pages:      %d\n", report.Pages)
	cmd.Printf("Characters: %d\n", report.Characters)
	cmd.Printf("Chunks:     %d\n", report.Chunks)
	cmd.Printf("Written to: %s\n", report.ChunkPath)
	if report.Preview != "" {
		cmd.Println()
		cmd.Println("First chunk:")
		cmd.Printf("  %s\n", report.Preview)
	}
	return nil
}

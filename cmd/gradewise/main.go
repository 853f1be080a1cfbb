// Command gradewise grades student answers against a rules document using
// retrieval-augmented generation.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/gradewise/internal/adapters/driven/ai"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/config/file"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/loader/pdf"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/bolt"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/chunkfile"
	"github.com/custodia-labs/gradewise/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/gradewise/internal/adapters/driving/cli"
	"github.com/custodia-labs/gradewise/internal/core/domain"
	"github.com/custodia-labs/gradewise/internal/core/services"
	"github.com/custodia-labs/gradewise/internal/logger"
	"github.com/custodia-labs/gradewise/internal/normalisers/pagetext"
	"github.com/custodia-labs/gradewise/internal/postprocessors/chunker"
	"github.com/custodia-labs/gradewise/internal/prompts"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run wires the services and executes the CLI, returning the exit code.
// Command errors are already printed by cobra.
func run() int {
	// A missing .env is fine; API keys may come from the environment.
	_ = godotenv.Load()

	dataDir, err := dataDirectory()
	if err != nil {
		return fail(err)
	}

	configStore, err := file.NewConfigStore(dataDir)
	if err != nil {
		return fail(fmt.Errorf("opening config: %w", err))
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return fail(fmt.Errorf("loading settings: %w", err))
	}

	aiServices := ai.Init(settings)
	defer aiServices.Close()
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	paths := settings.Paths.Resolve(dataDir)

	vectors, err := sqlite.NewStore(paths.VectorDB)
	if err != nil {
		return fail(fmt.Errorf("opening vector store: %w", err))
	}
	defer vectors.Close()

	sessionStore, err := bolt.NewSessionStore(paths.SessionsDB)
	if err != nil {
		return fail(fmt.Errorf("opening session store: %w", err))
	}
	defer sessionStore.Close()

	chunks := chunkfile.New(paths.ChunksFile)

	preprocessService := services.NewPreprocessService(
		pdf.New(),
		pagetext.New(),
		chunker.Splitter{},
		chunks,
		domain.BuildOptions{
			RawDir:    paths.RawDir,
			ChunkSize: settings.Chunking.Size,
			Overlap:   &settings.Chunking.Overlap,
		},
	)
	indexService := services.NewIndexService(aiServices.EmbeddingService, vectors, chunks, settings.Collection)
	queryEngine := services.NewQueryEngine(indexService, aiServices.LLMService, prompts.Grading(),
		services.QueryEngineConfig{
			TopK:    settings.Retrieval.TopK,
			Timeout: settings.Grading.Timeout,
		})
	gradingService := services.NewGradingService(queryEngine, settings.Grading)
	sessionService := services.NewSessionService(sessionStore, gradingService)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Settings:   settingsService,
		Preprocess: preprocessService,
		Index:      indexService,
		Query:      queryEngine,
		Sessions:   sessionService,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		return 1
	}
	return 0
}

func fail(err error) int {
	logger.Error("%v", err)
	return 1
}

// dataDirectory returns GRADEWISE_HOME, or ~/.gradewise when unset.
func dataDirectory() (string, error) {
	if dir := os.Getenv("GRADEWISE_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".gradewise"), nil
}

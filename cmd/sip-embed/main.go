package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lisaguthrie/sipdash/internal/common"
	"github.com/lisaguthrie/sipdash/internal/embed"
	"github.com/lisaguthrie/sipdash/internal/export"
)

// Builds the dashboard's embeddings file from extracted results, or runs an
// ad-hoc search against an existing one.
func main() {
	var (
		in    = flag.String("in", "", "extracted results JSON (defaults to SIP_OUTPUT_FILE)")
		out   = flag.String("out", "", "embeddings output file (defaults to SIP_EMBEDDINGS_FILE)")
		query = flag.String("query", "", "search an existing embeddings file instead of building one")
		topK  = flag.Int("top", 5, "number of search results")
		debug = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()

	logLevel := slog.LevelInfo
	if *debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	cfg := common.LoadConfig()
	if *in != "" {
		cfg.Paths.OutputFile = *in
	}
	if *out != "" {
		cfg.Paths.EmbeddingsFile = *out
	}

	embedder := embed.NewHTTPEmbedder(cfg.Embeddings, logger)

	if *query != "" {
		store, err := embed.LoadStore(cfg.Paths.EmbeddingsFile)
		if err != nil {
			logger.Error("failed to load embeddings", "error", err)
			os.Exit(1)
		}
		matches, err := store.Search(ctx, embedder, *query, *topK, embed.Filters{})
		if err != nil {
			logger.Error("search failed", "error", err)
			os.Exit(1)
		}
		fmt.Printf("Top %d results for %q:\n", len(matches), *query)
		for i, m := range matches {
			fmt.Printf("\n%d. %s (%s, similarity %.3f)%s", i+1, m.SchoolName, m.Area, m.Similarity, m.Text)
		}
		return
	}

	results, err := export.LoadJSON(cfg.Paths.OutputFile)
	if err != nil {
		logger.Error("failed to load extracted results", "error", err)
		os.Exit(1)
	}

	store, err := embed.BuildStore(ctx, embedder, results, cfg.Embeddings.Model, cfg.Embeddings.Dimensions, logger)
	if err != nil {
		logger.Error("failed to build embeddings", "error", err)
		os.Exit(1)
	}
	if err := store.WriteFile(cfg.Paths.EmbeddingsFile); err != nil {
		logger.Error("failed to write embeddings", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Embedded %d goals from %d schools\n", len(store.Goals), len(results))
	fmt.Printf("Output: %s\n", cfg.Paths.EmbeddingsFile)
}

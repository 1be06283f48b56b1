package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/index"
)

// Converts the district's published appendix listing into the JSON school
// index the extractor reads. The appendix page numbers are known to drift
// from the actual PDFs, so the output is a starting point for hand edits.
func main() {
	var (
		in  = flag.String("in", "school_index.txt", "appendix text file")
		out = flag.String("out", "school_index.json", "output JSON index")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	f, err := os.Open(*in)
	if err != nil {
		logger.Error("failed to open appendix", "path", *in, "error", err)
		os.Exit(1)
	}
	defer func() { _ = f.Close() }()

	ix, err := index.ParseAppendix(f)
	if err != nil {
		logger.Error("failed to parse appendix", "path", *in, "error", err)
		os.Exit(1)
	}
	if err := ix.WriteFile(*out); err != nil {
		logger.Error("failed to write index", "path", *out, "error", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %s\n", *in)
	fmt.Printf("Output written to %s\n\n", *out)
	fmt.Printf("Summary:\n")
	for _, level := range []constants.Level{constants.High, constants.Middle, constants.Elementary} {
		fmt.Printf("  %s: %d\n", level.DisplayName(), len(ix.Schools(level)))
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/lisaguthrie/sipdash/constants"
	"github.com/lisaguthrie/sipdash/internal/common"
	"github.com/lisaguthrie/sipdash/internal/document"
	"github.com/lisaguthrie/sipdash/internal/export"
	"github.com/lisaguthrie/sipdash/internal/extract"
	"github.com/lisaguthrie/sipdash/internal/index"
	"github.com/lisaguthrie/sipdash/internal/llm"
	"github.com/lisaguthrie/sipdash/internal/llm/anthropic"
	repo "github.com/lisaguthrie/sipdash/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		indexFile = flag.String("index", "", "school index file, JSON or YAML (defaults to SIP_INDEX_FILE)")
		pdfDir    = flag.String("pdf-dir", "", "directory holding the combined SIP PDFs (defaults to SIP_PDF_DIR)")
		out       = flag.String("out", "", "output JSON file (defaults to SIP_OUTPUT_FILE)")
		xlsxOut   = flag.String("xlsx", "", "optional review workbook path")
		dsn       = flag.String("db", "", "database DSN (defaults to DB_URL)")
		inmem     = flag.Bool("inmem", false, "use in-memory SQLite database")
		levelStr  = flag.String("level", "", "restrict to one level: elementary, middle or high")
		noAI      = flag.Bool("no-ai", false, "skip model calls; cached answers and defaults only")
		debug     = flag.Bool("debug", false, "debug logging")
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
	if *indexFile != "" {
		cfg.Paths.IndexFile = *indexFile
	}
	if *pdfDir != "" {
		cfg.Paths.PDFDir = *pdfDir
	}
	if *out != "" {
		cfg.Paths.OutputFile = *out
	}
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}
	if *inmem {
		cfg.Database.DSN = ":memory:"
	}
	if err := cfg.ValidateForExtraction(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(1)
	}

	levels := constants.AllLevels
	if *levelStr != "" {
		level, ok := constants.ParseLevel(*levelStr)
		if !ok {
			printError("Error: unknown level %q\n", *levelStr)
			os.Exit(1)
		}
		levels = []constants.Level{level}
	}

	ix, err := index.Load(cfg.Paths.IndexFile)
	if err != nil {
		logger.Error("failed to load school index", "error", err)
		os.Exit(1)
	}
	logger.Info("school index loaded", "file", cfg.Paths.IndexFile, "schools", ix.TotalSchools())

	db, err := repo.Open(ctx, repo.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	results := repo.NewResultRepository(db, cfg.Database.DSN, logger)

	// The model is optional: without it, cached answers from earlier runs
	// still apply and everything else falls back to documented defaults.
	var next llm.FocusNormalizer
	var summarize llm.ActionSummarizer
	if !*noAI && cfg.LLM.APIKey != "" {
		client := anthropic.NewClient(anthropic.Config{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
			Timeout: cfg.LLM.Timeout,
		}, logger)
		next = client
		summarize = client
		logger.Info("anthropic client initialized", "model", cfg.LLM.Model)
	} else {
		logger.Warn("model calls disabled, focus and summaries fall back to defaults")
	}
	focus := llm.NewCachedFocusNormalizer(results, next, logger)

	var all []extract.SchoolResult
	var found, missing []string

	for _, level := range levels {
		entries := ix.Schools(level)
		if len(entries) == 0 {
			continue
		}

		pdfPath := filepath.Join(cfg.Paths.PDFDir, level.PDFFileName(cfg.Paths.SchoolYear))
		doc, err := document.OpenPDF(pdfPath)
		if err != nil {
			logger.Error("failed to open level PDF, skipping level", "level", level, "path", pdfPath, "error", err)
			for _, e := range entries {
				missing = append(missing, e.School)
			}
			continue
		}
		logger.Info("processing level", "level", level, "pdf", pdfPath, "pages", doc.PageCount(), "schools", len(entries))

		driver := extract.NewDriver(doc, focus, summarize, logger)
		for _, e := range entries {
			runCtx := common.WithRequestID(ctx, uuid.New().String())
			res, err := driver.ExtractSchool(runCtx, e.School, level, e.Start, e.End)
			if err != nil {
				logger.Error("school extraction failed", "school", e.School, "error", err)
				missing = append(missing, e.School)
				continue
			}
			if err := results.SaveResult(runCtx, res); err != nil {
				logger.Error("failed to save result", "school", e.School, "error", err)
			}
			all = append(all, *res)
			found = append(found, e.School)
		}

		if err := doc.Close(); err != nil {
			logger.Warn("failed to close level PDF", "path", pdfPath, "error", err)
		}
	}

	exportService := export.NewService(logger)
	if err := exportService.WriteJSON(cfg.Paths.OutputFile, all); err != nil {
		logger.Error("failed to write results", "error", err)
		os.Exit(1)
	}

	if *xlsxOut != "" {
		raw, err := exportService.GoalsXLSX(ctx, all)
		if err != nil {
			logger.Error("failed to build review workbook", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxOut, raw, 0o644); err != nil {
			logger.Error("failed to write review workbook", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("extraction complete",
		"extracted", len(found),
		"failed", len(missing),
		"output_file", cfg.Paths.OutputFile)

	sort.Strings(found)
	sort.Strings(missing)
	fmt.Printf("Extraction complete!\n")
	fmt.Printf("- Successfully extracted: %d schools\n", len(found))
	fmt.Printf("- Failed to extract: %d schools\n", len(missing))
	fmt.Printf("- Output: %s\n", cfg.Paths.OutputFile)
	if len(missing) > 0 {
		fmt.Printf("\nMissing schools:\n")
		for _, name := range missing {
			fmt.Printf("- %s\n", name)
		}
	}
}

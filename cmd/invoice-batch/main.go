package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/batch"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog/sqlite"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/config"
)

func main() {
	var (
		dbPath  = flag.String("db", "gfs_catalog.db", "Catalog database path")
		dir     = flag.String("dir", "", "Directory of extracted invoice text files (required)")
		pattern = flag.String("glob", "*.txt", "File name pattern within the directory")
		refPath = flag.String("reference", "", "Reference YAML with categories/brands/tuning (optional)")
	)
	flag.Parse()

	if *dir == "" {
		log.Fatal("--dir required")
	}

	ctx := context.Background()

	loader := config.Loader{ReferencePath: *refPath}
	components, err := loader.Load()
	if err != nil {
		log.Fatal("Failed to load reference data:", err)
	}

	store, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	defer store.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	processor := batch.NewProcessor(components.Parser, store, logger)

	report, err := processor.ProcessDir(ctx, *dir, *pattern)
	if err != nil {
		log.Fatal("Batch failed:", err)
	}

	log.Printf("Run %s: %d documents, %d items parsed, %d stored",
		report.RunID, len(report.Documents), report.ItemsParsed, report.ItemsStored)
	for _, f := range report.Failures {
		log.Printf("  document %s failed: %s", f.DocumentID, f.Reason)
	}
	for _, f := range report.ItemFailures {
		log.Printf("  item %s in %s not stored: %s", f.ItemCode, f.DocumentID, f.Reason)
	}

	summaries, err := store.ProductsByCategory(ctx)
	if err != nil {
		log.Fatal("Failed to summarize catalog:", err)
	}
	for _, s := range summaries {
		name := s.CategoryName
		if name == "" {
			name = s.CategoryCode
		}
		log.Printf("  %-24s %4d products, avg $%.2f", name, s.Count, s.AvgPrice)
	}
}

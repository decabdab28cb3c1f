// Package batch drives invoice ingestion: parse a set of extracted
// invoice texts and persist the results into a catalog, isolating
// failures so one bad document never aborts the run.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

// Document is one unit of batch input. A non-nil Err marks a document
// whose text could not be obtained; it flows through Process as a
// document failure so the report accounts for every input.
type Document struct {
	ID    string
	Pages []string
	Err   error
}

// Failure records one isolated error inside a run.
type Failure struct {
	DocumentID string `json:"document_id"`
	ItemCode   string `json:"item_code,omitempty"`
	Reason     string `json:"reason"`
}

// DocumentSummary is the per-document slice of a report, in input
// order.
type DocumentSummary struct {
	DocumentID    string  `json:"document_id"`
	InvoiceNumber string  `json:"invoice_number,omitempty"`
	ItemCount     int     `json:"item_count"`
	Total         float64 `json:"total"`
	Failed        bool    `json:"failed"`
}

// Report summarizes one batch run.
type Report struct {
	RunID        string            `json:"run_id"`
	Documents    []DocumentSummary `json:"documents"`
	ItemsParsed  int               `json:"items_parsed"`
	ItemsStored  int               `json:"items_stored"`
	Failures     []Failure         `json:"failures,omitempty"`
	ItemFailures []Failure         `json:"item_failures,omitempty"`
}

// Processor parses documents and records them in a catalog.
type Processor struct {
	Parser  *parse.Parser
	Catalog catalog.Catalog
	Logger  *slog.Logger
}

// NewProcessor wires a processor; a nil logger discards log output.
func NewProcessor(parser *parse.Parser, cat catalog.Catalog, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Processor{Parser: parser, Catalog: cat, Logger: logger}
}

func newRunID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Process runs the batch over the given documents in order. Document
// failures (a Document carrying an error, or a storage error recording
// its invoice) and item failures (a single line item that could not be
// persisted) are collected in the report; neither stops the run.
func (p *Processor) Process(ctx context.Context, docs []Document) (Report, error) {
	report := Report{RunID: newRunID()}
	log := p.Logger.With("run_id", report.RunID)
	log.Info("batch started", "documents", len(docs))

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		summary := DocumentSummary{DocumentID: doc.ID}
		if doc.Err != nil {
			summary.Failed = true
			report.Failures = append(report.Failures, Failure{
				DocumentID: doc.ID,
				Reason:     doc.Err.Error(),
			})
			report.Documents = append(report.Documents, summary)
			log.Warn("document skipped", "document", doc.ID, "error", doc.Err)
			continue
		}

		result := p.Parser.ParsePages(doc.Pages)
		report.ItemsParsed += len(result.Items)
		summary.InvoiceNumber = result.Info.Number
		summary.ItemCount = len(result.Items)
		for _, item := range result.Items {
			summary.Total += item.ExtendedPrice
		}

		invoiceID, err := p.Catalog.AddInvoice(ctx, result.Info, summary.Total)
		if err != nil {
			summary.Failed = true
			report.Failures = append(report.Failures, Failure{
				DocumentID: doc.ID,
				Reason:     fmt.Sprintf("record invoice: %v", err),
			})
			report.Documents = append(report.Documents, summary)
			log.Warn("invoice not recorded", "document", doc.ID, "error", err)
			continue
		}

		for _, item := range result.Items {
			productID, err := p.Catalog.UpsertProduct(ctx, item)
			if err == nil {
				err = p.Catalog.AddInvoiceItem(ctx, invoiceID, productID, item)
			}
			if err != nil {
				report.ItemFailures = append(report.ItemFailures, Failure{
					DocumentID: doc.ID,
					ItemCode:   item.ItemCode,
					Reason:     err.Error(),
				})
				log.Warn("item not stored", "document", doc.ID, "item", item.ItemCode, "error", err)
				continue
			}
			report.ItemsStored++
		}
		report.Documents = append(report.Documents, summary)
		log.Info("document processed", "document", doc.ID,
			"invoice", result.Info.Number, "items", len(result.Items))
	}

	log.Info("batch finished",
		"items_parsed", report.ItemsParsed,
		"items_stored", report.ItemsStored,
		"document_failures", len(report.Failures),
		"item_failures", len(report.ItemFailures))
	return report, nil
}

// ProcessDir reads every file in dir matching pattern (sorted by
// name), splits each into pages on form feeds, and processes them as
// one batch. Unreadable files become document failures.
func (p *Processor) ProcessDir(ctx context.Context, dir, pattern string) (Report, error) {
	if pattern == "" {
		pattern = "*.txt"
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return Report{}, fmt.Errorf("glob %s: %w", pattern, err)
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		doc := Document{ID: filepath.Base(path)}
		data, err := os.ReadFile(path)
		if err != nil {
			doc.Err = err
		} else {
			doc.Pages = strings.Split(string(data), "\f")
		}
		docs = append(docs, doc)
	}
	return p.Process(ctx, docs)
}

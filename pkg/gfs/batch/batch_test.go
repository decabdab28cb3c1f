package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/catalog/memstore"
	"github.com/behindthegarage/gfs-ordering/pkg/gfs/parse"
)

const invoicePage = `Gordon Food Service
Invoice 928374651
Invoice Date 03/15/2026
Ship To: LINCOLN ELEMENTARY SCHOOL
123456 10 10 CS 6x10 LB Markon Fresh Broccoli PR 0.00 12.50 125.00
654321 5 5 CS 4x5 LB Packer Diced Carrots PR 0.00 8.00 40.00
not an item line
`

func pages(text string) []string { return []string{text} }

func TestProcessStoresItems(t *testing.T) {
	store := memstore.New()
	p := NewProcessor(parse.NewParser(nil, nil, parse.Tuning{}), store, nil)

	report, err := p.Process(context.Background(), []Document{
		{ID: "inv-1.txt", Pages: pages(invoicePage)},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if report.RunID == "" {
		t.Error("report has no run id")
	}
	if report.ItemsParsed != 2 || report.ItemsStored != 2 {
		t.Errorf("parsed=%d stored=%d, want 2/2", report.ItemsParsed, report.ItemsStored)
	}
	if len(report.Documents) != 1 {
		t.Fatalf("got %d document summaries", len(report.Documents))
	}
	sum := report.Documents[0]
	if sum.InvoiceNumber != "928374651" {
		t.Errorf("invoice number = %q", sum.InvoiceNumber)
	}
	if sum.Total != 165.00 {
		t.Errorf("document total = %v, want 165.00", sum.Total)
	}
	if sum.Failed {
		t.Error("document marked failed")
	}

	product, ok, err := store.GetProductByCode(context.Background(), "123456")
	if err != nil || !ok {
		t.Fatalf("product not stored: ok=%v err=%v", ok, err)
	}
	if product.Description != "Fresh Broccoli" {
		t.Errorf("description = %q", product.Description)
	}
}

func TestProcessIsolatesDocumentFailures(t *testing.T) {
	store := memstore.New()
	p := NewProcessor(parse.NewParser(nil, nil, parse.Tuning{}), store, nil)

	docs := []Document{
		{ID: "a.txt", Pages: pages(invoicePage)},
		{ID: "b.txt", Err: errors.New("pdftotext: exit status 1")},
		{ID: "c.txt", Pages: pages("Invoice 111222333\n123456 10 10 CS 6x10 LB Markon Fresh Broccoli PR 0.00 12.50 125.00\n")},
	}
	report, err := p.Process(context.Background(), docs)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(report.Documents) != 3 {
		t.Fatalf("got %d summaries, want one per input", len(report.Documents))
	}
	if report.Documents[0].Failed || !report.Documents[1].Failed || report.Documents[2].Failed {
		t.Errorf("failure flags = %v %v %v, want only the middle document failed",
			report.Documents[0].Failed, report.Documents[1].Failed, report.Documents[2].Failed)
	}
	if len(report.Failures) != 1 || report.Failures[0].DocumentID != "b.txt" {
		t.Errorf("failures = %+v, want one for b.txt", report.Failures)
	}
	if report.ItemsStored != 3 {
		t.Errorf("items stored = %d, want 3 from the surviving documents", report.ItemsStored)
	}
}

type flakyCatalog struct {
	catalog.Catalog
	failCode string
}

func (f *flakyCatalog) UpsertProduct(ctx context.Context, item parse.LineItem) (int64, error) {
	if item.ItemCode == f.failCode {
		return 0, errors.New("disk full")
	}
	return f.Catalog.UpsertProduct(ctx, item)
}

func TestProcessIsolatesItemFailures(t *testing.T) {
	store := &flakyCatalog{Catalog: memstore.New(), failCode: "654321"}
	p := NewProcessor(parse.NewParser(nil, nil, parse.Tuning{}), store, nil)

	report, err := p.Process(context.Background(), []Document{
		{ID: "inv-1.txt", Pages: pages(invoicePage)},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if report.ItemsParsed != 2 {
		t.Errorf("items parsed = %d, want 2", report.ItemsParsed)
	}
	if report.ItemsStored != 1 {
		t.Errorf("items stored = %d, want 1", report.ItemsStored)
	}
	if len(report.ItemFailures) != 1 {
		t.Fatalf("item failures = %+v, want one", report.ItemFailures)
	}
	f := report.ItemFailures[0]
	if f.DocumentID != "inv-1.txt" || f.ItemCode != "654321" {
		t.Errorf("failure = %+v", f)
	}
	if report.Documents[0].Failed {
		t.Error("item failure should not fail the whole document")
	}
}

func TestProcessDuplicateInvoiceAcrossDocuments(t *testing.T) {
	store := memstore.New()
	p := NewProcessor(parse.NewParser(nil, nil, parse.Tuning{}), store, nil)

	report, err := p.Process(context.Background(), []Document{
		{ID: "first.txt", Pages: pages(invoicePage)},
		{ID: "rescan.txt", Pages: pages(invoicePage)},
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(report.Failures) != 0 {
		t.Errorf("re-ingesting the same invoice should not fail: %+v", report.Failures)
	}

	product, _, err := store.GetProductByCode(context.Background(), "123456")
	if err != nil {
		t.Fatal(err)
	}
	if product.OrderCount != 2 {
		t.Errorf("order count = %d, want 2 sightings", product.OrderCount)
	}
	if len(product.PriceHistory) != 1 {
		t.Errorf("price history = %+v, want single entry for unchanged price", product.PriceHistory)
	}
}

func TestProcessDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"inv-a.txt": invoicePage,
		"inv-b.txt": "Invoice 111222333\n123456 10 10 CS 6x10 LB Markon Fresh Broccoli PR 0.00 12.50 125.00\n",
		"notes.md":  "not an invoice",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	store := memstore.New()
	p := NewProcessor(parse.NewParser(nil, nil, parse.Tuning{}), store, nil)

	report, err := p.ProcessDir(context.Background(), dir, "*.txt")
	if err != nil {
		t.Fatalf("ProcessDir: %v", err)
	}
	if len(report.Documents) != 2 {
		t.Fatalf("got %d documents, want the 2 matching files", len(report.Documents))
	}
	// Sorted by file name.
	if report.Documents[0].DocumentID != "inv-a.txt" || report.Documents[1].DocumentID != "inv-b.txt" {
		t.Errorf("document order = %s, %s", report.Documents[0].DocumentID, report.Documents[1].DocumentID)
	}
	if report.ItemsStored != 3 {
		t.Errorf("items stored = %d, want 3", report.ItemsStored)
	}
}

func TestProcessRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProcessor(parse.NewParser(nil, nil, parse.Tuning{}), memstore.New(), nil)
	_, err := p.Process(ctx, []Document{{ID: "a.txt", Pages: pages(invoicePage)}})
	if err == nil {
		t.Error("expected context error")
	}
}

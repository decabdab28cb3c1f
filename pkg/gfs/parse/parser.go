package parse

import (
	"strconv"
	"strings"
)

// LineItem is one reconstructed invoice line. The raw line is retained
// verbatim so degenerate parses stay auditable downstream.
type LineItem struct {
	ItemCode        string  `json:"item_code"`
	QuantityOrdered int     `json:"quantity_ordered"`
	QuantityShipped int     `json:"quantity_shipped"`
	Unit            string  `json:"unit"`
	PackSize        string  `json:"pack_size"`
	Brand           string  `json:"brand"`
	Description     string  `json:"description"`
	CategoryCode    string  `json:"category_code"`
	CategoryName    string  `json:"category_name"`
	InvoiceValue    float64 `json:"invoice_value"`
	UnitPrice       float64 `json:"unit_price"`
	ExtendedPrice   float64 `json:"extended_price"`
	RawLine         string  `json:"raw_line"`
}

// Parser reconstructs line items from extracted invoice text. The
// reference tables are read-only; a Parser is safe for concurrent use.
type Parser struct {
	Categories Registry
	Brands     BrandSet
	Tuning     Tuning
}

// NewParser creates a parser over the given reference tables. Nil
// tables and a zero tuning fall back to the defaults.
func NewParser(categories Registry, brands BrandSet, tuning Tuning) *Parser {
	if categories == nil {
		categories = DefaultRegistry()
	}
	if brands == nil {
		brands = DefaultBrands()
	}
	if tuning.MinTokens == 0 {
		tuning = DefaultTuning()
	}
	return &Parser{Categories: categories, Brands: brands, Tuning: tuning}
}

// ParseLine parses a single line into a LineItem. It reports false for
// lines that are not item lines: too few tokens, no leading item code,
// non-numeric quantity fields, or no category code within the scan
// window. Structurally accepted lines never fail outright; missing
// sub-fields degrade to empty strings and zero values.
func (p *Parser) ParseLine(line string) (*LineItem, bool) {
	tokens := Tokenize(line)
	if !IsItemLine(tokens, p.Tuning.MinTokens) {
		return nil, false
	}

	prices, priceStart := ExtractPrices(tokens)

	code, catIdx, ok := LocateCategory(tokens, priceStart, p.Categories, p.Tuning)
	if !ok {
		return nil, false
	}

	qtyOrdered, err := strconv.Atoi(tokens[1])
	if err != nil {
		return nil, false
	}
	qtyShipped, err := strconv.Atoi(tokens[2])
	if err != nil {
		return nil, false
	}

	packSize, brand, description := SegmentFields(tokens[unitIndex+1:catIdx], p.Brands, p.Tuning)

	return &LineItem{
		ItemCode:        tokens[0],
		QuantityOrdered: qtyOrdered,
		QuantityShipped: qtyShipped,
		Unit:            tokens[unitIndex],
		PackSize:        packSize,
		Brand:           brand,
		Description:     description,
		CategoryCode:    code,
		CategoryName:    p.Categories.Name(code),
		InvoiceValue:    prices.InvoiceValue,
		UnitPrice:       prices.UnitPrice,
		ExtendedPrice:   prices.ExtendedPrice,
		RawLine:         strings.TrimSpace(line),
	}, true
}

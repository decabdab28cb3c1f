package parse

import "strings"

// DocumentResult is the structured output of parsing one document:
// optional invoice metadata plus the accepted line items in encounter
// order (page order, then line order within a page).
type DocumentResult struct {
	Info  InvoiceInfo `json:"invoice_info"`
	Items []LineItem  `json:"items"`
}

// ParsePages parses a document given as one text string per page.
// Metadata comes from the first page only; every line of every page is
// a line-item candidate. Deterministic: the same input always yields
// the same result.
func (p *Parser) ParsePages(pages []string) DocumentResult {
	var result DocumentResult
	for pageNum, page := range pages {
		lines := strings.Split(page, "\n")
		if pageNum == 0 {
			result.Info = ExtractInvoiceInfo(lines)
		}
		for _, line := range lines {
			if item, ok := p.ParseLine(line); ok {
				result.Items = append(result.Items, *item)
			}
		}
	}
	return result
}

// ParseDocument parses a whole document blob with pages separated by
// form feeds, the convention of pdftotext-style extractors.
func (p *Parser) ParseDocument(text string) DocumentResult {
	return p.ParsePages(strings.Split(text, "\f"))
}

package parse

import (
	"regexp"
	"strings"
	"time"
)

// InvoiceInfo is the per-document metadata pulled from the first page.
// Every field is optional; an anchor that never appears simply leaves
// the field unset.
type InvoiceInfo struct {
	Number   string     `json:"number,omitempty"`
	Date     *time.Time `json:"date,omitempty"`
	Location string     `json:"location,omitempty"`
}

var (
	invoiceNumberRE = regexp.MustCompile(`Invoice\s+(\d+)`)
	invoiceDateRE   = regexp.MustCompile(`Invoice Date\s+(\d{2}/\d{2}/\d{4})`)
	locationRE      = regexp.MustCompile(`([A-Z][A-Z\s]+(?:SCHOOL|ELEMENTARY|CENTER))`)
)

// shipToLookahead bounds the forward search for the delivery location
// after a "Ship To:" anchor, starting at the anchor line itself.
const shipToLookahead = 5

// ExtractInvoiceInfo scans first-page lines for the invoice number,
// invoice date, and ship-to location. The three extractions are
// independent and non-blocking. The invoice number is captured once;
// later matches are ignored.
func ExtractInvoiceInfo(lines []string) InvoiceInfo {
	var info InvoiceInfo
	for i, line := range lines {
		if info.Number == "" && strings.Contains(line, "Invoice") {
			if m := invoiceNumberRE.FindStringSubmatch(line); m != nil {
				info.Number = m[1]
			}
		}

		if strings.Contains(line, "Invoice Date") {
			if m := invoiceDateRE.FindStringSubmatch(line); m != nil {
				if d, err := time.Parse("01/02/2006", m[1]); err == nil {
					info.Date = &d
				}
			}
		}

		if strings.Contains(line, "Ship To:") {
			for j := i; j < len(lines) && j < i+shipToLookahead; j++ {
				if m := locationRE.FindStringSubmatch(lines[j]); m != nil {
					info.Location = strings.TrimSpace(m[1])
					break
				}
			}
		}
	}
	return info
}

package parse

import (
	"regexp"
	"strconv"
)

var priceRE = regexp.MustCompile(`^\d+\.\d{2}$`)

// PriceFields are the three decimal fields recovered from the tail of
// an item line. When the layout collapses and fewer than three
// price-shaped tokens survive, missing fields default to zero and a
// single surviving value is used for both unit and extended price. A
// usable-but-approximate price is preferred over rejecting the line.
type PriceFields struct {
	InvoiceValue  float64
	UnitPrice     float64
	ExtendedPrice float64
}

// ExtractPrices scans tokens from the end toward the start, collecting
// the trailing run of price-shaped tokens (digits, a decimal point,
// exactly two digits). Non-price tokens at the very tail are skipped
// until the first price is seen; the scan stops at the first non-price
// token after that, so an embedded numeric token earlier in the line is
// never taken for a price.
//
// The returned index is the position of the first token of the run, or
// len(tokens) when no price was found. The three rightmost values map
// to (invoice value, unit price, extended price).
func ExtractPrices(tokens []string) (PriceFields, int) {
	var prices []float64
	start := len(tokens)
	for i := len(tokens) - 1; i >= 0; i-- {
		if priceRE.MatchString(tokens[i]) {
			v, _ := strconv.ParseFloat(tokens[i], 64)
			prices = append([]float64{v}, prices...)
			start = i
		} else if len(prices) > 0 {
			break
		}
	}

	n := len(prices)
	switch {
	case n >= 3:
		return PriceFields{
			InvoiceValue:  prices[n-3],
			UnitPrice:     prices[n-2],
			ExtendedPrice: prices[n-1],
		}, start
	case n == 2:
		return PriceFields{UnitPrice: prices[0], ExtendedPrice: prices[1]}, start
	case n == 1:
		return PriceFields{UnitPrice: prices[0], ExtendedPrice: prices[0]}, start
	}
	return PriceFields{}, start
}

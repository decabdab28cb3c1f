package parse

import "testing"

func TestExtractPricesThreeOrMore(t *testing.T) {
	tokens := []string{"123456", "10", "10", "CS", "desc", "PR", "0.00", "12.50", "125.00"}
	got, start := ExtractPrices(tokens)

	if got.InvoiceValue != 0.00 || got.UnitPrice != 12.50 || got.ExtendedPrice != 125.00 {
		t.Errorf("got %+v, want (0.00, 12.50, 125.00)", got)
	}
	if start != 6 {
		t.Errorf("price run start = %d, want 6", start)
	}
}

func TestExtractPricesExtraLeadingPrices(t *testing.T) {
	// Four price-shaped tokens in a row: the three rightmost win.
	tokens := []string{"item", "9.99", "1.00", "2.00", "3.00"}
	got, start := ExtractPrices(tokens)

	if got.InvoiceValue != 1.00 || got.UnitPrice != 2.00 || got.ExtendedPrice != 3.00 {
		t.Errorf("got %+v, want (1.00, 2.00, 3.00)", got)
	}
	if start != 1 {
		t.Errorf("price run start = %d, want 1", start)
	}
}

func TestExtractPricesTwo(t *testing.T) {
	tokens := []string{"123456", "desc", "PR", "12.50", "125.00"}
	got, _ := ExtractPrices(tokens)

	if got.InvoiceValue != 0 {
		t.Errorf("invoice value = %v, want 0 default", got.InvoiceValue)
	}
	if got.UnitPrice != 12.50 || got.ExtendedPrice != 125.00 {
		t.Errorf("got (%v, %v), want (12.50, 125.00)", got.UnitPrice, got.ExtendedPrice)
	}
}

func TestExtractPricesOneDegenerate(t *testing.T) {
	tokens := []string{"123456", "desc", "PR", "12.50"}
	got, _ := ExtractPrices(tokens)

	if got.InvoiceValue != 0 {
		t.Errorf("invoice value = %v, want 0", got.InvoiceValue)
	}
	if got.UnitPrice != got.ExtendedPrice || got.UnitPrice != 12.50 {
		t.Errorf("unit=%v extended=%v, want both 12.50", got.UnitPrice, got.ExtendedPrice)
	}
}

func TestExtractPricesNone(t *testing.T) {
	tokens := []string{"123456", "desc", "PR"}
	got, start := ExtractPrices(tokens)

	if got != (PriceFields{}) {
		t.Errorf("got %+v, want all zeros", got)
	}
	if start != len(tokens) {
		t.Errorf("price run start = %d, want %d", start, len(tokens))
	}
}

func TestExtractPricesStopsAtEmbeddedNumeric(t *testing.T) {
	// "6.00" inside the description is separated from the trailing run
	// by non-price tokens and must not be collected.
	tokens := []string{"123456", "6.00", "OZ", "Cups", "PR", "12.50", "125.00"}
	got, start := ExtractPrices(tokens)

	if got.InvoiceValue != 0 || got.UnitPrice != 12.50 || got.ExtendedPrice != 125.00 {
		t.Errorf("got %+v, want (0, 12.50, 125.00)", got)
	}
	if start != 5 {
		t.Errorf("price run start = %d, want 5", start)
	}
}

func TestExtractPricesSkipsTrailingJunk(t *testing.T) {
	// Text extraction sometimes leaves a stray flag after the prices.
	tokens := []string{"123456", "PR", "0.00", "12.50", "125.00", "N"}
	got, start := ExtractPrices(tokens)

	if got.InvoiceValue != 0.00 || got.UnitPrice != 12.50 || got.ExtendedPrice != 125.00 {
		t.Errorf("got %+v, want (0.00, 12.50, 125.00)", got)
	}
	if start != 2 {
		t.Errorf("price run start = %d, want 2", start)
	}
}

func TestPriceShape(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"12.50", true},
		{"0.00", true},
		{"1234.99", true},
		{"12.5", false},
		{"12.505", false},
		{".50", false},
		{"12", false},
		{"12,50", false},
		{"-12.50", false},
	}
	for _, tt := range tests {
		if got := priceRE.MatchString(tt.token); got != tt.want {
			t.Errorf("priceRE.MatchString(%q) = %v, want %v", tt.token, got, tt.want)
		}
	}
}

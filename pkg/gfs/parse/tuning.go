package parse

// Tuning holds the empirically tuned constants of the line heuristics.
// The window bounds and the brand length threshold were calibrated
// against a season of real invoices; they are exposed as configuration
// rather than re-derived.
type Tuning struct {
	// MinTokens is the minimum token count for a candidate item line.
	MinTokens int
	// CategoryWindowNear and CategoryWindowFar bound the backward scan
	// for the category code, counted from the end of the priced layout.
	CategoryWindowNear int
	CategoryWindowFar  int
	// BrandMaxLen is the exclusive length threshold under which an
	// unknown leading token is still treated as a brand.
	BrandMaxLen int
	// PackUnits are tokens that terminate the pack-size region.
	PackUnits []string
}

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		MinTokens:          8,
		CategoryWindowNear: 4,
		CategoryWindowFar:  10,
		BrandMaxLen:        8,
		PackUnits:          []string{"EA", "LB", "OZ", "FOZ", "CO", "CS"},
	}
}

func (t Tuning) isPackUnit(token string) bool {
	for _, u := range t.PackUnits {
		if token == u {
			return true
		}
	}
	return false
}

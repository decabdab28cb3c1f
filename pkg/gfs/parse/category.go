package parse

// unitIndex is the fixed position of the unit-of-measure token in the
// invoice layout (item code, qty ordered, qty shipped, unit, ...).
const unitIndex = 3

// LocateCategory scans backward for a registry code, starting just
// before the trailing price block and reaching at most
// CategoryWindowFar-CategoryWindowNear tokens deeper. The window is
// intentionally narrow so a category-like token inside the free-text
// description is not mistaken for the real category field; the match
// closest to the price block wins.
//
// priceStart is the index of the first trailing price token as returned
// by ExtractPrices. The full priced layout carries three price fields,
// so the window is anchored as if all three were present even when the
// extraction collapsed to fewer.
func LocateCategory(tokens []string, priceStart int, reg Registry, t Tuning) (code string, index int, ok bool) {
	end := priceStart + 3
	stop := end - t.CategoryWindowFar
	if stop < unitIndex+1 {
		stop = unitIndex + 1
	}
	for i := end - t.CategoryWindowNear; i > stop; i-- {
		if i >= 0 && i < len(tokens) && reg.Has(tokens[i]) {
			return tokens[i], i, true
		}
	}
	return "", 0, false
}

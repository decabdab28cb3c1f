package parse

import "regexp"

var itemCodeRE = regexp.MustCompile(`^\d{6}$`)

// IsItemLine is the structural pre-check applied before the field
// heuristics: the line must have at least minTokens tokens and start
// with a 6-digit item code. It is deliberately permissive; false
// positives are filtered later when no category code can be located.
func IsItemLine(tokens []string, minTokens int) bool {
	if len(tokens) < minTokens {
		return false
	}
	return itemCodeRE.MatchString(tokens[0])
}

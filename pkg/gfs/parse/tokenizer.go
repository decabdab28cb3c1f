package parse

import "strings"

// Tokenize splits one line of extracted text into whitespace-delimited
// tokens, discarding empty tokens and preserving order. An empty or
// whitespace-only line yields an empty sequence.
func Tokenize(line string) []string {
	return strings.Fields(line)
}

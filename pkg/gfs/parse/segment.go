package parse

import "strings"

// SegmentFields partitions the tokens between the unit field and the
// category code into pack size, brand, and description. The region has
// no delimiter; invoice layout convention puts the pack size first
// ("6x10 LB"), an optional brand next, and free text last.
//
// The pack-size boundary sits after the last token that contains an
// "x" (multiplicative pack notation) or equals a pack unit word. The
// first token after the boundary becomes the brand when it is a known
// brand or shorter than the brand length threshold; everything else
// joins into the description. This split is the dominant source of
// parse noise and is accepted as approximate.
func SegmentFields(middle []string, brands BrandSet, t Tuning) (packSize, brand, description string) {
	if len(middle) == 0 {
		return "", "", ""
	}

	packEnd := 0
	for i, token := range middle {
		if strings.Contains(token, "x") || t.isPackUnit(token) {
			packEnd = i + 1
		}
	}
	packSize = strings.Join(middle[:packEnd], " ")

	remaining := middle[packEnd:]
	if len(remaining) == 0 {
		return packSize, "", ""
	}
	if brands.Contains(remaining[0]) || len(remaining[0]) < t.BrandMaxLen {
		brand = remaining[0]
		description = strings.Join(remaining[1:], " ")
	} else {
		description = strings.Join(remaining, " ")
	}
	return packSize, brand, description
}

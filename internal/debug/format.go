package debug

import "github.com/ryanlewis/gridplot/internal/common"

// FormatGlyphs returns the glyph table keyed by kind name, for event payloads.
func FormatGlyphs(glyphs map[common.Kind]rune) map[string]string {
	out := make(map[string]string, len(glyphs))
	for k, r := range glyphs {
		out[k.String()] = string(r)
	}
	return out
}

// KindHistogram counts the cells carrying each label, keyed by kind name.
// Labels with no cells are left out.
func KindHistogram(cells []common.Kind) map[string]int {
	var counts [256]int
	for _, k := range cells {
		counts[k]++
	}
	out := make(map[string]int)
	for k, n := range counts {
		if n > 0 {
			out[common.Kind(k).String()] = n
		}
	}
	return out
}

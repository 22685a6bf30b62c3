package wrap

import "github.com/rivo/uniseg"

// TabWidth is the visual width, in terminal cells, a tab character
// advances to the next multiple of. Soft-wrap and alignment-column
// vertical motion both measure against this rather than counting a tab
// as one cell.
const TabWidth = 8

// MeasureWidth returns the visual (terminal-cell) width of s, segmenting
// by grapheme cluster and summing each cluster's East-Asian width via
// github.com/rivo/uniseg — needed because soft-wrap run lengths and
// alignment-column vertical motion are both measured in columns, not
// bytes or codepoints, and a single visual glyph may span multiple
// codepoints (combining marks, emoji with modifiers).
func MeasureWidth(s string) int {
	width := 0
	col := 0
	for len(s) > 0 {
		var cluster string
		cluster, s, _, _ = uniseg.FirstGraphemeClusterInString(s, -1)
		if cluster == "\t" {
			width += TabWidth - (col % TabWidth)
			col = width
			continue
		}
		w := uniseg.StringWidth(cluster)
		width += w
		col += w
	}
	return width
}

// graphemeClusters splits s into its grapheme clusters, in order.
func graphemeClusters(s string) []string {
	var out []string
	for len(s) > 0 {
		var cluster string
		cluster, s, _, _ = uniseg.FirstGraphemeClusterInString(s, -1)
		out = append(out, cluster)
	}
	return out
}

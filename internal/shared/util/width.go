package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// DisplayWidth returns the terminal column width of s. Tabs count as one
// column, wide East Asian runes and emoji as two.
func DisplayWidth(s string) int {
	if !strings.ContainsRune(s, '\t') {
		return runewidth.StringWidth(s)
	}
	width := 0
	for _, part := range strings.Split(s, "\t") {
		width += runewidth.StringWidth(part)
	}
	return width + strings.Count(s, "\t")
}

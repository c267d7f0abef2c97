package syntax

import "strings"

const DefaultIndentUnit = "\t"

// DetectIndentUnit guesses the file's indentation unit: a tab when the first
// indented line starts with one, otherwise the smallest space run found on
// an indented code line. Lines that continue a block comment are ignored.
func DetectIndentUnit(text []byte) string {
	smallest := 0
	for _, line := range strings.Split(string(text), "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || trimmed == line || strings.HasPrefix(trimmed, "*") {
			continue
		}
		if line[0] == '\t' {
			if smallest == 0 {
				return "\t"
			}
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if n > 0 && (smallest == 0 || n < smallest) {
			smallest = n
		}
	}
	if smallest == 0 {
		return DefaultIndentUnit
	}
	return strings.Repeat(" ", smallest)
}

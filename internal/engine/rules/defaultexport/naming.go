package defaultexport

import (
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"
)

const fallbackName = "namedFunction"

type Case uint8

const (
	CamelCase Case = iota
	PascalCase
)

// IdentifierFromFilename derives a binding name from a file's base name
// without extension. Runs of `-`, `_`, `.` and whitespace start a new word;
// characters that cannot appear in an identifier are dropped.
func IdentifierFromFilename(filename string, c Case) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "." || base == string(filepath.Separator) {
		base = ""
	}

	var b strings.Builder
	upperNext := false
	for _, r := range base {
		switch {
		case r == '-' || r == '_' || r == '.' || unicode.IsSpace(r):
			upperNext = true
		case isIdentRune(r):
			if upperNext {
				r = unicode.ToUpper(r)
			}
			upperNext = false
			b.WriteRune(r)
		}
	}

	name := b.String()
	if name == "" {
		return fallbackName
	}
	first, size := utf8.DecodeRuneInString(name)
	switch c {
	case CamelCase:
		first = unicode.ToLower(first)
	case PascalCase:
		first = unicode.ToUpper(first)
	}
	name = string(first) + name[size:]
	if unicode.IsDigit(first) {
		name = "_" + name
	}
	return name
}

func isIdentRune(r rune) bool {
	return r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

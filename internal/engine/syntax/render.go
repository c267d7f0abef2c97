package syntax

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Replacement substitutes Text for the source range [Start, End) when
// rendering.
type Replacement struct {
	Start int
	End   int
	Text  string
}

type piece struct {
	text       string
	start, end int
}

// RenderFlat renders the source range [start, end) on a single line.
// Comments are dropped, tokens matching skip are dropped, and every gap
// between emitted pieces that held whitespace or a comment becomes one space.
func (s *Source) RenderFlat(start, end int, skip func(Token) bool, repls ...Replacement) string {
	sort.Slice(repls, func(i, j int) bool { return repls[i].Start < repls[j].Start })

	pieces := make([]piece, 0, 16)
	ri := 0
	for _, tok := range s.tokensIn(s.tokens, start, end) {
		for ri < len(repls) && repls[ri].End <= tok.Start {
			pieces = append(pieces, piece{text: repls[ri].Text, start: repls[ri].Start, end: repls[ri].End})
			ri++
		}
		if ri < len(repls) && tok.Start >= repls[ri].Start && tok.End <= repls[ri].End {
			continue
		}
		if skip != nil && skip(tok) {
			continue
		}
		pieces = append(pieces, piece{text: tok.Value, start: tok.Start, end: tok.End})
	}
	for ; ri < len(repls); ri++ {
		pieces = append(pieces, piece{text: repls[ri].Text, start: repls[ri].Start, end: repls[ri].End})
	}
	return s.joinPieces(pieces, nil)
}

// FlattenLiteral renders an object or array literal on one line: whitespace
// runs collapse to one space, trailing commas before `}` or `]` are removed
// and no space is kept just inside brackets.
func (s *Source) FlattenLiteral(n *sitter.Node) string {
	toks := s.TokensOf(n)
	pieces := make([]piece, 0, len(toks))
	for i, tok := range toks {
		if tok.Is(",") && i+1 < len(toks) && (toks[i+1].Is("}") || toks[i+1].Is("]")) {
			continue
		}
		pieces = append(pieces, piece{text: tok.Value, start: tok.Start, end: tok.End})
	}
	return s.joinPieces(pieces, func(prev, next piece) bool {
		return prev.text == "{" || prev.text == "[" || next.text == "}" || next.text == "]"
	})
}

// Flattenable reports whether FlattenLiteral would put n on one line without
// dropping comments. A token spanning lines, such as a multiline template
// string, cannot be flattened.
func (s *Source) Flattenable(n *sitter.Node) bool {
	if s.CommentsInside(n) {
		return false
	}
	for _, tok := range s.TokensOf(n) {
		if strings.ContainsRune(tok.Value, '\n') {
			return false
		}
	}
	return true
}

func (s *Source) joinPieces(pieces []piece, tight func(prev, next piece) bool) string {
	var b strings.Builder
	for i, p := range pieces {
		if i > 0 {
			prev := pieces[i-1]
			if s.gapIsBlank(prev.end, p.start) && (tight == nil || !tight(prev, p)) {
				b.WriteByte(' ')
			}
		}
		b.WriteString(p.text)
	}
	return b.String()
}

// gapIsBlank reports whether the source between two offsets contains
// whitespace or a comment.
func (s *Source) gapIsBlank(from, to int) bool {
	if from >= to {
		return false
	}
	if strings.ContainsAny(string(s.Text[from:to]), " \t\r\n\f\v") {
		return true
	}
	return len(s.CommentsBetween(from, to)) > 0
}

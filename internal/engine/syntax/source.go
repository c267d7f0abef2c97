// Package syntax is the read-only query layer over one parsed file: its
// token stream, comments, lines and node positions.
package syntax

import (
	"sort"
	"strings"

	"arrowstyle/internal/engine/parser"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Position is a 1-based line and 0-based byte column.
type Position struct {
	Line   int
	Column int
}

type Source struct {
	// Path is the physical file on disk; empty for stdin buffers.
	Path string
	// Filename is the logical name, which may be virtual.
	Filename string
	Language parser.Language
	Text     []byte

	root       *sitter.Node
	tokens     []Token
	comments   []Token
	lineStarts []int
}

// NewSource indexes tree. The Source borrows tree and must not outlive it.
func NewSource(path, filename string, tree *parser.Tree) *Source {
	if filename == "" {
		filename = path
	}
	root := tree.Root()
	tokens, comments := tokenize(root, tree.Content)
	return &Source{
		Path:       path,
		Filename:   filename,
		Language:   tree.Language,
		Text:       tree.Content,
		root:       root,
		tokens:     tokens,
		comments:   comments,
		lineStarts: computeLineStarts(tree.Content),
	}
}

func computeLineStarts(text []byte) []int {
	starts := []int{0}
	for i, b := range text {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (s *Source) Root() *sitter.Node { return s.root }

func (s *Source) Tokens() []Token { return s.tokens }

func (s *Source) Comments() []Token { return s.comments }

// PhysicalFilename returns Path, falling back to the logical name.
func (s *Source) PhysicalFilename() string {
	if s.Path != "" {
		return s.Path
	}
	return s.Filename
}

// Slice returns the source text between two byte offsets.
func (s *Source) Slice(start, end int) string {
	return string(s.Text[start:end])
}

// TextOf returns the raw source text of n.
func (s *Source) TextOf(n *sitter.Node) string {
	return string(s.Text[n.StartByte():n.EndByte()])
}

// LineCount returns the number of lines, counting a trailing partial line.
func (s *Source) LineCount() int { return len(s.lineStarts) }

// Line returns the text of the 1-based line without its terminator.
func (s *Source) Line(line int) string {
	if line < 1 || line > len(s.lineStarts) {
		return ""
	}
	start := s.lineStarts[line-1]
	end := len(s.Text)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return strings.TrimSuffix(string(s.Text[start:end]), "\r")
}

func (s *Source) Lines() []string {
	lines := make([]string, len(s.lineStarts))
	for i := range lines {
		lines[i] = s.Line(i + 1)
	}
	return lines
}

// PositionOf converts a byte offset into a line/column pair.
func (s *Source) PositionOf(offset int) Position {
	idx := sort.Search(len(s.lineStarts), func(i int) bool { return s.lineStarts[i] > offset }) - 1
	if idx < 0 {
		idx = 0
	}
	return Position{Line: idx + 1, Column: offset - s.lineStarts[idx]}
}

// LineStart returns the byte offset at which the line containing offset begins.
func (s *Source) LineStart(offset int) int {
	pos := s.PositionOf(offset)
	return s.lineStarts[pos.Line-1]
}

// Loc returns the start and end positions of n.
func (s *Source) Loc(n *sitter.Node) (Position, Position) {
	return s.PositionOf(int(n.StartByte())), s.PositionOf(int(n.EndByte()))
}

func (s *Source) IsMultiline(n *sitter.Node) bool {
	return n.StartPosition().Row != n.EndPosition().Row
}

// Indentation returns the leading whitespace of the line containing offset.
func (s *Source) Indentation(offset int) string {
	line := s.Line(s.PositionOf(offset).Line)
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// TokensOf returns the code tokens inside n.
func (s *Source) TokensOf(n *sitter.Node) []Token {
	return s.tokensIn(s.tokens, int(n.StartByte()), int(n.EndByte()))
}

func (s *Source) tokensIn(list []Token, start, end int) []Token {
	lo := sort.Search(len(list), func(i int) bool { return list[i].Start >= start })
	hi := lo
	for hi < len(list) && list[hi].End <= end {
		hi++
	}
	return list[lo:hi]
}

// FirstToken returns the (skip+1)-th code token of n.
func (s *Source) FirstToken(n *sitter.Node, skip int) (Token, bool) {
	toks := s.TokensOf(n)
	if skip < 0 || skip >= len(toks) {
		return Token{}, false
	}
	return toks[skip], true
}

func (s *Source) LastToken(n *sitter.Node) (Token, bool) {
	toks := s.TokensOf(n)
	if len(toks) == 0 {
		return Token{}, false
	}
	return toks[len(toks)-1], true
}

// TokenBefore returns the last code token ending at or before offset.
func (s *Source) TokenBefore(offset int) (Token, bool) {
	idx := sort.Search(len(s.tokens), func(i int) bool { return s.tokens[i].End > offset }) - 1
	if idx < 0 {
		return Token{}, false
	}
	return s.tokens[idx], true
}

// TokenAfter returns the first code token starting at or after offset.
func (s *Source) TokenAfter(offset int) (Token, bool) {
	idx := sort.Search(len(s.tokens), func(i int) bool { return s.tokens[i].Start >= offset })
	if idx >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[idx], true
}

// CommentsBetween returns comments lying entirely within [start, end).
func (s *Source) CommentsBetween(start, end int) []Token {
	if start >= end {
		return nil
	}
	return s.tokensIn(s.comments, start, end)
}

// CommentsExistBetween reports whether any comment sits between the end of
// a and the start of b.
func (s *Source) CommentsExistBetween(a, b Token) bool {
	return len(s.CommentsBetween(a.End, b.Start)) > 0
}

// CommentsInside reports whether any comment lies within n.
func (s *Source) CommentsInside(n *sitter.Node) bool {
	return len(s.CommentsBetween(int(n.StartByte()), int(n.EndByte()))) > 0
}

// LastTokenIncludingComments returns the final token or comment of the file.
func (s *Source) LastTokenIncludingComments() (Token, bool) {
	var last Token
	found := false
	if n := len(s.tokens); n > 0 {
		last, found = s.tokens[n-1], true
	}
	if n := len(s.comments); n > 0 && (!found || s.comments[n-1].End > last.End) {
		last, found = s.comments[n-1], true
	}
	return last, found
}

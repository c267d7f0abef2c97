package syntax

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type TokenKind uint8

const (
	Punctuator TokenKind = iota
	Keyword
	Identifier
	String
	Numeric
	Template
	RegularExpression
	JSXText
	Comment
	Other
)

var tokenKindNames = [...]string{
	Punctuator:        "Punctuator",
	Keyword:           "Keyword",
	Identifier:        "Identifier",
	String:            "String",
	Numeric:           "Numeric",
	Template:          "Template",
	RegularExpression: "RegularExpression",
	JSXText:           "JSXText",
	Comment:           "Comment",
	Other:             "Other",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "Unknown"
}

// Token is one lexical unit. Start and End are byte offsets into the source.
type Token struct {
	Kind  TokenKind
	Type  string
	Value string
	Start int
	End   int
}

func (t Token) Is(value string) bool {
	return t.Kind != Comment && t.Kind != String && t.Kind != Template && t.Value == value
}

func (t Token) IsComment() bool { return t.Kind == Comment }

// atomicKinds are named nodes kept whole even though they have children.
var atomicKinds = map[string]TokenKind{
	"comment":         Comment,
	"html_comment":    Comment,
	"string":          String,
	"template_string": Template,
	"regex":           RegularExpression,
	"jsx_text":        JSXText,
}

var keywordLeaves = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true, "this": true, "super": true,
}

// tokenize flattens the tree into code tokens and comments, both in
// document order. Zero-width and MISSING nodes are dropped.
func tokenize(root *sitter.Node, src []byte) (tokens, comments []Token) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.IsMissing() {
			return
		}
		kind := n.Kind()
		atomicKind, atomic := atomicKinds[kind]
		if !atomic && n.ChildCount() > 0 {
			for i := uint(0); i < n.ChildCount(); i++ {
				if child := n.Child(i); child != nil {
					walk(child)
				}
			}
			return
		}

		start, end := int(n.StartByte()), int(n.EndByte())
		if start >= end {
			return
		}
		tok := Token{Type: kind, Start: start, End: end}
		switch {
		case atomic:
			tok.Kind = atomicKind
		case !n.IsNamed():
			tok.Kind = classifyAnonymous(kind)
		case strings.HasSuffix(kind, "identifier"):
			tok.Kind = Identifier
		case kind == "number":
			tok.Kind = Numeric
		case keywordLeaves[kind]:
			tok.Kind = Keyword
		default:
			tok.Kind = Other
		}

		if tok.Kind == JSXText {
			text := string(src[start:end])
			trimmed := strings.TrimSpace(text)
			if trimmed == "" {
				return
			}
			tok.Start = start + strings.Index(text, trimmed)
			tok.End = tok.Start + len(trimmed)
		}
		tok.Value = string(src[tok.Start:tok.End])

		if tok.Kind == Comment {
			comments = append(comments, tok)
		} else {
			tokens = append(tokens, tok)
		}
	}
	walk(root)
	return tokens, comments
}

func classifyAnonymous(kind string) TokenKind {
	if kind == "" {
		return Other
	}
	c := kind[0]
	if c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		return Keyword
	}
	return Punctuator
}

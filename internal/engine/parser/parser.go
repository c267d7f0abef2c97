// # internal/engine/parser/parser.go
package parser

import (
	"fmt"

	"arrowstyle/internal/core/errors"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type Parser struct {
	loader *GrammarLoader
	pools  map[Language]*ParserPool
}

// Tree is a parsed file. Close releases the underlying tree-sitter tree.
type Tree struct {
	Language Language
	Content  []byte
	tree     *sitter.Tree
}

func (t *Tree) Root() *sitter.Node {
	return t.tree.RootNode()
}

func (t *Tree) Close() {
	if t != nil && t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader: loader,
		pools:  make(map[Language]*ParserPool),
	}
	for lang, grammar := range loader.languages {
		p.pools[lang] = NewParserPool(lang, grammar)
	}
	return p
}

func (p *Parser) Loader() *GrammarLoader {
	return p.loader
}

func (p *Parser) IsSupportedPath(path string) bool {
	return p.loader.DetectLanguage(path) != ""
}

// ParseFile parses content with the grammar selected by path's extension.
// A tree containing syntax errors is closed and reported as CodeParse.
func (p *Parser) ParseFile(path string, content []byte) (*Tree, error) {
	lang := p.loader.DetectLanguage(path)
	if lang == "" {
		return nil, errors.AddContext(errors.New(errors.CodeNotSupported, "unsupported file type"), errors.CtxPath, path)
	}

	tree, err := p.Parse(lang, content)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}

	if se := FirstSyntaxError(tree.Root()); se != nil {
		tree.Close()
		err := errors.New(errors.CodeParse, fmt.Sprintf("syntax error at %d:%d (%s)", se.Line, se.Column, se.Kind))
		err = errors.AddContext(err, errors.CtxPath, path)
		return nil, errors.AddContext(err, errors.CtxLanguage, string(lang))
	}
	return tree, nil
}

func (p *Parser) Parse(lang Language, content []byte) (*Tree, error) {
	pool := p.pools[lang]
	if pool == nil {
		return nil, errors.New(errors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	sp := pool.Get()
	defer pool.Put(sp)

	tree := sp.Parse(content, nil)
	if tree == nil {
		return nil, errors.New(errors.CodeInternal, "parse failed")
	}
	return &Tree{Language: lang, Content: content, tree: tree}, nil
}

// FirstSyntaxError returns the first ERROR or MISSING node in document order,
// or nil when the tree is clean.
func FirstSyntaxError(root *sitter.Node) *SyntaxError {
	if root == nil || !root.HasError() {
		return nil
	}
	var found *SyntaxError
	var visit func(n *sitter.Node) bool
	visit = func(n *sitter.Node) bool {
		if n.IsError() || n.IsMissing() {
			pos := n.StartPosition()
			kind := n.Kind()
			if n.IsMissing() {
				kind = "missing " + kind
			}
			found = &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Kind: kind}
			return true
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			child := n.Child(i)
			if child == nil || (!child.HasError() && !child.IsMissing()) {
				continue
			}
			if visit(child) {
				return true
			}
		}
		return false
	}
	visit(root)
	if found == nil {
		pos := root.StartPosition()
		found = &SyntaxError{Line: int(pos.Row) + 1, Column: int(pos.Column) + 1, Kind: "ERROR"}
	}
	return found
}

package rules

import (
	"context"
	"testing"

	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/parser"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"arrow-return-style", "no-export-default-arrow"}, r.Names())
	for _, rule := range r.All() {
		meta := rule.Meta()
		assert.True(t, meta.Fixable, meta.Name)
		assert.NotEmpty(t, meta.Messages, meta.Name)
		assert.NotEmpty(t, meta.Schema, meta.Name)
		assert.Contains(t, meta.NodeKinds, "arrow_function")
	}
}

func TestBuiltinRulesTogether(t *testing.T) {
	loader, err := parser.NewGrammarLoader()
	require.NoError(t, err)

	configured := make([]lint.ConfiguredRule, 0, 2)
	for _, rule := range Builtin() {
		configured = append(configured, lint.ConfiguredRule{Rule: rule})
	}
	l := lint.NewLinter(parser.NewParser(loader), nil, configured)

	code := "export default () => {\n  return 'x'\n}\n"
	res, err := l.Fix(context.Background(), lint.File{Path: "get-value.ts", Content: []byte(code)})
	require.NoError(t, err)
	assert.Equal(t, "const getValue = () => 'x'\n\nexport default getValue\n", string(res.Output))
	assert.Empty(t, res.Remaining)
	assert.Equal(t, 2, res.Passes)
}

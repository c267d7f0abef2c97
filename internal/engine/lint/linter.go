package lint

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"arrowstyle/internal/core/errors"
	"arrowstyle/internal/engine/fix"
	"arrowstyle/internal/engine/parser"
	"arrowstyle/internal/engine/syntax"
	"arrowstyle/internal/shared/observability"

	sitter "github.com/tree-sitter/go-tree-sitter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultMaxFixPasses = 10

// ConfiguredRule is a rule together with the options it runs with.
type ConfiguredRule struct {
	Rule    Rule
	Options map[string]any
}

type Linter struct {
	parser    *parser.Parser
	session   *Session
	rules     []ConfiguredRule
	maxPasses int
}

type LinterOption func(*Linter)

func WithMaxFixPasses(n int) LinterOption {
	return func(l *Linter) {
		if n > 0 {
			l.maxPasses = n
		}
	}
}

func NewLinter(p *parser.Parser, session *Session, rules []ConfiguredRule, opts ...LinterOption) *Linter {
	if session == nil {
		session = NewSession(nil)
	}
	l := &Linter{
		parser:    p,
		session:   session,
		rules:     append([]ConfiguredRule(nil), rules...),
		maxPasses: DefaultMaxFixPasses,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Linter) Session() *Session { return l.session }

func (l *Linter) Parser() *parser.Parser { return l.parser }

// File identifies a buffer to lint. Path is the physical file and may be
// empty for stdin; Filename is the logical name used for language detection
// and naming.
type File struct {
	Path     string
	Filename string
	Content  []byte
}

func (f File) name() string {
	if f.Filename != "" {
		return f.Filename
	}
	return f.Path
}

// FixResult is the outcome of fixing one file.
type FixResult struct {
	Output    []byte
	Changed   bool
	Passes    int
	Applied   int
	Remaining []Diagnostic
}

// Lint runs every rule once over f. Syntax errors are returned as
// CodeParse and no rule runs.
func (l *Linter) Lint(ctx context.Context, f File) ([]Diagnostic, error) {
	started := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "lint.file", trace.WithAttributes(
		attribute.String("file", f.name()),
	))
	defer span.End()

	diags, lang, err := l.lintOnce(ctx, f)
	l.record(span, lang, started, diags, err)
	return diags, err
}

// Fix lints f and applies fixes until no more apply or the pass limit is
// reached. Edit sets of one pass that overlap an earlier set are retried on
// the next pass.
func (l *Linter) Fix(ctx context.Context, f File) (FixResult, error) {
	started := time.Now()
	ctx, span := observability.Tracer.Start(ctx, "lint.file", trace.WithAttributes(
		attribute.String("file", f.name()),
		attribute.Bool("fix", true),
	))
	defer span.End()

	res := FixResult{Output: f.Content}
	current := f
	var lang parser.Language
	for res.Passes < l.maxPasses {
		diags, passLang, applied, next, err := l.fixPass(ctx, current, res.Passes+1)
		if err != nil {
			l.record(span, passLang, started, nil, err)
			return res, err
		}
		lang = passLang
		res.Remaining = diags
		if applied == 0 {
			break
		}
		if err := l.parses(f.name(), next); err != nil {
			slog.Warn("fix produced unparsable output, discarding pass", "path", f.name(), "pass", res.Passes+1, "error", err)
			break
		}
		res.Passes++
		res.Applied += applied
		res.Output = next
		current.Content = next
	}

	if res.Passes == l.maxPasses {
		diags, _, err := l.lintOnce(ctx, current)
		if err == nil {
			res.Remaining = diags
		}
	}
	res.Changed = !bytes.Equal(res.Output, f.Content)
	observability.FixPasses.Observe(float64(res.Passes))
	span.SetAttributes(attribute.Int("fix.passes", res.Passes), attribute.Int("fix.applied", res.Applied))
	l.record(span, lang, started, res.Remaining, nil)
	return res, nil
}

func (l *Linter) fixPass(ctx context.Context, f File, pass int) ([]Diagnostic, parser.Language, int, []byte, error) {
	ctx, span := observability.Tracer.Start(ctx, "lint.fix_pass", trace.WithAttributes(attribute.Int("pass", pass)))
	defer span.End()

	diags, lang, err := l.lintOnce(ctx, f)
	if err != nil {
		span.RecordError(err)
		return nil, lang, 0, nil, err
	}

	sets := make([]*fix.EditSet, 0, len(diags))
	owners := make([]string, 0, len(diags))
	for _, d := range diags {
		if d.Fix.Len() == 0 {
			continue
		}
		sets = append(sets, d.Fix)
		owners = append(owners, d.Rule)
	}
	if len(sets) == 0 {
		return diags, lang, 0, nil, nil
	}

	out, outcome := fix.Merge(f.Content, sets)
	for _, idx := range outcome.Applied {
		observability.FixesAppliedTotal.WithLabelValues(owners[idx]).Inc()
	}
	span.SetAttributes(attribute.Int("applied", len(outcome.Applied)), attribute.Int("skipped", len(outcome.Skipped)))
	return diags, lang, len(outcome.Applied), out, nil
}

func (l *Linter) parses(name string, content []byte) error {
	tree, err := l.parser.ParseFile(name, content)
	if err != nil {
		return err
	}
	tree.Close()
	return nil
}

func (l *Linter) lintOnce(ctx context.Context, f File) ([]Diagnostic, parser.Language, error) {
	name := f.name()
	tree, err := l.parser.ParseFile(name, f.Content)
	if err != nil {
		return nil, l.parser.Loader().DetectLanguage(name), err
	}
	defer tree.Close()

	src := syntax.NewSource(f.Path, f.Filename, tree)
	contexts := make([]*Context, len(l.rules))
	byKind := make(map[string][]int)
	for i, cr := range l.rules {
		meta := cr.Rule.Meta()
		contexts[i] = newContext(ctx, cr.Rule, src, NewOptions(meta.Defaults, cr.Options), l.session)
		for _, kind := range meta.NodeKinds {
			byKind[kind] = append(byKind[kind], i)
		}
	}

	syntax.Walk(src.Root(), func(n *sitter.Node) bool {
		for _, i := range byKind[n.Kind()] {
			l.check(contexts[i], n)
		}
		return true
	})

	var diags []Diagnostic
	for _, c := range contexts {
		diags = append(diags, c.diags...)
	}
	SortDiagnostics(diags)
	return diags, tree.Language, nil
}

// check runs one rule on one node. A rule that panics loses only that node.
func (l *Linter) check(c *Context, n *sitter.Node) {
	defer func() {
		if r := recover(); r != nil {
			pos := c.Source.PositionOf(int(n.StartByte()))
			slog.Debug("rule aborted on node", "rule", c.meta.Name, "path", c.Source.Filename, "line", pos.Line, "panic", fmt.Sprint(r))
		}
	}()
	c.rule.Check(c, n)
}

func (l *Linter) record(span trace.Span, lang parser.Language, started time.Time, diags []Diagnostic, err error) {
	label := string(lang)
	if label == "" {
		label = "unknown"
	}
	observability.LintDuration.WithLabelValues(label).Observe(time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.IsCode(err, errors.CodeParse) {
			observability.ParseErrorsTotal.Inc()
		}
		return
	}
	observability.FilesLintedTotal.WithLabelValues(label).Inc()
	for _, d := range diags {
		observability.DiagnosticsTotal.WithLabelValues(d.Rule, d.MessageID).Inc()
	}
	span.SetAttributes(attribute.Int("diagnostics", len(diags)))
}

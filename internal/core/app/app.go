package app

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"arrowstyle/internal/core/config"
	"arrowstyle/internal/core/ports"
	"arrowstyle/internal/data/cache"
	"arrowstyle/internal/engine/formatter"
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/parser"
	"arrowstyle/internal/engine/rules/returnstyle"
	"arrowstyle/internal/shared/util"
)

// App owns everything one lint run needs: the parsed config, the enabled
// rules, the shared lint session and the optional result cache.
type App struct {
	Config *config.Config
	Paths  config.ResolvedPaths
	Parser *parser.Parser

	registry  *lint.Registry
	cache     ports.ResultCache
	overrides func(*config.Config)

	mu        sync.RWMutex
	linter    *lint.Linter
	session   *lint.Session
	include   *util.GlobSet
	exclude   *util.GlobSet
	warnings  []string
	cacheHash string

	// Content hash of the last version of each file this app linted or wrote.
	seenMu sync.Mutex
	seen   map[string]string
}

type Option func(*App)

// WithCache sets the result cache. Without it every file is parsed.
func WithCache(c ports.ResultCache) Option {
	return func(a *App) { a.cache = c }
}

// WithConfigOverrides registers fn to run on every config passed to Reload,
// so command-line settings survive config file edits in watch mode.
func WithConfigOverrides(fn func(*config.Config)) Option {
	return func(a *App) { a.overrides = fn }
}

// WithFormatterWorker replaces the worker built from the config.
func WithFormatterWorker(w formatter.Worker) Option {
	return func(a *App) { a.session = lint.NewSession(formatter.NewClient(w)) }
}

func New(cfg *config.Config, paths config.ResolvedPaths, registry *lint.Registry, opts ...Option) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if registry == nil {
		return nil, fmt.Errorf("rule registry is required")
	}
	loader, err := parser.NewGrammarLoader()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Paths:    paths,
		Parser:   parser.NewParser(loader),
		registry: registry,
		seen:     make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.configure(cfg); err != nil {
		return nil, err
	}
	return a, nil
}

// OpenCache opens the sqlite result cache configured in cfg, or returns nil
// when caching is disabled.
func OpenCache(cfg *config.Config, paths config.ResolvedPaths) (ports.ResultCache, error) {
	if !cfg.CacheEnabled() {
		return nil, nil
	}
	store, err := cache.Open(paths.CachePath, cfg.Cache.BusyTimeout)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Reload swaps in a new config. The session, and with it the formatter
// worker and its caches, is kept unless rule or formatter settings changed.
func (a *App) Reload(cfg *config.Config) error {
	if a.overrides != nil {
		a.overrides(cfg)
	}
	return a.configure(cfg)
}

func (a *App) configure(cfg *config.Config) error {
	include, err := util.CompileGlobs(cfg.Include)
	if err != nil {
		return fmt.Errorf("invalid include pattern: %w", err)
	}
	exclude, err := util.CompileGlobs(cfg.Exclude)
	if err != nil {
		return fmt.Errorf("invalid exclude pattern: %w", err)
	}

	rules, warnings := a.configuredRules(cfg)
	for _, w := range warnings {
		slog.Warn("config warning", "warning", w)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	session := a.session
	if session == nil || (a.Config != nil && a.Config != cfg && !sameFormatter(a.Config, cfg)) {
		if session != nil {
			if err := session.Close(); err != nil {
				slog.Debug("closing previous formatter session", "error", err)
			}
		}
		session = lint.NewSession(formatter.NewClient(a.formatterWorker(cfg, rules)))
	}

	a.Config = cfg
	a.session = session
	a.include = include
	a.exclude = exclude
	a.warnings = warnings
	a.cacheHash = cfg.Hash()
	a.linter = lint.NewLinter(a.Parser, session, rules, lint.WithMaxFixPasses(cfg.MaxFixPasses))
	return nil
}

// configuredRules returns the enabled rules with schema-checked options.
func (a *App) configuredRules(cfg *config.Config) ([]lint.ConfiguredRule, []string) {
	var warnings []string
	for _, name := range util.SortedStringKeys(cfg.Rules) {
		if _, ok := a.registry.Get(name); !ok {
			warnings = append(warnings, fmt.Sprintf("unknown rule %q in config", name))
		}
	}

	rules := make([]lint.ConfiguredRule, 0, len(a.registry.Names()))
	for _, rule := range a.registry.All() {
		meta := rule.Meta()
		if !cfg.RuleEnabled(meta.Name) {
			continue
		}
		options, optionWarnings := config.ValidateRuleOptions(meta.Name, meta.Schema, cfg.RuleOptions(meta.Name))
		for _, w := range optionWarnings {
			warnings = append(warnings, w.String())
		}
		rules = append(rules, lint.ConfiguredRule{Rule: rule, Options: options})
	}
	return rules, warnings
}

// formatterWorker starts a subprocess worker only when an enabled rule asks
// for formatter-backed measurement.
func (a *App) formatterWorker(cfg *config.Config, rules []lint.ConfiguredRule) formatter.Worker {
	wanted := false
	for _, r := range rules {
		if v, ok := r.Options[returnstyle.OptUsePrettier].(bool); ok && v {
			wanted = true
			break
		}
	}
	if !wanted {
		return formatter.Disabled{}
	}

	command := cfg.Formatter.Command
	if len(command) == 0 {
		script, err := formatter.MaterializeWorker(a.Paths.WorkerDir)
		if err != nil {
			slog.Warn("formatter worker unavailable, using length heuristic", "error", err)
			return formatter.Disabled{}
		}
		command = formatter.DefaultCommand(script)
	}
	return formatter.NewSubprocess(command, formatter.SubprocessOptions{
		Dir:         a.Paths.ProjectRoot,
		Timeout:     cfg.Formatter.Timeout,
		RestartRate: cfg.Formatter.RestartRate,
	})
}

func sameFormatter(a, b *config.Config) bool {
	return a.Formatter.Timeout == b.Formatter.Timeout &&
		a.Formatter.RestartRate == b.Formatter.RestartRate &&
		a.Hash() == b.Hash()
}

// Warnings returns config problems found while building the rule set.
func (a *App) Warnings() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := append([]string(nil), a.warnings...)
	sort.Strings(out)
	return out
}

func (a *App) current() (*lint.Linter, *lint.Session, string) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.linter, a.session, a.cacheHash
}

func (a *App) Close() error {
	a.mu.Lock()
	session := a.session
	a.session = nil
	a.mu.Unlock()

	var firstErr error
	if session != nil {
		if err := session.Close(); err != nil {
			firstErr = err
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

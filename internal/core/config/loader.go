package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"arrowstyle/internal/core/errors"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// CandidateFiles are probed in order by Discover.
var CandidateFiles = []string{DefaultFileName, "arrowstyle.yaml", "arrowstyle.yml", ".arrowstyle.toml"}

// Load reads a TOML or YAML config file, chosen by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.CodeNotFound, "config file not found")
		}
		return nil, err
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode yaml config"), errors.CtxPath, path)
		}
	default:
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, errors.AddContext(errors.Wrap(err, errors.CodeValidationError, "decode toml config"), errors.CtxPath, path)
		}
	}

	applyDefaults(&cfg)
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return &cfg, nil
}

// Discover walks up from dir looking for a config file. It returns the
// defaults and an empty path when none exists.
func Discover(dir string) (*Config, string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", err
	}
	for {
		for _, name := range CandidateFiles {
			candidate := filepath.Join(abs, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				cfg, err := Load(candidate)
				return cfg, candidate, err
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	return Default(), "", nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if len(cfg.Include) == 0 {
		cfg.Include = append([]string(nil), DefaultInclude...)
	}
	if cfg.Exclude == nil {
		cfg.Exclude = append([]string(nil), DefaultExclude...)
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxFixPasses <= 0 {
		cfg.MaxFixPasses = DefaultMaxFixPasses
	}
	if cfg.Rules == nil {
		cfg.Rules = make(map[string]RuleConfig)
	}
	if cfg.Formatter.Timeout <= 0 {
		cfg.Formatter.Timeout = 2 * time.Second
	}
	if cfg.Formatter.RestartRate <= 0 {
		cfg.Formatter.RestartRate = 1
	}
	if strings.TrimSpace(cfg.Cache.Path) == "" {
		cfg.Cache.Path = DefaultCachePath
	}
	if cfg.Cache.BusyTimeout <= 0 {
		cfg.Cache.BusyTimeout = 5 * time.Second
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
}

func normalize(cfg *Config) {
	cfg.Include = normalizePatterns(cfg.Include)
	cfg.Exclude = normalizePatterns(cfg.Exclude)
	cfg.Cache.Path = strings.TrimSpace(cfg.Cache.Path)
	cfg.Observability.MetricsAddr = strings.TrimSpace(cfg.Observability.MetricsAddr)
	cfg.Observability.OTLPEndpoint = strings.TrimSpace(cfg.Observability.OTLPEndpoint)

	command := make([]string, 0, len(cfg.Formatter.Command))
	for _, arg := range cfg.Formatter.Command {
		if arg = strings.TrimSpace(arg); arg != "" {
			command = append(command, arg)
		}
	}
	cfg.Formatter.Command = command

	rules := make(map[string]RuleConfig, len(cfg.Rules))
	for name, rc := range cfg.Rules {
		rules[strings.TrimSpace(name)] = rc
	}
	cfg.Rules = rules
}

func normalizePatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	seen := make(map[string]bool, len(patterns))
	for _, p := range patterns {
		p = filepath.ToSlash(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

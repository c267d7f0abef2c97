package config

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFileName     = "arrowstyle.toml"
	DefaultCachePath    = ".arrowstyle/cache.db"
	DefaultMaxFixPasses = 10
)

var DefaultInclude = []string{"**/*.{js,jsx,mjs,cjs,ts,tsx,mts,cts}"}

var DefaultExclude = []string{"**/node_modules/**", "**/dist/**", "**/build/**", "**/.git/**"}

type Config struct {
	Version       int                   `toml:"version" yaml:"version" json:"version"`
	Include       []string              `toml:"include" yaml:"include" json:"include"`
	Exclude       []string              `toml:"exclude" yaml:"exclude" json:"exclude"`
	Concurrency   int                   `toml:"concurrency" yaml:"concurrency" json:"concurrency"`
	MaxFixPasses  int                   `toml:"max_fix_passes" yaml:"max_fix_passes" json:"max_fix_passes"`
	Rules         map[string]RuleConfig `toml:"rules" yaml:"rules" json:"rules"`
	Formatter     Formatter             `toml:"formatter" yaml:"formatter" json:"formatter"`
	Cache         Cache                 `toml:"cache" yaml:"cache" json:"cache"`
	Watch         Watch                 `toml:"watch" yaml:"watch" json:"watch"`
	Observability Observability         `toml:"observability" yaml:"observability" json:"observability"`
}

type RuleConfig struct {
	Enabled *bool          `toml:"enabled" yaml:"enabled" json:"enabled"`
	Options map[string]any `toml:"options,omitempty" yaml:"options,omitempty" json:"options,omitempty"`
}

// Formatter configures the external formatter worker used by rules that
// opt into formatter-backed measurement.
type Formatter struct {
	Command     []string      `toml:"command,omitempty" yaml:"command,omitempty" json:"command,omitempty"`
	Timeout     time.Duration `toml:"timeout" yaml:"timeout" json:"timeout"`
	RestartRate float64       `toml:"restart_rate" yaml:"restart_rate" json:"restart_rate"`
}

type Cache struct {
	Enabled     *bool         `toml:"enabled" yaml:"enabled" json:"enabled"`
	Path        string        `toml:"path" yaml:"path" json:"path"`
	BusyTimeout time.Duration `toml:"busy_timeout" yaml:"busy_timeout" json:"busy_timeout"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce" yaml:"debounce" json:"debounce"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr" yaml:"metrics_addr" json:"metrics_addr"`
	OTLPEndpoint string `toml:"otlp_endpoint" yaml:"otlp_endpoint" json:"otlp_endpoint"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	normalize(cfg)
	return cfg
}

// RuleEnabled reports whether the named rule runs. Rules without an entry are on.
func (c *Config) RuleEnabled(name string) bool {
	rc, ok := c.Rules[name]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}

func (c *Config) RuleOptions(name string) map[string]any {
	return c.Rules[name].Options
}

// SetRuleEnabled toggles a rule, creating its entry when missing.
func (c *Config) SetRuleEnabled(name string, enabled bool) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}
	rc := c.Rules[name]
	rc.Enabled = &enabled
	c.Rules[name] = rc
}

// SetRuleOption sets a single option for a rule.
func (c *Config) SetRuleOption(name, key string, value any) {
	if c.Rules == nil {
		c.Rules = make(map[string]RuleConfig)
	}
	rc := c.Rules[name]
	if rc.Options == nil {
		rc.Options = make(map[string]any)
	}
	rc.Options[key] = value
	c.Rules[name] = rc
}

func (c *Config) CacheEnabled() bool {
	return c.Cache.Enabled == nil || *c.Cache.Enabled
}

// Hash fingerprints everything that changes lint results. Cached diagnostics
// are only reused under an identical hash.
func (c *Config) Hash() string {
	payload := struct {
		Rules        map[string]RuleConfig `json:"rules"`
		MaxFixPasses int                   `json:"max_fix_passes"`
		Formatter    []string              `json:"formatter"`
	}{c.Rules, c.MaxFixPasses, c.Formatter.Command}
	data, _ := json.Marshal(payload)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Encode writes cfg as TOML, or YAML when asYAML is set.
func (c *Config) Encode(w io.Writer, asYAML bool) error {
	if asYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

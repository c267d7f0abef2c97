package lint

import (
	"math"

	"arrowstyle/internal/shared/util"
)

// Options is a rule's options object layered over its defaults. Values of
// the wrong type read as the default.
type Options struct {
	values   map[string]any
	defaults map[string]any
}

func NewOptions(defaults, values map[string]any) Options {
	return Options{values: values, defaults: defaults}
}

func (o Options) lookup(key string) (any, any) {
	return o.values[key], o.defaults[key]
}

func (o Options) Bool(key string) bool {
	v, def := o.lookup(key)
	if b, ok := v.(bool); ok {
		return b
	}
	b, _ := def.(bool)
	return b
}

func (o Options) Int(key string) int {
	v, def := o.lookup(key)
	if n, ok := toInt(v); ok {
		return n
	}
	n, _ := toInt(def)
	return n
}

func (o Options) String(key string) string {
	v, def := o.lookup(key)
	if s, ok := v.(string); ok {
		return s
	}
	s, _ := def.(string)
	return s
}

// Has reports whether key was set explicitly.
func (o Options) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Map returns the effective options, defaults first.
func (o Options) Map() map[string]any {
	out := make(map[string]any, len(o.defaults)+len(o.values))
	for _, k := range util.SortedStringKeys(o.defaults) {
		out[k] = o.defaults[k]
	}
	for _, k := range util.SortedStringKeys(o.values) {
		out[k] = o.values[k]
	}
	return out
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

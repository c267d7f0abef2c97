package lint

import (
	"sort"

	"arrowstyle/internal/core/errors"
)

// Registry indexes rules by name.
type Registry struct {
	rules map[string]Rule
}

func NewRegistry(rules ...Rule) (*Registry, error) {
	r := &Registry{rules: make(map[string]Rule, len(rules))}
	for _, rule := range rules {
		if err := r.Register(rule); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(rule Rule) error {
	name := rule.Meta().Name
	if name == "" {
		return errors.New(errors.CodeValidationError, "rule without a name")
	}
	if _, exists := r.rules[name]; exists {
		return errors.AddContext(errors.New(errors.CodeConflict, "rule registered twice"), errors.CtxRule, name)
	}
	r.rules[name] = rule
	return nil
}

func (r *Registry) Get(name string) (Rule, bool) {
	rule, ok := r.rules[name]
	return rule, ok
}

// All returns the rules sorted by name.
func (r *Registry) All() []Rule {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Rule, 0, len(names))
	for _, name := range names {
		out = append(out, r.rules[name])
	}
	return out
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.All() {
		names = append(names, rule.Meta().Name)
	}
	return names
}

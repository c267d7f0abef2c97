// Package rules lists the built-in rules.
package rules

import (
	"arrowstyle/internal/engine/lint"
	"arrowstyle/internal/engine/rules/defaultexport"
	"arrowstyle/internal/engine/rules/returnstyle"
)

func Builtin() []lint.Rule {
	return []lint.Rule{
		returnstyle.New(),
		defaultexport.New(),
	}
}

// NewRegistry returns a registry holding the built-in rules.
func NewRegistry() *lint.Registry {
	r, err := lint.NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

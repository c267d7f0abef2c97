package returnstyle

import "arrowstyle/internal/engine/lint"

const (
	OptJSXAlwaysExplicit          = "jsxAlwaysUseExplicitReturn"
	OptMaxLen                     = "maxLen"
	OptNamedExportsAlwaysExplicit = "namedExportsAlwaysUseExplicitReturn"
	OptObjectReturnStyle          = "objectReturnStyle"
	OptMaxObjectProperties        = "maxObjectProperties"
	OptUsePrettier                = "usePrettier"
)

const (
	defaultMaxLen              = 80
	defaultMaxObjectProperties = 4
)

// ObjectStyle controls when object and array literal return values are kept
// in explicit form.
type ObjectStyle string

const (
	ObjectStyleOff             ObjectStyle = "off"
	ObjectStyleComplexExplicit ObjectStyle = "complex-explicit"
	ObjectStyleAlwaysExplicit  ObjectStyle = "always-explicit"
)

type Options struct {
	JSXAlwaysExplicit          bool
	MaxLen                     int
	NamedExportsAlwaysExplicit bool
	ObjectStyle                ObjectStyle
	MaxObjectProperties        int
	UseFormatter               bool
}

func DefaultOptions() map[string]any {
	return map[string]any{
		OptJSXAlwaysExplicit:          false,
		OptMaxLen:                     defaultMaxLen,
		OptNamedExportsAlwaysExplicit: true,
		OptObjectReturnStyle:          string(ObjectStyleComplexExplicit),
		OptMaxObjectProperties:        defaultMaxObjectProperties,
		OptUsePrettier:                false,
	}
}

// readOptions converts the raw options. Out-of-range numbers fall back to
// their defaults; unknown styles are kept and never force explicit returns.
func readOptions(o lint.Options) Options {
	opts := Options{
		JSXAlwaysExplicit:          o.Bool(OptJSXAlwaysExplicit),
		MaxLen:                     o.Int(OptMaxLen),
		NamedExportsAlwaysExplicit: o.Bool(OptNamedExportsAlwaysExplicit),
		ObjectStyle:                ObjectStyle(o.String(OptObjectReturnStyle)),
		MaxObjectProperties:        o.Int(OptMaxObjectProperties),
		UseFormatter:               o.Bool(OptUsePrettier),
	}
	if opts.MaxLen <= 0 {
		opts.MaxLen = defaultMaxLen
	}
	if opts.MaxObjectProperties < 0 {
		opts.MaxObjectProperties = defaultMaxObjectProperties
	}
	return opts
}

const optionsSchema = `{
  "type": "object",
  "additionalProperties": true,
  "properties": {
    "jsxAlwaysUseExplicitReturn": {
      "type": "boolean",
      "description": "Always use explicit return for JSX elements"
    },
    "maxLen": {
      "type": "integer",
      "minimum": 1,
      "description": "Maximum line length before requiring explicit return"
    },
    "namedExportsAlwaysUseExplicitReturn": {
      "type": "boolean",
      "description": "Always use explicit return for named exports"
    },
    "objectReturnStyle": {
      "type": "string",
      "enum": ["off", "complex-explicit", "always-explicit"],
      "description": "When object and array literal return values stay explicit"
    },
    "maxObjectProperties": {
      "type": "integer",
      "minimum": 0,
      "description": "Property count above which an object literal is complex"
    },
    "usePrettier": {
      "type": "boolean",
      "description": "Measure line length with the external formatter"
    }
  }
}`

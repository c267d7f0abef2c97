package util

import (
	"strings"

	"github.com/gobwas/glob"
)

// GlobSet matches slash-separated relative paths against a list of patterns.
// A leading "**/" also matches at the root, so "**/*.ts" matches "a.ts".
type GlobSet struct {
	patterns []string
	globs    []glob.Glob
}

func CompileGlobs(patterns []string) (*GlobSet, error) {
	set := &GlobSet{}
	for _, p := range patterns {
		p = NormalizePatternPath(p)
		if p == "" {
			continue
		}
		variants := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok && rest != "" {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, err
			}
			set.globs = append(set.globs, g)
		}
		set.patterns = append(set.patterns, p)
	}
	return set, nil
}

func (s *GlobSet) Empty() bool {
	return s == nil || len(s.globs) == 0
}

func (s *GlobSet) Patterns() []string {
	if s == nil {
		return nil
	}
	return s.patterns
}

// Match reports whether rel, a path relative to a scan root, matches.
func (s *GlobSet) Match(rel string) bool {
	return s.match(NormalizePatternPath(rel))
}

func (s *GlobSet) match(rel string) bool {
	if s == nil {
		return false
	}
	for _, g := range s.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

// MatchDir reports whether a directory, and therefore everything below it,
// matches.
func (s *GlobSet) MatchDir(rel string) bool {
	rel = NormalizePatternPath(rel)
	if rel == "" {
		return false
	}
	return s.match(rel + "/")
}

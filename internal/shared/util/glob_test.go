package util

import "testing"

func TestGlobSet(t *testing.T) {
	set, err := CompileGlobs([]string{"**/*.{js,ts,tsx}", " ./vendor/** ", ""})
	if err != nil {
		t.Fatalf("CompileGlobs: %v", err)
	}
	if got := set.Patterns(); len(got) != 2 || got[1] != "vendor/**" {
		t.Fatalf("unexpected patterns %v", got)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"a.ts", true},
		{"src/a.js", true},
		{"src/components/Card.tsx", true},
		{"src/a.css", false},
		{"vendor/lib.css", true},
		{`src\b.ts`, true},
	}
	for _, tt := range tests {
		if got := set.Match(tt.path); got != tt.want {
			t.Errorf("Match(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestGlobSetMatchDir(t *testing.T) {
	set, err := CompileGlobs([]string{"**/node_modules/**", "dist/**"})
	if err != nil {
		t.Fatalf("CompileGlobs: %v", err)
	}
	for _, dir := range []string{"node_modules", "packages/web/node_modules", "dist"} {
		if !set.MatchDir(dir) {
			t.Errorf("expected %q to be excluded", dir)
		}
	}
	for _, dir := range []string{"", "src", "packages/dist"} {
		if set.MatchDir(dir) {
			t.Errorf("expected %q to be kept", dir)
		}
	}
	if !set.Match("node_modules/react/index.js") {
		t.Error("expected files below an excluded directory to match")
	}
}

func TestGlobSetInvalid(t *testing.T) {
	if _, err := CompileGlobs([]string{"src/[a"}); err == nil {
		t.Fatal("expected compile error")
	}
	var empty *GlobSet
	if !empty.Empty() || empty.Match("a.ts") || empty.MatchDir("src") {
		t.Error("nil set must match nothing")
	}
}

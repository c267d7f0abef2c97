package fix

import (
	"testing"

	"arrowstyle/internal/core/errors"
)

func TestEditSetApply(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		build func(*EditSet)
		want  string
	}{
		{
			name: "replace block with expression",
			text: "const foo = () => { return 'foo' }",
			build: func(s *EditSet) {
				s.Replace(18, 34, "'foo'")
			},
			want: "const foo = () => 'foo'",
		},
		{
			name: "relocate comment into block",
			// const test = () =>\n  // c\n  ({ a })
			text: "const test = () =>\n  // c\n  ({ a })",
			build: func(s *EditSet) {
				s.InsertAfter(18, " {")
				s.Remove(28, 29)
				s.InsertBefore(29, "return ")
				s.InsertAfter(34, "\n}")
				s.Remove(34, 35)
			},
			want: "const test = () => {\n  // c\n  return { a }\n}",
		},
		{
			name: "inserts at the same offset keep order",
			text: "ab",
			build: func(s *EditSet) {
				s.InsertAfter(1, "1")
				s.InsertBefore(1, "2")
			},
			want: "a12b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewEditSet()
			tt.build(set)
			got, err := set.ApplyTo([]byte(tt.text))
			if err != nil {
				t.Fatalf("ApplyTo: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEditSetRejectsOverlap(t *testing.T) {
	set := NewEditSet().Replace(0, 5, "x").Remove(3, 7)
	_, err := set.ApplyTo([]byte("0123456789"))
	if !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}

	inside := NewEditSet().Remove(2, 6).InsertBefore(4, "x")
	if err := inside.Validate(10); !errors.IsCode(err, errors.CodeConflict) {
		t.Fatalf("expected insert inside removal to conflict, got %v", err)
	}
}

func TestEditSetRejectsOutOfRange(t *testing.T) {
	set := NewEditSet().Remove(8, 12)
	if err := set.Validate(10); !errors.IsCode(err, errors.CodeValidationError) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestSpansConflict(t *testing.T) {
	tests := []struct {
		a, b Edit
		want bool
	}{
		{a: Edit{Start: 1, End: 1}, b: Edit{Start: 1, End: 1}, want: false},
		{a: Edit{Start: 1, End: 1}, b: Edit{Start: 1, End: 3}, want: false},
		{a: Edit{Start: 3, End: 3}, b: Edit{Start: 1, End: 3}, want: false},
		{a: Edit{Start: 2, End: 2}, b: Edit{Start: 1, End: 3}, want: true},
		{a: Edit{Start: 0, End: 2}, b: Edit{Start: 2, End: 4}, want: false},
		{a: Edit{Start: 0, End: 3}, b: Edit{Start: 2, End: 4}, want: true},
	}
	for _, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("spansConflict(%+v, %+v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := spansConflict(tt.b, tt.a); got != tt.want {
			t.Errorf("spansConflict(%+v, %+v) = %v, want %v", tt.b, tt.a, got, tt.want)
		}
	}
}

func TestMerge(t *testing.T) {
	text := []byte("aaaa bbbb cccc")
	sets := []*EditSet{
		NewEditSet().Replace(10, 14, "C"),
		NewEditSet().Replace(0, 4, "A"),
		NewEditSet().Replace(2, 9, "overlap"),
		NewEditSet().Replace(5, 9, "B"),
		nil,
	}

	got, outcome := Merge(text, sets)
	if string(got) != "A B C" {
		t.Fatalf("got %q", got)
	}
	if len(outcome.Applied) != 3 || outcome.Applied[0] != 0 || outcome.Applied[1] != 1 || outcome.Applied[2] != 3 {
		t.Errorf("unexpected applied set %v", outcome.Applied)
	}
	if len(outcome.Skipped) != 1 || outcome.Skipped[0] != 2 {
		t.Errorf("unexpected skipped set %v", outcome.Skipped)
	}
}

func TestMergeSkipsTouchingSets(t *testing.T) {
	text := []byte("abcd")
	sets := []*EditSet{
		NewEditSet().Replace(0, 2, "X"),
		NewEditSet().Replace(2, 4, "Y"),
	}
	got, outcome := Merge(text, sets)
	if string(got) != "Xcd" {
		t.Fatalf("got %q", got)
	}
	if len(outcome.Skipped) != 1 || outcome.Skipped[0] != 1 {
		t.Errorf("expected touching set to wait for the next pass, got %v", outcome.Skipped)
	}
}

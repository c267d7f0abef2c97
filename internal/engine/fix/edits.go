// Package fix holds text edit sets produced by rules and applies them to
// source buffers.
package fix

import (
	"fmt"
	"sort"

	"arrowstyle/internal/core/errors"
)

// Edit replaces the half-open byte range [Start, End) with Text. A zero
// width edit is an insertion.
type Edit struct {
	Start int
	End   int
	Text  string
}

func (e Edit) IsInsert() bool { return e.Start == e.End }

// EditSet is the ordered group of edits fixing one diagnostic. Its edits
// must not overlap; they are applied atomically.
type EditSet struct {
	edits []Edit
}

func NewEditSet() *EditSet {
	return &EditSet{}
}

func (s *EditSet) Remove(start, end int) *EditSet {
	return s.add(Edit{Start: start, End: end})
}

func (s *EditSet) InsertBefore(offset int, text string) *EditSet {
	return s.add(Edit{Start: offset, End: offset, Text: text})
}

func (s *EditSet) InsertAfter(offset int, text string) *EditSet {
	return s.add(Edit{Start: offset, End: offset, Text: text})
}

func (s *EditSet) Replace(start, end int, text string) *EditSet {
	return s.add(Edit{Start: start, End: end, Text: text})
}

func (s *EditSet) add(e Edit) *EditSet {
	s.edits = append(s.edits, e)
	return s
}

func (s *EditSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.edits)
}

// Edits returns the edits in application order: by start offset, inserts
// before replacements at the same offset, otherwise in the order added.
func (s *EditSet) Edits() []Edit {
	if s == nil {
		return nil
	}
	out := append([]Edit(nil), s.edits...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].IsInsert() && !out[j].IsInsert()
	})
	return out
}

// Span returns the smallest range covering every edit.
func (s *EditSet) Span() (int, int) {
	if s.Len() == 0 {
		return 0, 0
	}
	start, end := s.edits[0].Start, s.edits[0].End
	for _, e := range s.edits[1:] {
		if e.Start < start {
			start = e.Start
		}
		if e.End > end {
			end = e.End
		}
	}
	return start, end
}

// Validate checks ranges against a buffer of size n and rejects overlapping edits.
func (s *EditSet) Validate(n int) error {
	edits := s.Edits()
	for i, e := range edits {
		if e.Start < 0 || e.End < e.Start || e.End > n {
			return errors.New(errors.CodeValidationError, fmt.Sprintf("edit range [%d, %d) outside buffer of %d bytes", e.Start, e.End, n))
		}
		for _, prev := range edits[:i] {
			if spansConflict(prev, e) {
				return errors.New(errors.CodeConflict, fmt.Sprintf("edits [%d, %d) and [%d, %d) overlap", prev.Start, prev.End, e.Start, e.End))
			}
		}
	}
	return nil
}

// spansConflict reports whether two edits overlap. Ranges are half-open.
// Insertions never conflict with each other, and an insertion only
// conflicts with a replacement when it falls strictly inside it, so text
// may be inserted at either boundary of a removed range.
func spansConflict(a, b Edit) bool {
	switch {
	case a.IsInsert() && b.IsInsert():
		return false
	case a.IsInsert():
		return b.Start < a.Start && a.Start < b.End
	case b.IsInsert():
		return a.Start < b.Start && b.Start < a.End
	default:
		return a.Start < b.End && b.Start < a.End
	}
}

// ApplyTo returns text with the set applied.
func (s *EditSet) ApplyTo(text []byte) ([]byte, error) {
	if err := s.Validate(len(text)); err != nil {
		return nil, err
	}
	return applyEdits(text, s.Edits()), nil
}

func applyEdits(text []byte, edits []Edit) []byte {
	out := make([]byte, 0, len(text)+64)
	cursor := 0
	for _, e := range edits {
		out = append(out, text[cursor:e.Start]...)
		out = append(out, e.Text...)
		cursor = e.End
	}
	return append(out, text[cursor:]...)
}

// Package fix applies the edits attached to member order diagnostics to a
// source buffer.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhamidi/typeorder/order"
)

var (
	// ErrOverlap is returned when two replacements touch the same bytes.
	ErrOverlap = errors.New("overlapping edits")
	// ErrOutOfRange is returned when a replacement lies outside the buffer.
	ErrOutOfRange = errors.New("edit span out of range")
)

// AnalyzeFunc produces the diagnostics for a buffer, fixes attached.
type AnalyzeFunc func(src []byte) ([]order.Diagnostic, error)

// AppliedFix records a fix that made it into the output.
type AppliedFix struct {
	TypeName string
	Pass     int
	Edits    int
}

// SkippedFix records a fix that was deferred, with the reason.
type SkippedFix struct {
	TypeName string
	Pass     int
	Reason   string
}

type Result struct {
	Output []byte
	// Passes is the number of analyze/apply rounds that ran.
	Passes  int
	Applied []AppliedFix
	Skipped []SkippedFix
	// Remaining are the diagnostics still reported after the last pass.
	Remaining []order.Diagnostic
}

// Changed reports whether any fix was applied.
func (r *Result) Changed() bool {
	return len(r.Applied) > 0
}

// Apply applies replacements to src and returns the new buffer. The
// replacements may come in any order but must not overlap.
func Apply(src []byte, edits []order.Replacement) ([]byte, error) {
	sorted := make([]order.Replacement, len(edits))
	copy(sorted, edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start != sorted[j].Span.Start {
			return sorted[i].Span.Start < sorted[j].Span.Start
		}
		return sorted[i].Span.End < sorted[j].Span.End
	})

	for i, r := range sorted {
		if r.Span.Start < 0 || r.Span.End < r.Span.Start || r.Span.End > len(src) {
			return nil, fmt.Errorf("%w: %d-%d in %d bytes", ErrOutOfRange, r.Span.Start, r.Span.End, len(src))
		}
		if i > 0 && conflicts(sorted[i-1].Span, r.Span) {
			return nil, fmt.Errorf("%w: %d-%d and %d-%d", ErrOverlap,
				sorted[i-1].Span.Start, sorted[i-1].Span.End, r.Span.Start, r.Span.End)
		}
	}

	working := append([]byte(nil), src...)
	for i := len(sorted) - 1; i >= 0; i-- {
		r := sorted[i]
		suffix := append([]byte(nil), working[r.Span.End:]...)
		working = append(append(working[:r.Span.Start], r.NewText...), suffix...)
	}
	return working, nil
}

// conflicts reports whether two sorted spans overlap. Two insertions at the
// same offset conflict as well, since their relative order is ambiguous.
func conflicts(prev, next order.Span) bool {
	if prev.Start == next.Start && (prev.IsEmpty() || next.IsEmpty()) {
		return true
	}
	return prev.Overlaps(next)
}

// SelectDisjoint picks the fixes to apply in one pass. Diagnostics are taken
// in source order; a fix that overlaps one already selected is skipped, so
// an outer type and its nested types are fixed on separate passes.
func SelectDisjoint(diags []order.Diagnostic) (selected []order.Diagnostic, skipped []order.Diagnostic) {
	candidates := make([]order.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if !d.Fix.IsEmpty() {
			candidates = append(candidates, d)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Fix[0].Span.Start < candidates[j].Fix[0].Span.Start
	})

	var taken []order.Replacement
	for _, d := range candidates {
		if conflictsWithTaken(taken, d.Fix) {
			skipped = append(skipped, d)
			continue
		}
		selected = append(selected, d)
		taken = append(taken, d.Fix...)
	}
	return selected, skipped
}

func conflictsWithTaken(taken []order.Replacement, edit order.Edit) bool {
	for _, prev := range taken {
		for _, r := range edit {
			if prev.Span.Overlaps(r.Span) || prev.Span.Start == r.Span.Start {
				return true
			}
		}
	}
	return false
}

// Converge repeatedly analyzes src and applies every disjoint fix until no
// diagnostic with a fix remains or maxPasses rounds have run.
func Converge(src []byte, analyze AnalyzeFunc, maxPasses int) (*Result, error) {
	result := &Result{Output: src}
	if maxPasses <= 0 {
		maxPasses = 1
	}

	for pass := 1; pass <= maxPasses; pass++ {
		diags, err := analyze(result.Output)
		if err != nil {
			return result, fmt.Errorf("pass %d: %w", pass, err)
		}
		result.Remaining = diags

		selected, skipped := SelectDisjoint(diags)
		if len(selected) == 0 {
			return result, nil
		}
		result.Passes = pass

		var edits []order.Replacement
		for _, d := range selected {
			edits = append(edits, d.Fix...)
			result.Applied = append(result.Applied, AppliedFix{TypeName: d.TypeName, Pass: pass, Edits: len(d.Fix)})
		}
		for _, d := range skipped {
			result.Skipped = append(result.Skipped, SkippedFix{
				TypeName: d.TypeName,
				Pass:     pass,
				Reason:   "overlaps a fix applied in the same pass",
			})
		}

		out, err := Apply(result.Output, edits)
		if err != nil {
			return result, fmt.Errorf("pass %d: %w", pass, err)
		}
		result.Output = out
	}

	diags, err := analyze(result.Output)
	if err != nil {
		return result, fmt.Errorf("final check: %w", err)
	}
	result.Remaining = diags
	return result, nil
}

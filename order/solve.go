package order

import (
	"fmt"
	"slices"
)

// Permutation maps original member indices to target indices.
type Permutation struct {
	target []int
	source []int
}

func Identity(n int) Permutation {
	p := Permutation{target: make([]int, n), source: make([]int, n)}
	for i := 0; i < n; i++ {
		p.target[i] = i
		p.source[i] = i
	}
	return p
}

// Solve computes the canonical placement of members. Suppressed members
// keep their index. The others are stably sorted by effective rank and
// dealt, in that order, into the free indices in ascending order.
func Solve(members []Member) Permutation {
	n := len(members)
	p := Identity(n)

	var free []int
	for i, m := range members {
		if !m.Suppressed {
			free = append(free, i)
		}
	}

	movable := slices.Clone(free)
	slices.SortStableFunc(movable, func(a, b int) int {
		return members[a].EffectiveKind().Rank() - members[b].EffectiveKind().Rank()
	})

	for k, original := range movable {
		p.target[original] = free[k]
	}
	for i, t := range p.target {
		p.source[t] = i
	}
	return p
}

func (p Permutation) Len() int {
	return len(p.target)
}

// Target returns where the member at original index i ends up.
func (p Permutation) Target(i int) int {
	return p.target[i]
}

// Source returns the original index of the member placed at target index j.
func (p Permutation) Source(j int) int {
	return p.source[j]
}

func (p Permutation) IsIdentity() bool {
	for i, t := range p.target {
		if i != t {
			return false
		}
	}
	return true
}

// Verify checks that p is a bijection over members that leaves every
// suppressed member in place.
func (p Permutation) Verify(members []Member) error {
	if len(p.target) != len(members) || len(p.source) != len(members) {
		return fmt.Errorf("permutation of %d indices for %d members", len(p.target), len(members))
	}
	seen := make([]bool, len(members))
	for i, t := range p.target {
		if t < 0 || t >= len(members) {
			return fmt.Errorf("member %d: target %d out of range", i, t)
		}
		if seen[t] {
			return fmt.Errorf("member %d: target %d assigned twice", i, t)
		}
		seen[t] = true
		if p.source[t] != i {
			return fmt.Errorf("member %d: inverse maps %d back to %d", i, t, p.source[t])
		}
		if members[i].Suppressed && t != i {
			return fmt.Errorf("suppressed member %d (%s) moved to %d", i, members[i].Name, t)
		}
	}
	return nil
}

func (p Permutation) String() string {
	return fmt.Sprint(p.target)
}

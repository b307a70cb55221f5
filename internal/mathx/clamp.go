package mathx

import "golang.org/x/exp/constraints"

// Max returns the larger of a and b. Used by the duty governor to floor
// its accumulator at zero after a decay step.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

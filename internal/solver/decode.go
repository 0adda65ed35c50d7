package solver

import "sort"

// Decode maps a continuous position vector to a permutation by largest
// value precedence: the dimension holding the largest value gets location 0,
// the next largest location 1, and so on. When two values are equal the
// higher original index wins the lower rank; the tie-break is deterministic.
func Decode(position []float64) []int {
	perm := make([]int, len(position))
	decodeInto(position, perm)
	return perm
}

func decodeInto(position []float64, perm []int) {
	n := len(position)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if position[ia] != position[ib] {
			return position[ia] > position[ib]
		}
		return ia > ib
	})
	for rank, idx := range order {
		perm[idx] = rank
	}
}

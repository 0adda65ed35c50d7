// Package qap models Quadratic Assignment Problem instances: N facilities
// exchanging flow, N candidate locations separated by distance, and the
// cost of assigning facilities to locations.
package qap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInstance indicates an instance with no facilities.
	ErrEmptyInstance = errors.New("qap: instance has no facilities")
	// ErrMatrixShape indicates a distance or flow matrix that is not N x N.
	ErrMatrixShape = errors.New("qap: matrix is not N x N")
	// ErrNegativeEntry indicates a negative distance or flow value.
	ErrNegativeEntry = errors.New("qap: negative matrix entry")
)

// Instance is an immutable QAP problem: Distance[a][b] separates locations
// a and b, Flow[i][j] is the traffic from facility i to facility j. Neither
// matrix is required to be symmetric.
type Instance struct {
	N        int
	Distance [][]int
	Flow     [][]int
}

// Validate checks the structural invariants of the instance.
func (in *Instance) Validate() error {
	if in.N <= 0 {
		return ErrEmptyInstance
	}
	for name, m := range map[string][][]int{"distance": in.Distance, "flow": in.Flow} {
		if len(m) != in.N {
			return fmt.Errorf("%w: %s has %d rows, want %d", ErrMatrixShape, name, len(m), in.N)
		}
		for i, row := range m {
			if len(row) != in.N {
				return fmt.Errorf("%w: %s row %d has %d columns, want %d", ErrMatrixShape, name, i, len(row), in.N)
			}
			for j, v := range row {
				if v < 0 {
					return fmt.Errorf("%w: %s[%d][%d] = %d", ErrNegativeEntry, name, i, j, v)
				}
			}
		}
	}
	return nil
}

// Cost returns the total flow-weighted distance of an assignment, where
// perm[i] is the location given to facility i. The sum runs over all ordered
// facility pairs, including i == j. perm must be a bijection on 0..N-1.
func (in *Instance) Cost(perm []int) int64 {
	var cost int64
	for i := 0; i < in.N; i++ {
		fi := in.Flow[i]
		di := in.Distance[perm[i]]
		for j := 0; j < in.N; j++ {
			cost += int64(fi[j]) * int64(di[perm[j]])
		}
	}
	return cost
}

// IsPermutation reports whether perm is a bijection on 0..n-1.
func IsPermutation(perm []int, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}

package qap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func symmetricTwo() *Instance {
	return &Instance{
		N:        2,
		Distance: [][]int{{0, 1}, {1, 0}},
		Flow:     [][]int{{0, 5}, {5, 0}},
	}
}

func TestCost(t *testing.T) {
	tests := []struct {
		name string
		inst *Instance
		perm []int
		want int64
	}{
		{
			name: "symmetric two facilities identity",
			inst: symmetricTwo(),
			perm: []int{0, 1},
			want: 10,
		},
		{
			name: "symmetric two facilities swapped",
			inst: symmetricTwo(),
			perm: []int{1, 0},
			want: 10,
		},
		{
			name: "asymmetric two facilities",
			inst: &Instance{
				N:        2,
				Distance: [][]int{{0, 1}, {2, 0}},
				Flow:     [][]int{{0, 3}, {7, 0}},
			},
			perm: []int{0, 1},
			want: 17, // 3*1 + 7*2
		},
		{
			name: "diagonal flow counts",
			inst: &Instance{
				N:        2,
				Distance: [][]int{{4, 0}, {0, 4}},
				Flow:     [][]int{{2, 0}, {0, 3}},
			},
			perm: []int{0, 1},
			want: 20, // 2*4 + 3*4
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.inst.Cost(tt.perm))
		})
	}
}

func TestCostWideAccumulation(t *testing.T) {
	// Each term is 10^6 * 10^6 = 10^12, far past int32 range.
	n := 3
	inst := &Instance{N: n, Distance: make([][]int, n), Flow: make([][]int, n)}
	for i := 0; i < n; i++ {
		inst.Distance[i] = make([]int, n)
		inst.Flow[i] = make([]int, n)
		for j := 0; j < n; j++ {
			inst.Distance[i][j] = 1_000_000
			inst.Flow[i][j] = 1_000_000
		}
	}
	assert.Equal(t, int64(9_000_000_000_000), inst.Cost([]int{0, 1, 2}))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		inst    *Instance
		wantErr error
	}{
		{
			name:    "valid",
			inst:    symmetricTwo(),
			wantErr: nil,
		},
		{
			name:    "empty",
			inst:    &Instance{},
			wantErr: ErrEmptyInstance,
		},
		{
			name: "ragged distance",
			inst: &Instance{
				N:        2,
				Distance: [][]int{{0, 1}, {1}},
				Flow:     [][]int{{0, 5}, {5, 0}},
			},
			wantErr: ErrMatrixShape,
		},
		{
			name: "missing flow rows",
			inst: &Instance{
				N:        2,
				Distance: [][]int{{0, 1}, {1, 0}},
				Flow:     [][]int{{0, 5}},
			},
			wantErr: ErrMatrixShape,
		},
		{
			name: "negative entry",
			inst: &Instance{
				N:        2,
				Distance: [][]int{{0, -1}, {1, 0}},
				Flow:     [][]int{{0, 5}, {5, 0}},
			},
			wantErr: ErrNegativeEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.inst.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestIsPermutation(t *testing.T) {
	assert.True(t, IsPermutation([]int{2, 0, 1}, 3))
	assert.True(t, IsPermutation([]int{0}, 1))
	assert.False(t, IsPermutation([]int{0, 0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 1}, 3))
	assert.False(t, IsPermutation([]int{0, 3, 1}, 3))
	assert.False(t, IsPermutation([]int{-1, 1, 0}, 3))
}

func TestStats(t *testing.T) {
	inst := &Instance{
		N:        2,
		Distance: [][]int{{0, 2}, {4, 0}},
		Flow:     [][]int{{0, 10}, {30, 0}},
	}
	s := inst.Stats()
	assert.InDelta(t, 3.0, s.DistanceMean, 1e-12)
	assert.InDelta(t, 20.0, s.FlowMean, 1e-12)

	// single facility has no off-diagonal entries
	one := &Instance{N: 1, Distance: [][]int{{0}}, Flow: [][]int{{0}}}
	assert.Zero(t, one.Stats())
}

package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/LOBO/internal/qap"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{
		PackSize:      5,
		MaxIterations: 20,
		TSIterations:  10,
		TabuTenure:    3,
		TSEvery:       1,
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"valid", func(c *Config) {}, nil},
		{"ts disabled is valid", func(c *Config) { c.TSIterations = 0 }, nil},
		{"pack too small", func(c *Config) { c.PackSize = 2 }, ErrPackSize},
		{"no iterations", func(c *Config) { c.MaxIterations = 0 }, ErrMaxIterations},
		{"negative ts budget", func(c *Config) { c.TSIterations = -1 }, ErrTSIterations},
		{"zero tenure", func(c *Config) { c.TabuTenure = 0 }, ErrTabuTenure},
		{"zero ts-every", func(c *Config) { c.TSEvery = 0 }, ErrTSEvery},
		{"negative jitter", func(c *Config) { c.Jitter = -0.1 }, ErrJitter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewRejectsBadInstance(t *testing.T) {
	_, err := New(&qap.Instance{}, Config{
		PackSize:      5,
		MaxIterations: 10,
		TabuTenure:    3,
		TSEvery:       1,
	})
	assert.ErrorIs(t, err, qap.ErrEmptyInstance)
}

func TestOptimizeEndToEnd(t *testing.T) {
	inst := clusteredInstance(t, 4, 2, 17)

	var observations int
	var initial int64
	s := testSolver(t, inst, Config{
		PackSize:      5,
		MaxIterations: 20,
		TSIterations:  10,
		TabuTenure:    3,
		Seed:          42,
		Progress: func(iteration int, bestCost int64, improved bool) {
			if iteration == 0 {
				initial = bestCost
			}
			observations++
		},
	})

	res, err := s.Optimize(context.Background())
	require.NoError(t, err)

	assert.Len(t, res.Assignment, 4)
	assert.True(t, qap.IsPermutation(res.Assignment, 4))
	assert.Equal(t, res.Cost, inst.Cost(res.Assignment))
	assert.Equal(t, initial, res.InitialCost)
	assert.LessOrEqual(t, res.Cost, res.InitialCost)
	assert.Equal(t, 20, res.Iterations)
	assert.Positive(t, observations)
}

func TestOptimizeLeaderMonotone(t *testing.T) {
	inst := clusteredInstance(t, 10, 2, 23)

	var costs []int64
	s := testSolver(t, inst, Config{
		PackSize:      8,
		MaxIterations: 40,
		TSIterations:  5,
		TabuTenure:    4,
		TSEvery:       2,
		Jitter:        0.05,
		Seed:          7,
		Progress: func(iteration int, bestCost int64, improved bool) {
			costs = append(costs, bestCost)
		},
	})

	_, err := s.Optimize(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, costs)
	for i := 1; i < len(costs); i++ {
		assert.LessOrEqual(t, costs[i], costs[i-1], "best cost regressed at observation %d", i)
	}

	// beta and delta never regress either
	assert.LessOrEqual(t, s.alpha.fitness, s.beta.fitness)
	assert.LessOrEqual(t, s.beta.fitness, s.delta.fitness)
}

func TestOptimizeDeterministicWithSeed(t *testing.T) {
	inst := clusteredInstance(t, 8, 2, 29)
	cfg := Config{
		PackSize:      6,
		MaxIterations: 15,
		TSIterations:  8,
		TabuTenure:    3,
		TSEvery:       1,
		Jitter:        0.1,
		Seed:          1234,
	}

	run := func() *Result {
		s, err := New(inst, cfg)
		require.NoError(t, err)
		res, err := s.Optimize(context.Background())
		require.NoError(t, err)
		return res
	}

	a, b := run(), run()
	assert.Equal(t, a.Cost, b.Cost)
	assert.Equal(t, a.Assignment, b.Assignment)
	assert.Equal(t, a.InitialCost, b.InitialCost)
}

func TestOptimizeWithoutTabuSearch(t *testing.T) {
	inst := clusteredInstance(t, 6, 2, 31)
	s := testSolver(t, inst, Config{
		PackSize:      5,
		MaxIterations: 25,
		TSIterations:  0, // pure GWO
		TabuTenure:    1,
		Seed:          3,
	})

	res, err := s.Optimize(context.Background())
	require.NoError(t, err)
	assert.True(t, qap.IsPermutation(res.Assignment, 6))
	assert.LessOrEqual(t, res.Cost, res.InitialCost)
}

func TestOptimizeCancelled(t *testing.T) {
	inst := clusteredInstance(t, 6, 2, 37)
	s := testSolver(t, inst, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := s.Optimize(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

func TestPositionsStayInBounds(t *testing.T) {
	inst := clusteredInstance(t, 8, 2, 41)
	s := testSolver(t, inst, Config{
		PackSize:      5,
		MaxIterations: 10,
		TSIterations:  0,
		TabuTenure:    1,
		Jitter:        0.5,
		Seed:          2,
	})

	_, err := s.Optimize(context.Background())
	require.NoError(t, err)

	for _, w := range s.pack {
		for i, p := range w.position {
			assert.GreaterOrEqual(t, p, -1.0, "dimension %d", i)
			assert.LessOrEqual(t, p, 1.0, "dimension %d", i)
		}
	}
}

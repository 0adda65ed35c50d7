package qap

import (
	"fmt"
	"math/rand"
)

// GeneratorConfig controls the clustered instance generator. Locations are
// split into roughly equal clusters; distances are short inside a cluster
// and grow with cluster separation, while flows are heavy inside a cluster
// with occasional conflicting heavy cross-cluster links.
type GeneratorConfig struct {
	N        int
	Clusters int
}

// Generate produces a clustered instance from cfg using rng. The same rng
// state always yields the same instance.
func Generate(cfg GeneratorConfig, rng *rand.Rand) (*Instance, error) {
	if cfg.N <= 0 {
		return nil, fmt.Errorf("generator: n must be positive, got %d", cfg.N)
	}
	if cfg.Clusters <= 0 || cfg.Clusters > cfg.N {
		return nil, fmt.Errorf("generator: clusters must be in 1..%d, got %d", cfg.N, cfg.Clusters)
	}

	n := cfg.N
	clusterOf := make([]int, n)
	for i := range clusterOf {
		clusterOf[i] = i * cfg.Clusters / n
	}

	in := &Instance{
		N:        n,
		Distance: make([][]int, n),
		Flow:     make([][]int, n),
	}
	for i := 0; i < n; i++ {
		in.Distance[i] = make([]int, n)
		for j := 0; j < n; j++ {
			switch {
			case i == j:
			case clusterOf[i] == clusterOf[j]:
				in.Distance[i][j] = 1 + rng.Intn(10)
			default:
				cd := clusterOf[i] - clusterOf[j]
				if cd < 0 {
					cd = -cd
				}
				in.Distance[i][j] = 30 + cd*10 + rng.Intn(20)
			}
		}
	}
	for i := 0; i < n; i++ {
		in.Flow[i] = make([]int, n)
		for j := 0; j < n; j++ {
			switch {
			case i == j:
			case clusterOf[i] == clusterOf[j]:
				in.Flow[i][j] = 80 + rng.Intn(121)
			case rng.Float64() < 0.05:
				// rare heavy cross-cluster linkage, keeps the objective conflicting
				in.Flow[i][j] = 120 + rng.Intn(101)
			default:
				in.Flow[i][j] = 5 + rng.Intn(76)
			}
		}
	}
	return in, nil
}

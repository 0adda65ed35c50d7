// Package solver implements a hybrid metaheuristic for the Quadratic
// Assignment Problem: a Grey Wolf Optimizer drives a pack of continuous
// candidate positions, and Tabu Search periodically refines the best
// decoded assignment.
package solver

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/copyleftdev/LOBO/internal/qap"
)

var (
	// ErrPackSize indicates a pack smaller than the three leaders.
	ErrPackSize = errors.New("solver: pack size must be at least 3")
	// ErrMaxIterations indicates a non-positive outer iteration budget.
	ErrMaxIterations = errors.New("solver: max iterations must be at least 1")
	// ErrTSIterations indicates a negative tabu search budget.
	ErrTSIterations = errors.New("solver: tabu search iterations must not be negative")
	// ErrTabuTenure indicates a non-positive tabu list capacity.
	ErrTabuTenure = errors.New("solver: tabu tenure must be at least 1")
	// ErrTSEvery indicates a non-positive hybridization period.
	ErrTSEvery = errors.New("solver: ts-every must be at least 1")
	// ErrJitter indicates a negative jitter magnitude.
	ErrJitter = errors.New("solver: jitter must not be negative")
)

// ProgressFunc observes the search. Iteration 0 reports the initial best
// cost before any position update; afterwards iteration is 1-based and
// bestCost is the alpha fitness after any tabu refinement. improved reports
// whether alpha was replaced this iteration.
type ProgressFunc func(iteration int, bestCost int64, improved bool)

// Config holds the search parameters.
type Config struct {
	// PackSize is the number of wolves, at least 3.
	PackSize int
	// MaxIterations is the outer loop budget.
	MaxIterations int
	// TSIterations is the tabu search budget per hybridization call.
	// Zero disables tabu search entirely.
	TSIterations int
	// TabuTenure is the tabu list capacity.
	TabuTenure int
	// TSEvery hybridizes on iterations where t mod TSEvery == 0.
	TSEvery int
	// Jitter adds uniform noise in [-Jitter, Jitter] to every dimension
	// after the position update, before decoding.
	Jitter float64
	// Seed seeds the single random generator. Zero means seed from the
	// clock, which makes the run non-reproducible.
	Seed int64
	// Progress, when set, receives search observations.
	Progress ProgressFunc
	// Logger receives structured diagnostics. Nil means no logging.
	Logger *zap.Logger
}

// Validate checks the parameter constraints.
func (c Config) Validate() error {
	switch {
	case c.PackSize < 3:
		return ErrPackSize
	case c.MaxIterations < 1:
		return ErrMaxIterations
	case c.TSIterations < 0:
		return ErrTSIterations
	case c.TabuTenure < 1:
		return ErrTabuTenure
	case c.TSEvery < 1:
		return ErrTSEvery
	case c.Jitter < 0:
		return ErrJitter
	}
	return nil
}

// Result is the outcome of one run.
type Result struct {
	// Assignment maps facility index to location index.
	Assignment []int
	// Cost is the assignment's total flow-weighted distance.
	Cost int64
	// InitialCost is the best pack fitness before the first iteration.
	InitialCost int64
	// Iterations is the number of outer iterations performed.
	Iterations int
}

// wolf is one pack member: a continuous position in [-1,1]^N, its decoded
// permutation, and the exact cost of that permutation.
type wolf struct {
	position []float64
	perm     []int
	fitness  int64
}

func newWolf(n int) *wolf {
	return &wolf{
		position: make([]float64, n),
		perm:     make([]int, n),
		fitness:  math.MaxInt64,
	}
}

func (w *wolf) copyFrom(src *wolf) {
	copy(w.position, src.position)
	copy(w.perm, src.perm)
	w.fitness = src.fitness
}

func (w *wolf) clone() *wolf {
	c := newWolf(len(w.position))
	c.copyFrom(w)
	return c
}

// Solver is a run-scoped search context. It owns the single random
// generator every draw goes through, the elitist leader triple, and the
// lowest cost any tabu search call has seen this run.
type Solver struct {
	inst *qap.Instance
	cfg  Config
	rng  *rand.Rand
	log  *zap.Logger

	pack  []*wolf
	alpha *wolf
	beta  *wolf
	delta *wolf

	globalBest int64
}

// New builds a Solver for inst with cfg. The instance and configuration are
// validated up front; the optimization loop itself cannot fail.
func New(inst *qap.Instance, cfg Config) (*Solver, error) {
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Solver{
		inst:       inst,
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		log:        log,
		globalBest: math.MaxInt64,
	}, nil
}

// Optimize runs the full hybrid search and returns the best assignment
// found. ctx is checked once per outer iteration; a cancelled run returns
// ctx's error and no result.
func (s *Solver) Optimize(ctx context.Context) (*Result, error) {
	s.initPack()
	initial := s.alpha.fitness
	if s.cfg.Progress != nil {
		s.cfg.Progress(0, initial, false)
	}

	s.log.Info("starting search",
		zap.Int("n", s.inst.N),
		zap.Int("pack_size", s.cfg.PackSize),
		zap.Int("max_iterations", s.cfg.MaxIterations),
		zap.Int("ts_iterations", s.cfg.TSIterations),
		zap.Int("tabu_tenure", s.cfg.TabuTenure),
		zap.Int64("initial_cost", initial),
	)

	for t := 0; t < s.cfg.MaxIterations; t++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// exploration coefficient, linear decay from 2 to 0
		a := 2.0 - 2.0*float64(t)/float64(s.cfg.MaxIterations)

		for _, w := range s.pack {
			s.step(w, a)
		}
		s.sortPack()
		improved := s.promoteLeaders()

		if s.cfg.TSIterations > 0 && t%s.cfg.TSEvery == 0 {
			perm, cost := s.tabuSearch(s.alpha.perm, s.alpha.fitness, s.cfg.TSIterations, s.cfg.TabuTenure)
			copy(s.alpha.perm, perm)
			s.alpha.fitness = cost
		}

		// the refined alpha re-enters the pack so future position
		// updates can pull toward it
		s.pack[0].copyFrom(s.alpha)

		if improved || (t+1)%10 == 0 {
			if s.cfg.Progress != nil {
				s.cfg.Progress(t+1, s.alpha.fitness, improved)
			}
			s.log.Debug("iteration",
				zap.Int("iteration", t+1),
				zap.Int64("best_cost", s.alpha.fitness),
				zap.Bool("improved", improved),
			)
		}
	}

	s.log.Info("search finished",
		zap.Int64("best_cost", s.alpha.fitness),
		zap.Int("iterations", s.cfg.MaxIterations),
	)

	return &Result{
		Assignment:  append([]int(nil), s.alpha.perm...),
		Cost:        s.alpha.fitness,
		InitialCost: initial,
		Iterations:  s.cfg.MaxIterations,
	}, nil
}

// initPack seeds every wolf with a random position, decodes and scores it,
// and takes the three fittest as the initial leader triple.
func (s *Solver) initPack() {
	n := s.inst.N
	s.pack = make([]*wolf, s.cfg.PackSize)
	for k := range s.pack {
		w := newWolf(n)
		for i := range w.position {
			w.position[i] = s.uniform()
		}
		s.decodeAndScore(w)
		s.pack[k] = w
	}
	s.sortPack()
	s.alpha = s.pack[0].clone()
	s.beta = s.pack[1].clone()
	s.delta = s.pack[2].clone()
}

// promoteLeaders applies the elitist update: a leader is replaced only by a
// strictly fitter ranked wolf. Only an alpha replacement counts as an
// improvement for progress-reporting purposes.
func (s *Solver) promoteLeaders() bool {
	improved := false
	if s.pack[0].fitness < s.alpha.fitness {
		s.alpha.copyFrom(s.pack[0])
		improved = true
	}
	if s.pack[1].fitness < s.beta.fitness {
		s.beta.copyFrom(s.pack[1])
	}
	if s.pack[2].fitness < s.delta.fitness {
		s.delta.copyFrom(s.pack[2])
	}
	return improved
}

func (s *Solver) sortPack() {
	sort.Slice(s.pack, func(i, j int) bool {
		return s.pack[i].fitness < s.pack[j].fitness
	})
}

func (s *Solver) decodeAndScore(w *wolf) {
	decodeInto(w.position, w.perm)
	w.fitness = s.inst.Cost(w.perm)
}

// uniform draws from U[-1, 1]. Every random draw in the run, position
// initialization, GWO coefficients and jitter alike, goes through here.
func (s *Solver) uniform() float64 {
	return 2*s.rng.Float64() - 1
}

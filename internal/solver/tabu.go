package solver

import "math"

// pairMove is an unordered pair of permutation positions to swap.
type pairMove struct {
	i, j int
}

// tabuList is a bounded FIFO of recently applied swaps. It lives for one
// tabuSearch call only.
type tabuList struct {
	moves  []pairMove
	tenure int
}

func newTabuList(tenure int) *tabuList {
	return &tabuList{tenure: tenure}
}

func (t *tabuList) contains(i, j int) bool {
	for _, m := range t.moves {
		if (m.i == i && m.j == j) || (m.i == j && m.j == i) {
			return true
		}
	}
	return false
}

func (t *tabuList) push(i, j int) {
	t.moves = append(t.moves, pairMove{i, j})
	if len(t.moves) > t.tenure {
		t.moves = t.moves[1:]
	}
}

// tabuSearch refines start with tabu-constrained 2-opt local search and
// returns the best permutation seen during the walk, not the final one:
// the selected move is applied even when it worsens the current cost, so
// the walk can climb out of local optima. The solver-wide best is seeded
// from the input and updated whenever the walk finds a new all-time low.
func (s *Solver) tabuSearch(start []int, startCost int64, iterations, tenure int) ([]int, int64) {
	current := append([]int(nil), start...)
	best := append([]int(nil), start...)
	bestCost := startCost
	if bestCost < s.globalBest {
		s.globalBest = bestCost
	}

	tl := newTabuList(tenure)
	scratch := make([]int, len(start))

	for iter := 0; iter < iterations; iter++ {
		mv, cost, ok := s.bestAdmissibleMove(current, scratch, tl)
		if !ok {
			break
		}

		current[mv.i], current[mv.j] = current[mv.j], current[mv.i]
		if cost < bestCost {
			bestCost = cost
			copy(best, current)
			if bestCost < s.globalBest {
				s.globalBest = bestCost
			}
		}
		tl.push(mv.i, mv.j)
	}

	return best, bestCost
}

// bestAdmissibleMove scans the full 2-opt neighborhood in row-major order
// and returns the cheapest admissible swap. A tabu pair is still admissible
// when its cost beats the best any tabu search call has seen this run: the
// aspiration criterion overrides tabu status. Ties keep the first move
// encountered. ok is false when every move is tabu without aspiration.
func (s *Solver) bestAdmissibleMove(current, scratch []int, tl *tabuList) (mv pairMove, cost int64, ok bool) {
	n := len(current)
	bestCost := int64(math.MaxInt64)
	bestMove := pairMove{i: -1, j: -1}

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			copy(scratch, current)
			scratch[i], scratch[j] = scratch[j], scratch[i]
			c := s.inst.Cost(scratch)

			if tl.contains(i, j) && c >= s.globalBest {
				continue
			}
			if c < bestCost {
				bestCost = c
				bestMove = pairMove{i: i, j: j}
			}
		}
	}

	if bestMove.i < 0 {
		return pairMove{}, 0, false
	}
	return bestMove, bestCost, true
}

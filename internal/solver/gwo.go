package solver

import "math"

// step advances one wolf: every dimension moves to the mean of three
// leader-guided estimates, optional jitter is applied, the position is
// clamped to [-1, 1], and the wolf is re-decoded and re-scored.
func (s *Solver) step(w *wolf, a float64) {
	for i := range w.position {
		x1 := s.leaderEstimate(s.alpha.position[i], w.position[i], a)
		x2 := s.leaderEstimate(s.beta.position[i], w.position[i], a)
		x3 := s.leaderEstimate(s.delta.position[i], w.position[i], a)
		w.position[i] = clamp((x1 + x2 + x3) / 3.0)
	}
	if s.cfg.Jitter > 0 {
		for i := range w.position {
			w.position[i] = clamp(w.position[i] + s.uniform()*s.cfg.Jitter)
		}
	}
	s.decodeAndScore(w)
}

// leaderEstimate computes one leader's pull on a single dimension. The r1
// and r2 draws come from the same U[-1,1] distribution that seeds initial
// positions, not the textbook U[0,1]; the wider range lets the A
// coefficient flip sign and is kept on purpose.
func (s *Solver) leaderEstimate(leader, pos, a float64) float64 {
	r1 := s.uniform()
	r2 := s.uniform()
	A := 2*a*r1 - a
	C := 2 * r2
	D := math.Abs(C*leader - pos)
	return leader - A*D
}

func clamp(x float64) float64 {
	if x < -1 {
		return -1
	}
	if x > 1 {
		return 1
	}
	return x
}

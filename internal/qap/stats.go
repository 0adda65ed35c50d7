package qap

import "gonum.org/v1/gonum/stat"

// Stats summarizes the off-diagonal entries of an instance's matrices.
type Stats struct {
	DistanceMean   float64
	DistanceStdDev float64
	FlowMean       float64
	FlowStdDev     float64
}

// Stats computes mean and standard deviation of the off-diagonal distance
// and flow entries. Diagonals are excluded: they are zero in every instance
// the generator emits and carry no assignment information.
func (in *Instance) Stats() Stats {
	flatten := func(m [][]int) []float64 {
		out := make([]float64, 0, in.N*(in.N-1))
		for i, row := range m {
			for j, v := range row {
				if i != j {
					out = append(out, float64(v))
				}
			}
		}
		return out
	}

	var s Stats
	if in.N < 2 {
		return s
	}
	s.DistanceMean, s.DistanceStdDev = stat.MeanStdDev(flatten(in.Distance), nil)
	s.FlowMean, s.FlowStdDev = stat.MeanStdDev(flatten(in.Flow), nil)
	return s
}

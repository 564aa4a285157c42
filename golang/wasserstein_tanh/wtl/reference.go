package wtl

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

//ReferenceBuilder produces an ordered sample in [-1, 1] that serves as the
//target distribution for the alpha search. Implementations must be
//deterministic.
type ReferenceBuilder interface {
	BuildReference() []float64
}

//GaussianReference builds a discretized standard normal sample truncated at
//the tail quantile Q and rescaled into [-1, 1].
type GaussianReference struct {
	Q float64
}

//BuildReference places round(1/Q) quantile positions between the Q and 1-Q
//quantiles of the standard normal distribution, replicates every position
//proportionally to the density there and min-max rescales the expanded
//sample so that it spans [-1, 1] exactly.
func (ref GaussianReference) BuildReference() []float64 {
	n := int(math.Round(1.0 / ref.Q))
	normal := distuv.Normal{Mu: 0, Sigma: 1}

	positions := linspace(normal.Quantile(ref.Q), normal.Quantile(1.0-ref.Q), n)

	sample := make([]float64, 0, n)
	for _, position := range positions {
		// nearest-integer weights keep the tail mass for small Q
		weight := int(math.Round(normal.Prob(position) * float64(n)))
		for c := 0; c < weight; c++ {
			sample = append(sample, position)
		}
	}

	lo, hi := floats.Min(sample), floats.Max(sample)
	for ind, value := range sample {
		sample[ind] = 2.0*(value-lo)/(hi-lo) - 1.0
	}

	return sample
}

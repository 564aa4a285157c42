package wtl

import (
	"log"
	"math"

	"gonum.org/v1/gonum/mat"
)

//HandleError interrupts the program execution in case of an error
func HandleError(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

//Height returns the number of rows of a dense matrix
func Height(m *mat.Dense) int {
	h, _ := m.Dims()
	return h
}

//linspace returns num evenly spaced values from start to end inclusive
func linspace(start, end float64, num int) []float64 {
	if num <= 1 {
		return []float64{start}
	}
	step := (end - start) / float64(num-1)
	values := make([]float64, num)
	for i := 0; i < num; i++ {
		values[i] = start + float64(i)*step
	}
	return values
}

//sigmoid maps an unconstrained value into (0, 1)
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

//logit is the inverse of sigmoid; the argument must be strictly inside (0, 1)
func logit(p float64) float64 {
	return math.Log(p / (1.0 - p))
}

//alphaEps bounds alphas away from 0 and 1 before the logit reparameterization
const alphaEps = 1e-6

//clampAlpha forces an alpha strictly inside (alphaEps, 1-alphaEps)
func clampAlpha(alpha float64) float64 {
	if alpha < alphaEps {
		return alphaEps
	}
	if alpha > 1.0-alphaEps {
		return 1.0 - alphaEps
	}
	return alpha
}

//argmaxRow returns the index of the maximal element of a matrix row
func argmaxRow(m *mat.Dense, row int) int {
	_, w := m.Dims()
	best := 0
	for q := 1; q < w; q++ {
		if m.At(row, q) > m.At(row, best) {
			best = q
		}
	}
	return best
}

package wtl

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

//TrainLoss turns raw network outputs and integer labels into a scalar loss
//and a gradient with respect to the outputs. The gradient is averaged over
//the batch.
type TrainLoss interface {
	Value(logits *mat.Dense, labels []int) float64
	Grad(logits *mat.Dense, labels []int) *mat.Dense
}

//softmaxRow writes the softmax of row p of logits into out.
func softmaxRow(logits *mat.Dense, p int, out []float64) {
	w := len(out)
	maxVal := logits.At(p, 0)
	for q := 1; q < w; q++ {
		if logits.At(p, q) > maxVal {
			maxVal = logits.At(p, q)
		}
	}
	sum := 0.0
	for q := 0; q < w; q++ {
		out[q] = math.Exp(logits.At(p, q) - maxVal)
		sum += out[q]
	}
	for q := 0; q < w; q++ {
		out[q] /= sum
	}
}

//CrossEntropyLoss is softmax cross entropy over class logits.
type CrossEntropyLoss struct{}

func (CrossEntropyLoss) Value(logits *mat.Dense, labels []int) float64 {
	h, w := logits.Dims()
	probs := make([]float64, w)
	total := 0.0
	for p := 0; p < h; p++ {
		softmaxRow(logits, p, probs)
		total -= math.Log(math.Max(probs[labels[p]], 1e-15))
	}
	return total / float64(h)
}

func (CrossEntropyLoss) Grad(logits *mat.Dense, labels []int) *mat.Dense {
	h, w := logits.Dims()
	probs := make([]float64, w)
	grad := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		softmaxRow(logits, p, probs)
		for q := 0; q < w; q++ {
			target := 0.0
			if q == labels[p] {
				target = 1.0
			}
			grad.Set(p, q, (probs[q]-target)/float64(h))
		}
	}
	return grad
}

//SquaredLoss is mean squared error against one-hot targets. It is kept as an
//alternative head for regression style experiments.
type SquaredLoss struct{}

func (SquaredLoss) Value(logits *mat.Dense, labels []int) float64 {
	h, w := logits.Dims()
	total := 0.0
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			target := 0.0
			if q == labels[p] {
				target = 1.0
			}
			d := logits.At(p, q) - target
			total += d * d
		}
	}
	return total / float64(h)
}

func (SquaredLoss) Grad(logits *mat.Dense, labels []int) *mat.Dense {
	h, w := logits.Dims()
	grad := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			target := 0.0
			if q == labels[p] {
				target = 1.0
			}
			grad.Set(p, q, 2.0*(logits.At(p, q)-target)/float64(h))
		}
	}
	return grad
}

package wtl

import (
	"log"
	"math"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

//alphaSearchTol and alphaSearchMaxIter bound the scalar search per feature.
const (
	alphaSearchTol     = 1e-5
	alphaSearchMaxIter = 500
)

//TaskOptimalAlpha searches one feature column and stores the found alpha in
//its own slot of the shared result slice.
type TaskOptimalAlpha struct {
	result []float64
	q      int
	search func(int) float64
}

func (task *TaskOptimalAlpha) Execute() {
	task.result[task.q] = task.search(task.q)
}

//OptimalAlphas finds, for every feature column of the standardized features
//matrix, the alpha in [0, 1] that minimizes the Wasserstein distance between
//tanh(alpha*column) and the reference sample. Columns are processed
//independently; with threadsNum > 1 the search is distributed over a worker
//pool, one task per column writing to a disjoint result slot.
func OptimalAlphas(features *mat.Dense, reference []float64, threadsNum int) ([]float64, error) {
	if features == nil {
		return nil, errors.New("optimal alphas: nil features matrix")
	}
	h, w := features.Dims()
	if h == 0 || w == 0 {
		return nil, errors.Errorf("optimal alphas: empty features matrix %dx%d", h, w)
	}
	if len(reference) == 0 {
		return nil, errors.New("optimal alphas: empty reference sample")
	}

	sortedReference := append([]float64(nil), reference...)
	sort.Float64s(sortedReference)

	result := make([]float64, w)

	searchColumn := func(q int) float64 {
		column := make([]float64, h)
		mat.Col(column, q, features)
		transformed := make([]float64, h)

		objective := func(alpha float64) float64 {
			for p := 0; p < h; p++ {
				transformed[p] = math.Tanh(alpha * column[p])
			}
			sort.Float64s(transformed)
			return wassersteinSorted(transformed, sortedReference)
		}

		alpha, converged := MinimizeBounded(objective, 0.0, 1.0, alphaSearchTol, alphaSearchMaxIter)
		if !converged {
			log.Printf("alpha search for feature %d did not converge, keeping best estimate %g", q, alpha)
		}
		return alpha
	}

	if threadsNum <= 1 {
		for q := 0; q < w; q++ {
			result[q] = searchColumn(q)
		}
	} else {
		taskPool := NewPool(threadsNum)
		for q := 0; q < w; q++ {
			taskPool.AddTask(&TaskOptimalAlpha{result, q, searchColumn})
		}
		taskPool.Close()
		taskPool.WaitAll()
	}

	return result, nil
}

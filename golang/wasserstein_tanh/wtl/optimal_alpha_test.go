package wtl

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

//alphaObjective recomputes the optimizer objective for one column.
func alphaObjective(column []float64, reference []float64, alpha float64) float64 {
	transformed := make([]float64, len(column))
	for ind, value := range column {
		transformed[ind] = math.Tanh(alpha * value)
	}
	return Wasserstein(transformed, reference)
}

func standardNormalColumn(samples int, seed int64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	features := mat.NewDense(samples, 1, nil)
	for p := 0; p < samples; p++ {
		features.Set(p, 0, rng.NormFloat64())
	}
	return features
}

func TestOptimalAlphasEndToEnd(t *testing.T) {
	features := standardNormalColumn(1000, 7)
	reference := GaussianReference{Q: 0.001}.BuildReference()

	alphas, err := OptimalAlphas(features, reference, 1)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if len(alphas) != 1 {
		t.Fatalf("expected one alpha, got %d", len(alphas))
	}

	alpha := alphas[0]
	if alpha <= 0.0 || alpha >= 1.0 {
		t.Fatalf("alpha %g is not inside (0, 1)", alpha)
	}

	column := make([]float64, 1000)
	mat.Col(column, 0, features)
	atOptimum := alphaObjective(column, reference, alpha)
	for _, probe := range []float64{0.01, 0.5, 1.0} {
		if atProbe := alphaObjective(column, reference, probe); atOptimum > atProbe+1e-9 {
			t.Errorf("objective at found alpha %g (%g) is worse than at %g (%g)",
				alpha, atOptimum, probe, atProbe)
		}
	}
}

func TestOptimalAlphasIdempotent(t *testing.T) {
	features := standardNormalColumn(500, 11)
	reference := GaussianReference{Q: 0.001}.BuildReference()

	first, err := OptimalAlphas(features, reference, 1)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := OptimalAlphas(features, reference, 1)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if math.Abs(first[0]-second[0]) > 1e-9 {
		t.Errorf("two runs on the same input disagree: %g vs %g", first[0], second[0])
	}
}

func TestOptimalAlphasParallelMatchesSerial(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	features := mat.NewDense(300, 5, nil)
	for p := 0; p < 300; p++ {
		for q := 0; q < 5; q++ {
			features.Set(p, q, rng.NormFloat64()*(1.0+float64(q)))
		}
	}
	reference := GaussianReference{Q: 0.01}.BuildReference()

	serial, err := OptimalAlphas(features, reference, 1)
	if err != nil {
		t.Fatalf("serial: %v", err)
	}
	parallel, err := OptimalAlphas(features, reference, 4)
	if err != nil {
		t.Fatalf("parallel: %v", err)
	}

	for q := range serial {
		if serial[q] != parallel[q] {
			t.Errorf("feature %d: serial %g vs parallel %g", q, serial[q], parallel[q])
		}
	}
}

func TestOptimalAlphasDegenerateColumn(t *testing.T) {
	features := mat.NewDense(100, 2, nil)
	for p := 0; p < 100; p++ {
		features.Set(p, 0, 3.0) // constant column
	}
	reference := GaussianReference{Q: 0.01}.BuildReference()

	alphas, err := OptimalAlphas(features, reference, 1)
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	for q, alpha := range alphas {
		if alpha < 0.0 || alpha > 1.0 {
			t.Errorf("alpha[%d] = %g is outside [0, 1]", q, alpha)
		}
	}
}

func TestOptimalAlphasEmptyInput(t *testing.T) {
	reference := GaussianReference{Q: 0.01}.BuildReference()

	if _, err := OptimalAlphas(nil, reference, 1); err == nil {
		t.Error("nil matrix should be rejected")
	}
	if _, err := OptimalAlphas(&mat.Dense{}, reference, 1); err == nil {
		t.Error("empty matrix should be rejected")
	}
	if _, err := OptimalAlphas(standardNormalColumn(10, 1), nil, 1); err == nil {
		t.Error("empty reference should be rejected")
	}
}

func TestPoolRunsEveryTask(t *testing.T) {
	result := make([]float64, 64)
	taskPool := NewPool(8)
	for q := 0; q < 64; q++ {
		taskPool.AddTask(&TaskOptimalAlpha{result, q, func(ind int) float64 {
			return float64(ind) * 2.0
		}})
	}
	taskPool.Close()
	taskPool.WaitAll()

	for q := range result {
		if result[q] != float64(q)*2.0 {
			t.Fatalf("slot %d holds %g", q, result[q])
		}
	}
}

//sanity check for the presorted fast path used inside the optimizer
func TestWassersteinSortedMatchesPublic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	u := make([]float64, 100)
	v := make([]float64, 70)
	for ind := range u {
		u[ind] = rng.NormFloat64()
	}
	for ind := range v {
		v[ind] = rng.NormFloat64() + 0.5
	}

	want := Wasserstein(u, v)
	sort.Float64s(u)
	sort.Float64s(v)
	if got := wassersteinSorted(u, v); math.Abs(got-want) > 1e-15 {
		t.Errorf("sorted variant disagrees: %g vs %g", got, want)
	}
}

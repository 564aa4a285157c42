package wtl

import (
	"math"
	"testing"
)

func TestWassersteinIdentical(t *testing.T) {
	u := []float64{0.5, -1.2, 3.0, 0.0, 0.5}
	if d := Wasserstein(u, u); d != 0.0 {
		t.Errorf("distance of a sample to itself should be 0, got %g", d)
	}
}

func TestWassersteinShift(t *testing.T) {
	u := []float64{0.0, 1.0}
	v := []float64{1.0, 2.0}
	if d := Wasserstein(u, v); math.Abs(d-1.0) > 1e-12 {
		t.Errorf("shifted pair should have distance 1, got %g", d)
	}
}

func TestWassersteinUnequalSizes(t *testing.T) {
	u := []float64{0.0}
	v := []float64{0.5, 0.5}
	if d := Wasserstein(u, v); math.Abs(d-0.5) > 1e-12 {
		t.Errorf("point mass against point mass at 0.5 should give 0.5, got %g", d)
	}

	u = []float64{0.0, 0.0, 1.0, 1.0}
	v = []float64{0.0, 1.0}
	if d := Wasserstein(u, v); d != 0.0 {
		t.Errorf("same distribution at different sample sizes should give 0, got %g", d)
	}
}

func TestWassersteinSymmetric(t *testing.T) {
	u := []float64{-0.3, 0.1, 0.9, 2.5}
	v := []float64{-1.0, 0.0, 0.4}
	duv := Wasserstein(u, v)
	dvu := Wasserstein(v, u)
	if math.Abs(duv-dvu) > 1e-15 {
		t.Errorf("distance should be symmetric: %g vs %g", duv, dvu)
	}
	if duv <= 0 {
		t.Errorf("distance of different samples should be positive, got %g", duv)
	}
}

func TestWassersteinLeavesInputsUntouched(t *testing.T) {
	u := []float64{3.0, 1.0, 2.0}
	v := []float64{5.0, 4.0}
	Wasserstein(u, v)
	if u[0] != 3.0 || u[1] != 1.0 || u[2] != 2.0 || v[0] != 5.0 {
		t.Error("input samples were reordered")
	}
}

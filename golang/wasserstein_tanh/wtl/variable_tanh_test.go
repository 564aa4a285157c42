package wtl

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestVariableTanhApplyRange(t *testing.T) {
	activation := NewVariableTanh([]float64{0.2, 0.5, 0.9}, false, true)

	x := mat.NewDense(2, 3, []float64{
		0.0, -10.0, 100.0,
		3.0, 0.5, -0.1,
	})
	out := activation.Apply(x)

	for p := 0; p < 2; p++ {
		for q := 0; q < 3; q++ {
			value := out.At(p, q)
			if value <= -1.0 || value >= 1.0 {
				t.Fatalf("out[%d,%d] = %g is not strictly inside (-1, 1)", p, q, value)
			}
		}
	}
	if out.At(0, 0) != 0.0 {
		t.Errorf("x = 0 should map to 0, got %g", out.At(0, 0))
	}
}

func TestVariableTanhRoundTrip(t *testing.T) {
	input := []float64{0.1, 0.25, 0.5, 0.75, 0.9}
	activation := NewVariableTanh(input, false, true)

	for ind, alpha := range activation.Alphas() {
		if math.Abs(alpha-input[ind]) > 1e-9 {
			t.Errorf("alpha[%d]: round trip %g != %g", ind, alpha, input[ind])
		}
	}
}

func TestVariableTanhBoundaryGuard(t *testing.T) {
	activation := NewVariableTanh([]float64{0.0, 1.0}, false, true)

	for ind, alpha := range activation.Alphas() {
		if alpha <= 0.0 || alpha >= 1.0 {
			t.Errorf("alpha[%d] = %g escaped (0, 1) after the boundary clamp", ind, alpha)
		}
		if math.IsInf(alpha, 0) || math.IsNaN(alpha) {
			t.Errorf("alpha[%d] is not finite", ind)
		}
	}
}

func TestVariableTanhRandomInit(t *testing.T) {
	activation := NewVariableTanh(make([]float64, 20), true, false)

	for ind, alpha := range activation.Alphas() {
		if alpha <= 0.0 || alpha >= 1.0 {
			t.Errorf("random alpha[%d] = %g is not inside (0, 1)", ind, alpha)
		}
	}
}

func TestTrainableTanhShiftMonotone(t *testing.T) {
	activation := NewVariableTanh([]float64{0.3, 0.6}, false, false)
	trainable := activation.(*TrainableTanh)

	before := activation.Alphas()
	trainable.Shift(0.5)
	upAfter := activation.Alphas()
	for ind := range before {
		if upAfter[ind] <= before[ind] {
			t.Errorf("alpha[%d] should grow with the logit: %g -> %g", ind, before[ind], upAfter[ind])
		}
		if upAfter[ind] <= 0.0 || upAfter[ind] >= 1.0 {
			t.Errorf("alpha[%d] = %g left (0, 1)", ind, upAfter[ind])
		}
	}

	trainable.Shift(-1.0)
	downAfter := activation.Alphas()
	for ind := range upAfter {
		if downAfter[ind] >= upAfter[ind] {
			t.Errorf("alpha[%d] should shrink with the logit: %g -> %g", ind, upAfter[ind], downAfter[ind])
		}
	}
}

func TestTrainableTanhGradientStep(t *testing.T) {
	activation := NewVariableTanh([]float64{0.5}, false, false)
	trainable := activation.(*TrainableTanh)

	x := mat.NewDense(3, 1, []float64{1.0, 2.0, -0.5})
	upstream := mat.NewDense(3, 1, []float64{1.0, 1.0, 1.0})

	before := activation.Alphas()[0]
	trainable.Backward(x, upstream)
	trainable.Step(0.1)
	after := activation.Alphas()[0]

	// positive upstream on mostly positive x pushes tanh(alpha*x) up, so the
	// descent step must decrease alpha
	if after >= before {
		t.Errorf("descent step should reduce alpha: %g -> %g", before, after)
	}
	if after <= 0.0 || after >= 1.0 {
		t.Errorf("alpha %g left (0, 1)", after)
	}

	// gradient is cleared by Step
	trainable.Step(0.1)
	if again := activation.Alphas()[0]; again != after {
		t.Errorf("second step without Backward should be a no-op: %g -> %g", after, again)
	}
}

func TestFixedTanhBackwardKeepsAlphas(t *testing.T) {
	activation := NewVariableTanh([]float64{0.4, 0.8}, false, true)

	x := mat.NewDense(2, 2, []float64{1.0, -1.0, 2.0, 0.3})
	upstream := mat.NewDense(2, 2, []float64{0.5, 0.5, 0.5, 0.5})

	before := activation.Alphas()
	dx := activation.Backward(x, upstream)
	after := activation.Alphas()

	for ind := range before {
		if before[ind] != after[ind] {
			t.Errorf("fixed alphas changed: %g -> %g", before[ind], after[ind])
		}
	}

	h, w := dx.Dims()
	if h != 2 || w != 2 {
		t.Fatalf("unexpected gradient shape %dx%d", h, w)
	}
}

func TestAlphaHistorySnapshots(t *testing.T) {
	activation := NewVariableTanh([]float64{0.3}, false, false)
	trainable := activation.(*TrainableTanh)

	activation.RecordAlpha(0)
	recorded := activation.Alphas()[0]

	trainable.Shift(2.0)
	activation.RecordAlpha(1)

	if activation.History().Len() != 2 {
		t.Fatalf("expected 2 snapshots, got %d", activation.History().Len())
	}

	step, row := activation.History().Row(0)
	if step != 0 {
		t.Errorf("first snapshot step should be 0, got %d", step)
	}
	// later parameter updates must not rewrite older snapshots
	if row[0] != recorded {
		t.Errorf("snapshot mutated retroactively: %g != %g", row[0], recorded)
	}
}

func TestAlphaHistoryRetentionAndFlush(t *testing.T) {
	history := NewAlphaHistory(3)
	for step := 0; step < 5; step++ {
		history.Append(step, []float64{float64(step)})
	}

	if history.Len() != 3 {
		t.Fatalf("expected 3 retained rows, got %d", history.Len())
	}
	if step, _ := history.Row(0); step != 2 {
		t.Errorf("oldest retained step should be 2, got %d", step)
	}

	steps, rows := history.Flush()
	if len(steps) != 3 || len(rows) != 3 {
		t.Fatalf("flush should drain 3 rows, got %d/%d", len(steps), len(rows))
	}
	if history.Len() != 0 {
		t.Errorf("history should be empty after flush, got %d", history.Len())
	}
}

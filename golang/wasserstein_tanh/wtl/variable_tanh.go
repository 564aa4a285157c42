package wtl

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

//AlphaHistory is an append-only log of per-step alpha snapshots owned by a
//variable tanh instance. A positive limit turns it into a ring that drops the
//oldest rows; limit 0 keeps everything.
type AlphaHistory struct {
	steps []int
	rows  [][]float64
	limit int
}

//NewAlphaHistory creates a history log with the given retention limit.
func NewAlphaHistory(limit int) *AlphaHistory {
	return &AlphaHistory{limit: limit}
}

//Append stores a by-value snapshot of alphas under the given step index.
func (history *AlphaHistory) Append(step int, alphas []float64) {
	if history.limit > 0 && len(history.steps) == history.limit {
		history.steps = history.steps[1:]
		history.rows = history.rows[1:]
	}
	history.steps = append(history.steps, step)
	history.rows = append(history.rows, append([]float64(nil), alphas...))
}

//Len returns the number of retained snapshots.
func (history *AlphaHistory) Len() int {
	return len(history.steps)
}

//Row returns the step index and the alpha snapshot at position ind.
func (history *AlphaHistory) Row(ind int) (int, []float64) {
	return history.steps[ind], history.rows[ind]
}

//Flush hands the retained snapshots to the caller and empties the log.
func (history *AlphaHistory) Flush() (steps []int, rows [][]float64) {
	steps, rows = history.steps, history.rows
	history.steps, history.rows = nil, nil
	return
}

//VariableTanh is the adaptive activation x -> tanh(alpha*x) with one alpha
//per feature. The alphas are stored in the logit domain so that the exposed
//values always stay strictly inside (0, 1). An instance belongs to exactly
//one training loop: concurrent Backward/Step calls are not safe.
type VariableTanh interface {
	//Alphas returns sigmoid of the internal logits, one value per feature.
	Alphas() []float64
	//Apply computes tanh(alpha*x) elementwise, broadcasting alphas over rows.
	Apply(x *mat.Dense) *mat.Dense
	//Backward propagates the upstream gradient through the activation and
	//returns the gradient with respect to x. Trainable instances also
	//accumulate the gradient with respect to their logits.
	Backward(x, upstream *mat.Dense) *mat.Dense
	//RecordAlpha appends a detached snapshot of the current alphas.
	RecordAlpha(step int)
	//History exposes the snapshot log.
	History() *AlphaHistory
}

//tanhCore holds the logit vector and the history log shared by both variants.
type tanhCore struct {
	a       []float64
	history *AlphaHistory
}

func newTanhCore(alphas []float64) tanhCore {
	a := make([]float64, len(alphas))
	for ind, alpha := range alphas {
		a[ind] = logit(clampAlpha(alpha))
	}
	return tanhCore{a: a, history: NewAlphaHistory(0)}
}

func (core *tanhCore) Alphas() []float64 {
	alphas := make([]float64, len(core.a))
	for ind, value := range core.a {
		alphas[ind] = sigmoid(value)
	}
	return alphas
}

func (core *tanhCore) Apply(x *mat.Dense) *mat.Dense {
	h, w := x.Dims()
	alphas := core.Alphas()
	out := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			out.Set(p, q, math.Tanh(alphas[q]*x.At(p, q)))
		}
	}
	return out
}

//backward computes the gradient with respect to x and, when gradA is not nil,
//adds the gradient with respect to the logits into it.
func (core *tanhCore) backward(x, upstream *mat.Dense, gradA []float64) *mat.Dense {
	h, w := x.Dims()
	alphas := core.Alphas()
	dx := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			alpha := alphas[q]
			y := math.Tanh(alpha * x.At(p, q))
			common := upstream.At(p, q) * (1.0 - y*y)
			dx.Set(p, q, common*alpha)
			if gradA != nil {
				// d alpha / d a = alpha*(1-alpha)
				gradA[q] += common * x.At(p, q) * alpha * (1.0 - alpha)
			}
		}
	}
	return dx
}

func (core *tanhCore) RecordAlpha(step int) {
	core.history.Append(step, core.Alphas())
}

func (core *tanhCore) History() *AlphaHistory {
	return core.history
}

//FixedTanh is the frozen variant: its logits are constants and it carries no
//gradient machinery at all.
type FixedTanh struct {
	tanhCore
}

func (fixed *FixedTanh) Backward(x, upstream *mat.Dense) *mat.Dense {
	return fixed.backward(x, upstream, nil)
}

//TrainableTanh is the learnable variant: Backward accumulates the logit
//gradient and Step applies it.
type TrainableTanh struct {
	tanhCore
	gradA []float64
}

func (trainable *TrainableTanh) Backward(x, upstream *mat.Dense) *mat.Dense {
	return trainable.backward(x, upstream, trainable.gradA)
}

//Step performs one gradient descent update of the logits and clears the
//accumulated gradient.
func (trainable *TrainableTanh) Step(learningRate float64) {
	for ind := range trainable.a {
		trainable.a[ind] -= learningRate * trainable.gradA[ind]
		trainable.gradA[ind] = 0.0
	}
}

//Shift adds delta to every logit. It is used by simulated-update scenarios
//and keeps the alphas inside (0, 1) by construction.
func (trainable *TrainableTanh) Shift(delta float64) {
	for ind := range trainable.a {
		trainable.a[ind] += delta
	}
}

//NewVariableTanh builds either a frozen or a trainable variable tanh from an
//alpha vector. With randomInit the supplied alphas are discarded and replaced
//with uniform draws from (0, 1); that combination is meant for
//train-from-scratch ablations. Alphas are clamped strictly inside (0, 1)
//before the logit transform.
func NewVariableTanh(alphas []float64, randomInit, fixed bool) VariableTanh {
	init := alphas
	if randomInit {
		init = make([]float64, len(alphas))
		for ind := range init {
			init[ind] = rand.Float64()
		}
	}
	if fixed {
		return &FixedTanh{newTanhCore(init)}
	}
	return &TrainableTanh{tanhCore: newTanhCore(init), gradA: make([]float64, len(init))}
}

package wtl

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

//DenseLayer is a fully connected layer y = x*W^T + b with accumulated
//gradients for one SGD step.
type DenseLayer struct {
	W     *mat.Dense // out x in
	B     []float64
	gradW *mat.Dense
	gradB []float64
}

//NewDenseLayer initializes weights uniformly in +-1/sqrt(in).
func NewDenseLayer(in, out int, rng *rand.Rand) *DenseLayer {
	scale := 1.0 / math.Sqrt(float64(in))
	weights := mat.NewDense(out, in, nil)
	for p := 0; p < out; p++ {
		for q := 0; q < in; q++ {
			weights.Set(p, q, scale*(2.0*rng.Float64()-1.0))
		}
	}
	return &DenseLayer{
		W:     weights,
		B:     make([]float64, out),
		gradW: mat.NewDense(out, in, nil),
		gradB: make([]float64, out),
	}
}

//Forward maps an h x in batch to an h x out batch.
func (layer *DenseLayer) Forward(x *mat.Dense) *mat.Dense {
	h, _ := x.Dims()
	out, _ := layer.W.Dims()
	result := mat.NewDense(h, out, nil)
	result.Mul(x, layer.W.T())
	for p := 0; p < h; p++ {
		for q := 0; q < out; q++ {
			result.Set(p, q, result.At(p, q)+layer.B[q])
		}
	}
	return result
}

//Backward accumulates weight and bias gradients from the upstream gradient
//and returns the gradient with respect to the layer input.
func (layer *DenseLayer) Backward(x, upstream *mat.Dense) *mat.Dense {
	h, _ := x.Dims()
	out, in := layer.W.Dims()

	var deltaW mat.Dense
	deltaW.Mul(upstream.T(), x)
	layer.gradW.Add(layer.gradW, &deltaW)

	for p := 0; p < h; p++ {
		for q := 0; q < out; q++ {
			layer.gradB[q] += upstream.At(p, q)
		}
	}

	dx := mat.NewDense(h, in, nil)
	dx.Mul(upstream, layer.W)
	return dx
}

//Step applies the accumulated gradients and clears them.
func (layer *DenseLayer) Step(learningRate float64) {
	var scaled mat.Dense
	scaled.Scale(learningRate, layer.gradW)
	layer.W.Sub(layer.W, &scaled)
	layer.gradW.Zero()
	for q := range layer.B {
		layer.B[q] -= learningRate * layer.gradB[q]
		layer.gradB[q] = 0.0
	}
}

//Network is the small feed forward classifier of the study: the variable
//tanh activation on the standardized inputs, one tanh hidden layer and a
//linear output head whose logits feed the loss.
type Network struct {
	Activation VariableTanh
	Hidden     *DenseLayer
	Output     *DenseLayer
	Loss       TrainLoss
}

//NewNetwork wires a classifier for the given input width, hidden size and
//class count around an already constructed activation.
func NewNetwork(activation VariableTanh, inputs, hidden, classes int, loss TrainLoss, seed int64) *Network {
	rng := rand.New(rand.NewSource(seed))
	return &Network{
		Activation: activation,
		Hidden:     NewDenseLayer(inputs, hidden, rng),
		Output:     NewDenseLayer(hidden, classes, rng),
		Loss:       loss,
	}
}

//Forward computes class logits for a batch of standardized features.
func (network *Network) Forward(x *mat.Dense) *mat.Dense {
	activated := network.Activation.Apply(x)
	hiddenOut := network.Hidden.Forward(activated)
	hiddenOut.Apply(func(_, _ int, v float64) float64 { return math.Tanh(v) }, hiddenOut)
	return network.Output.Forward(hiddenOut)
}

//TrainBatch runs one forward-backward pass over a batch, applies the SGD
//updates and returns the batch loss.
func (network *Network) TrainBatch(x *mat.Dense, labels []int, learningRate float64) float64 {
	activated := network.Activation.Apply(x)
	preHidden := network.Hidden.Forward(activated)

	hiddenOut := mat.DenseCopyOf(preHidden)
	hiddenOut.Apply(func(_, _ int, v float64) float64 { return math.Tanh(v) }, hiddenOut)

	logits := network.Output.Forward(hiddenOut)
	lossValue := network.Loss.Value(logits, labels)

	gradLogits := network.Loss.Grad(logits, labels)
	gradHiddenOut := network.Output.Backward(hiddenOut, gradLogits)

	h, w := gradHiddenOut.Dims()
	gradPreHidden := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			t := hiddenOut.At(p, q)
			gradPreHidden.Set(p, q, gradHiddenOut.At(p, q)*(1.0-t*t))
		}
	}

	gradActivated := network.Hidden.Backward(activated, gradPreHidden)
	network.Activation.Backward(x, gradActivated)

	network.Hidden.Step(learningRate)
	network.Output.Step(learningRate)
	if trainable, ok := network.Activation.(*TrainableTanh); ok {
		trainable.Step(learningRate)
	}

	return lossValue
}

//Accuracy returns the share of rows whose argmax logit matches the label.
func (network *Network) Accuracy(x *mat.Dense, labels []int) float64 {
	logits := network.Forward(x)
	h, _ := logits.Dims()
	correct := 0
	for p := 0; p < h; p++ {
		if argmaxRow(logits, p) == labels[p] {
			correct++
		}
	}
	return float64(correct) / float64(h)
}

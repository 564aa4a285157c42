package wtl

import (
	"log"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

//TrainParams collect arguments required to train one classifier.
type TrainParams struct {
	Epochs       int
	BatchSize    int
	HiddenSize   int
	LearningRate float64
	Seed         int64
}

//TrainResult holds the learning curves and the alpha trajectory of one run.
//AlphaRows is indexed by epoch, each row one alpha per feature.
type TrainResult struct {
	Name          string
	TrainAccuracy []float64
	TestAccuracy  []float64
	AlphaSteps    []int
	AlphaRows     [][]float64
}

//TrainClassifier trains the feed forward classifier around the given
//activation on already standardized data and records per-epoch accuracy for
//the train and the test set, plus one alpha snapshot per epoch.
func TrainClassifier(train, test DMatrix, activation VariableTanh, params TrainParams) TrainResult {
	h, w := train.validatedDimensions()
	classes := train.NumClasses()
	if params.BatchSize > h {
		params.BatchSize = h
	}

	network := NewNetwork(activation, w, params.HiddenSize, classes, CrossEntropyLoss{}, params.Seed)
	rng := rand.New(rand.NewSource(params.Seed + 1))

	result := TrainResult{
		TrainAccuracy: make([]float64, 0, params.Epochs),
		TestAccuracy:  make([]float64, 0, params.Epochs),
	}

	order := rng.Perm(h)
	batchFeatures := mat.NewDense(params.BatchSize, w, nil)
	batchLabels := make([]int, params.BatchSize)

	for epoch := 0; epoch < params.Epochs; epoch++ {
		rng.Shuffle(h, func(i, j int) { order[i], order[j] = order[j], order[i] })

		for begin := 0; begin+params.BatchSize <= h; begin += params.BatchSize {
			for p := 0; p < params.BatchSize; p++ {
				src := order[begin+p]
				for q := 0; q < w; q++ {
					batchFeatures.Set(p, q, train.Features.At(src, q))
				}
				batchLabels[p] = train.Labels[src]
			}
			network.TrainBatch(batchFeatures, batchLabels, params.LearningRate)
		}

		trainAcc := network.Accuracy(train.Features, train.Labels)
		result.TrainAccuracy = append(result.TrainAccuracy, trainAcc)

		testAcc := network.Accuracy(test.Features, test.Labels)
		result.TestAccuracy = append(result.TestAccuracy, testAcc)

		if (epoch+1)%10 == 0 || epoch == params.Epochs-1 {
			log.Printf("epoch %d: train accuracy = %.4f, test accuracy = %.4f", epoch+1, trainAcc, testAcc)
		}

		activation.RecordAlpha(epoch)
	}

	result.AlphaSteps, result.AlphaRows = activation.History().Flush()
	return result
}

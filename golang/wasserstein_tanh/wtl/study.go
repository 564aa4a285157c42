package wtl

import (
	"encoding/json"
	"log"
	"os"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/sbinet/npyio"
)

//RunConfig describes one activation configuration of the comparative study.
//AlphaOverride, when set, replaces the optimized alphas with a constant.
type RunConfig struct {
	Name          string   `json:"name"`
	RandomInit    bool     `json:"random_init"`
	Fixed         bool     `json:"fixed"`
	AlphaOverride *float64 `json:"alpha_override,omitempty"`
}

//DefaultConfigs returns the four configurations of the study: optimized
//frozen alphas, optimized trainable alphas, trainable alphas from random
//initialization and plain tanh (alpha pinned at 1).
func DefaultConfigs() []RunConfig {
	one := 1.0
	return []RunConfig{
		{Name: "wasserstein_fixed", RandomInit: false, Fixed: true},
		{Name: "wasserstein_trainable", RandomInit: false, Fixed: false},
		{Name: "random_trainable", RandomInit: true, Fixed: false},
		{Name: "unit_fixed", RandomInit: false, Fixed: true, AlphaOverride: &one},
	}
}

//StudyParams collect arguments required to run the full study.
type StudyParams struct {
	Q          float64
	ThreadsNum int
	Train      TrainParams
	Configs    []RunConfig
}

//StudyResult aggregates the optimizer output and every configuration run.
//Trajectories packs the alpha histories into one config x epoch x feature
//block.
type StudyResult struct {
	Alphas       []float64
	Runs         []TrainResult
	Trajectories *tensor.Dense
}

//RunStudy standardizes the data with the training statistics, finds the
//Wasserstein-optimal alphas and trains one classifier per configuration.
func RunStudy(train, test DMatrix, params StudyParams) (*StudyResult, error) {
	scaler := FitScaler(train.Features)
	scaledTrain := DMatrix{Features: scaler.Transform(train.Features), Labels: train.Labels, Description: train.Description}
	scaledTest := DMatrix{Features: scaler.Transform(test.Features), Labels: test.Labels, Description: test.Description}

	reference := GaussianReference{Q: params.Q}.BuildReference()

	log.Print("search for optimal alphas")
	alphas, err := OptimalAlphas(scaledTrain.Features, reference, params.ThreadsNum)
	if err != nil {
		return nil, err
	}

	configs := params.Configs
	if configs == nil {
		configs = DefaultConfigs()
	}

	study := &StudyResult{Alphas: alphas}
	_, w := scaledTrain.Features.Dims()
	study.Trajectories = tensor.New(tensor.WithShape(len(configs), params.Train.Epochs, w), tensor.Of(tensor.Float64))

	for configInd, config := range configs {
		log.Printf("train configuration %q", config.Name)

		initAlphas := alphas
		if config.AlphaOverride != nil {
			initAlphas = make([]float64, len(alphas))
			for ind := range initAlphas {
				initAlphas[ind] = *config.AlphaOverride
			}
		}

		activation := NewVariableTanh(initAlphas, config.RandomInit, config.Fixed)
		run := TrainClassifier(scaledTrain, scaledTest, activation, params.Train)
		run.Name = config.Name
		study.Runs = append(study.Runs, run)

		for epochInd, row := range run.AlphaRows {
			for q, alpha := range row {
				HandleError(study.Trajectories.SetAt(alpha, configInd, epochInd, q))
			}
		}
	}

	return study, nil
}

//FinalMeanAlpha returns the mean alpha of the last recorded epoch of one
//configuration.
func (study StudyResult) FinalMeanAlpha(configInd int) float64 {
	shape := study.Trajectories.Shape()
	epochs, w := shape[1], shape[2]
	total := 0.0
	for q := 0; q < w; q++ {
		value, err := study.Trajectories.At(configInd, epochs-1, q)
		HandleError(err)
		total += value.(float64)
	}
	return total / float64(w)
}

//CurvesDump is the serialized form of the accuracy curves.
type CurvesDump struct {
	Titles        []string    `json:"titles"`
	TrainAccuracy [][]float64 `json:"train_accuracy"`
	TestAccuracy  [][]float64 `json:"test_accuracy"`
}

//DumpCurves writes the accuracy curves of every configuration as json.
func (study StudyResult) DumpCurves(filename string) {
	destination, err := os.Create(filename)
	HandleError(err)
	defer func() { HandleError(destination.Close()) }()

	var dump CurvesDump
	for _, run := range study.Runs {
		dump.Titles = append(dump.Titles, run.Name)
		dump.TrainAccuracy = append(dump.TrainAccuracy, run.TrainAccuracy)
		dump.TestAccuracy = append(dump.TestAccuracy, run.TestAccuracy)
	}

	bytesResult, err := json.MarshalIndent(dump, "", "  ")
	HandleError(err)
	_, err = destination.Write(bytesResult)
	HandleError(err)
}

//SaveAlphas writes the optimizer output as an npy column vector.
func (study StudyResult) SaveAlphas(filename string) {
	destination, err := os.Create(filename)
	HandleError(err)
	defer func() { HandleError(destination.Close()) }()

	column := mat.NewDense(len(study.Alphas), 1, append([]float64(nil), study.Alphas...))
	HandleError(npyio.Write(destination, column))
}

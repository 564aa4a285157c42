package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/tarstars/wasserstein_tanh/golang/wasserstein_tanh/wtl"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	wtl.HandleError(err)
	defer func() { wtl.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	wtl.HandleError(decoder.Decode(out))
}

type DatasetConfig struct {
	FileNameTrainFeatures string `json:"filename_train_features"`
	FileNameTrainLabels   string `json:"filename_train_labels"`
	FileNameTestFeatures  string `json:"filename_test_features"`
	FileNameTestLabels    string `json:"filename_test_labels"`

	SyntheticSamples  int     `json:"synthetic_samples"`
	SyntheticFeatures int     `json:"synthetic_features"`
	SyntheticClasses  int     `json:"synthetic_classes"`
	SyntheticSpread   float64 `json:"synthetic_spread"`
	Seed              int64   `json:"seed"`
}

//loadPair reads the train and test parts of a dataset. When the feature file
//names are empty, a synthetic Gaussian blobs dataset is generated instead.
func loadPair(config DatasetConfig) (train, test wtl.DMatrix) {
	if config.FileNameTrainFeatures != "" {
		log.Println("load train")
		train = wtl.ReadDMatrix(config.FileNameTrainFeatures, config.FileNameTrainLabels)
		log.Println("load test")
		test = wtl.ReadDMatrix(config.FileNameTestFeatures, config.FileNameTestLabels)
	} else {
		log.Println("generate synthetic gaussian blobs")
		train = wtl.GenerateGaussianBlobs(config.SyntheticSamples, config.SyntheticFeatures,
			config.SyntheticClasses, config.SyntheticSpread, config.Seed)
		test = wtl.GenerateGaussianBlobs(config.SyntheticSamples/4, config.SyntheticFeatures,
			config.SyntheticClasses, config.SyntheticSpread, config.Seed+1)
	}
	train.SetDescription("train")
	test.SetDescription("test")
	return
}

type AlphasConfig struct {
	Dataset        DatasetConfig `json:"dataset"`
	Q              float64       `json:"q"`
	ThreadsNum     int           `json:"threads_num"`
	FileNameAlphas string        `json:"filename_alphas"`
}

func alphas(srcConfig string) {
	var alphasConfig AlphasConfig
	decodeConfig(srcConfig, &alphasConfig)

	train, _ := loadPair(alphasConfig.Dataset)
	scaler := wtl.FitScaler(train.Features)
	scaled := scaler.Transform(train.Features)

	reference := wtl.GaussianReference{Q: alphasConfig.Q}.BuildReference()
	found, err := wtl.OptimalAlphas(scaled, reference, alphasConfig.ThreadsNum)
	wtl.HandleError(err)

	study := wtl.StudyResult{Alphas: found}
	study.SaveAlphas(alphasConfig.FileNameAlphas)
	log.Print("alphas written to ", alphasConfig.FileNameAlphas)
}

type StudyConfig struct {
	Dataset          DatasetConfig   `json:"dataset"`
	Q                float64         `json:"q"`
	ThreadsNum       int             `json:"threads_num"`
	Epochs           int             `json:"epochs"`
	BatchSize        int             `json:"batch_size"`
	HiddenSize       int             `json:"hidden_size"`
	LearningRate     float64         `json:"learning_rate"`
	Configs          []wtl.RunConfig `json:"configs"`
	FileNameCurves   string          `json:"filename_curves"`
	FileNameAlphas   string          `json:"filename_alphas"`
	FileNameResults  string          `json:"filename_results_db"`
	FigureType       string          `json:"figure_type"`
	FileNameNetImage string          `json:"filename_network_figure"`
}

func study(srcConfig string) {
	var studyConfig StudyConfig
	decodeConfig(srcConfig, &studyConfig)

	train, test := loadPair(studyConfig.Dataset)

	configs := studyConfig.Configs
	if configs == nil {
		configs = wtl.DefaultConfigs()
	}

	result, err := wtl.RunStudy(train, test, wtl.StudyParams{
		Q:          studyConfig.Q,
		ThreadsNum: studyConfig.ThreadsNum,
		Configs:    configs,
		Train: wtl.TrainParams{
			Epochs:       studyConfig.Epochs,
			BatchSize:    studyConfig.BatchSize,
			HiddenSize:   studyConfig.HiddenSize,
			LearningRate: studyConfig.LearningRate,
			Seed:         studyConfig.Dataset.Seed,
		},
	})
	wtl.HandleError(err)

	for configInd, config := range configs {
		log.Printf("final mean alpha for %q = %.4f", config.Name, result.FinalMeanAlpha(configInd))
	}

	if studyConfig.FileNameCurves != "" {
		result.DumpCurves(studyConfig.FileNameCurves)
	}
	if studyConfig.FileNameAlphas != "" {
		result.SaveAlphas(studyConfig.FileNameAlphas)
	}
	if studyConfig.FileNameResults != "" {
		wtl.HandleError(result.WriteSQLite(studyConfig.FileNameResults, configs))
	}
	if studyConfig.FileNameNetImage != "" {
		wtl.RenderNetwork(result.Alphas, studyConfig.HiddenSize, train.NumClasses(),
			studyConfig.FigureType, studyConfig.FileNameNetImage)
	}
}

type TrainConfig struct {
	Dataset        DatasetConfig `json:"dataset"`
	Q              float64       `json:"q"`
	ThreadsNum     int           `json:"threads_num"`
	Epochs         int           `json:"epochs"`
	BatchSize      int           `json:"batch_size"`
	HiddenSize     int           `json:"hidden_size"`
	LearningRate   float64       `json:"learning_rate"`
	Config         wtl.RunConfig `json:"config"`
	FileNameCurves string        `json:"filename_curves"`
}

func train(srcConfig string) {
	var trainConfig TrainConfig
	decodeConfig(srcConfig, &trainConfig)

	trainSet, testSet := loadPair(trainConfig.Dataset)

	result, err := wtl.RunStudy(trainSet, testSet, wtl.StudyParams{
		Q:          trainConfig.Q,
		ThreadsNum: trainConfig.ThreadsNum,
		Configs:    []wtl.RunConfig{trainConfig.Config},
		Train: wtl.TrainParams{
			Epochs:       trainConfig.Epochs,
			BatchSize:    trainConfig.BatchSize,
			HiddenSize:   trainConfig.HiddenSize,
			LearningRate: trainConfig.LearningRate,
			Seed:         trainConfig.Dataset.Seed,
		},
	})
	wtl.HandleError(err)

	if trainConfig.FileNameCurves != "" {
		result.DumpCurves(trainConfig.FileNameCurves)
	}
}

type GraphConfig struct {
	FileNameAlphas   string `json:"filename_alphas"`
	HiddenSize       int    `json:"hidden_size"`
	Classes          int    `json:"classes"`
	FigureType       string `json:"figure_type"`
	FileNameNetImage string `json:"filename_network_figure"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	column := wtl.ReadNpy(graphConfig.FileNameAlphas)
	h := wtl.Height(column)
	found := make([]float64, h)
	for p := 0; p < h; p++ {
		found[p] = column.At(p, 0)
	}

	wtl.RenderNetwork(found, graphConfig.HiddenSize, graphConfig.Classes,
		graphConfig.FigureType, graphConfig.FileNameNetImage)
}

func main() {
	runMode := flag.String("mode", "study", "you can select either 'alphas', 'train', 'study' or 'graph' modes")
	config := flag.String("config", "wtanh_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	map[string]func(string){
		"alphas": alphas,
		"train":  train,
		"study":  study,
		"graph":  graph,
	}[*runMode](*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		wtl.HandleError(err)
		defer func() { wtl.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}

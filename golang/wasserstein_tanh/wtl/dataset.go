package wtl

import (
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

//DMatrix bundles a feature matrix with integer class labels.
type DMatrix struct {
	Features    *mat.Dense
	Labels      []int
	Description *string
}

//SetDescription sets a description for a DMatrix object
func (dmatrix *DMatrix) SetDescription(description string) {
	dmatrix.Description = &description
}

//ReadNpy reads the content of npy file
func ReadNpy(fileName string) (denseMat *mat.Dense) {
	f, err := os.Open(fileName)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { HandleError(f.Close()) }()

	r, err := npyio.NewReader(f)
	if err != nil {
		log.Fatal(err)
	}

	denseMat = &mat.Dense{}
	HandleError(r.Read(denseMat))
	return
}

//ReadDMatrix reads the two components of a data set and unites them into one
//DMatrix object. Labels are stored on disk as an h x 1 float array of class
//indices.
func ReadDMatrix(fileNameFeatures, fileNameLabels string) (dmatrix DMatrix) {
	log.Print("\ttry to load features <", fileNameFeatures, ">")
	dmatrix.Features = ReadNpy(fileNameFeatures)
	log.Print("\ttry to load labels <", fileNameLabels, ">")
	rawLabels := ReadNpy(fileNameLabels)

	h := Height(rawLabels)
	if h != Height(dmatrix.Features) {
		log.Panicf("the labels height %d is not equal to the features height %d", h, Height(dmatrix.Features))
	}

	dmatrix.Labels = make([]int, h)
	for p := 0; p < h; p++ {
		dmatrix.Labels[p] = int(rawLabels.At(p, 0))
	}

	return
}

//NumClasses returns the number of distinct classes assuming labels 0..k-1.
func (dmatrix DMatrix) NumClasses() int {
	maxLabel := 0
	for _, label := range dmatrix.Labels {
		if label > maxLabel {
			maxLabel = label
		}
	}
	return maxLabel + 1
}

//validatedDimensions checks the consistency of the feature matrix against the
//labels and returns the height (the number of objects) and the width
//(the number of features) of the current dataset.
func (dmatrix DMatrix) validatedDimensions() (h, w int) {
	h, w = dmatrix.Features.Dims()
	if len(dmatrix.Labels) != h {
		log.Panicf("the labels length %d is not equal to the features height %d", len(dmatrix.Labels), h)
	}
	return h, w
}

//Scaler standardizes features with the column means and standard deviations
//of the set it was fitted on. Test data must be transformed with the scaler
//fitted on the training data.
type Scaler struct {
	Mean, Std []float64
}

//FitScaler computes per-column mean and standard deviation.
func FitScaler(features *mat.Dense) Scaler {
	h, w := features.Dims()
	scaler := Scaler{Mean: make([]float64, w), Std: make([]float64, w)}
	column := make([]float64, h)
	for q := 0; q < w; q++ {
		mat.Col(column, q, features)
		mean, std := stat.MeanStdDev(column, nil)
		if std == 0 || math.IsNaN(std) {
			std = 1.0
		}
		scaler.Mean[q] = mean
		scaler.Std[q] = std
	}
	return scaler
}

//Transform returns a standardized copy of the features.
func (scaler Scaler) Transform(features *mat.Dense) *mat.Dense {
	h, w := features.Dims()
	out := mat.NewDense(h, w, nil)
	for p := 0; p < h; p++ {
		for q := 0; q < w; q++ {
			out.Set(p, q, (features.At(p, q)-scaler.Mean[q])/scaler.Std[q])
		}
	}
	return out
}

//GenerateGaussianBlobs draws a synthetic classification dataset: one Gaussian
//cloud per class, centers placed on the diagonal spread apart from each other.
func GenerateGaussianBlobs(samples, features, classes int, spread float64, seed int64) DMatrix {
	rng := rand.New(rand.NewSource(seed))

	rawFeatures := mat.NewDense(samples, features, nil)
	labels := make([]int, samples)

	for p := 0; p < samples; p++ {
		label := p % classes
		center := spread * (float64(label) - float64(classes-1)/2.0)
		for q := 0; q < features; q++ {
			rawFeatures.Set(p, q, center+rng.NormFloat64())
		}
		labels[p] = label
	}

	return DMatrix{Features: rawFeatures, Labels: labels}
}

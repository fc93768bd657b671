package dataset

import (
	"fmt"
	"math/rand"
	"path/filepath"

	"github.com/autograde-ml/autograde/internal/graph"
	"github.com/autograde-ml/autograde/internal/tensor"
)

const (
	digitPixels    = 784 // 28×28 grayscale images, flattened
	digitClasses   = 10
	digitValidSize = 1000 // training rows held out for validation
)

// DigitDataset holds handwritten-digit images for question q3.
//
// Features are pixel intensities normalized to [0, 1]; training labels are
// one-hot rows. The last digitValidSize training rows are held out as the
// validation split that training loops monitor.
type DigitDataset struct {
	trainX *tensor.Tensor // (n, 784)
	trainY *tensor.Tensor // (n, 10), one-hot

	valX      *tensor.Tensor
	valLabels []int

	testX      *tensor.Tensor
	testLabels []int
}

// LoadDigits reads the MNIST IDX files from dir.
//
// Expected files: train-images-idx3-ubyte, train-labels-idx1-ubyte,
// t10k-images-idx3-ubyte, t10k-labels-idx1-ubyte.
func LoadDigits(dir string) (*DigitDataset, error) {
	trainImages, err := readIDXImages(filepath.Join(dir, "train-images-idx3-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("load train images: %w", err)
	}
	trainLabels, err := readIDXLabels(filepath.Join(dir, "train-labels-idx1-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("load train labels: %w", err)
	}
	testImages, err := readIDXImages(filepath.Join(dir, "t10k-images-idx3-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("load test images: %w", err)
	}
	testLabels, err := readIDXLabels(filepath.Join(dir, "t10k-labels-idx1-ubyte"))
	if err != nil {
		return nil, fmt.Errorf("load test labels: %w", err)
	}
	if len(trainImages) != len(trainLabels) {
		return nil, fmt.Errorf("train image count (%d) != label count (%d)", len(trainImages), len(trainLabels))
	}
	if len(trainImages) <= digitValidSize {
		return nil, fmt.Errorf("need more than %d training images, got %d", digitValidSize, len(trainImages))
	}

	split := len(trainImages) - digitValidSize
	d := &DigitDataset{
		trainX:     imagesToTensor(trainImages[:split]),
		trainY:     labelsToOneHot(trainLabels[:split]),
		valX:       imagesToTensor(trainImages[split:]),
		valLabels:  labelsToInts(trainLabels[split:]),
		testX:      imagesToTensor(testImages),
		testLabels: labelsToInts(testLabels),
	}
	return d, nil
}

// SyntheticDigits builds a small learnable stand-in dataset for tests:
// each class lights up its own block of pixels, with additive noise.
func SyntheticDigits(train, val, test int, seed int64) *DigitDataset {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible data generation
	gen := func(n int) (*tensor.Tensor, []int) {
		x := tensor.New(tensor.Shape{n, digitPixels})
		labels := make([]int, n)
		for i := 0; i < n; i++ {
			class := rng.Intn(digitClasses)
			labels[i] = class
			for j := 0; j < digitPixels; j++ {
				v := rng.Float64() * 0.1
				if j/(digitPixels/digitClasses) == class {
					v += 0.8
				}
				x.Set(i, j, v)
			}
		}
		return x, labels
	}

	trainX, trainLabels := gen(train)
	valX, valLabels := gen(val)
	testX, testLabels := gen(test)
	return &DigitDataset{
		trainX:     trainX,
		trainY:     intsToOneHot(trainLabels),
		valX:       valX,
		valLabels:  valLabels,
		testX:      testX,
		testLabels: testLabels,
	}
}

// IterateOnce returns one epoch of training mini-batches.
func (d *DigitDataset) IterateOnce(batchSize int) []Batch {
	return sliceBatches(d.trainX, d.trainY, batchSize)
}

// ValidationAccuracy runs the model on the validation split and returns
// the fraction of correctly classified digits.
func (d *DigitDataset) ValidationAccuracy(run func(x graph.Node) graph.Node) float64 {
	logits := run(graph.NewConstant(d.valX))
	return accuracy(logits.Data().ArgmaxRows(), d.valLabels)
}

// X returns the full training feature matrix.
func (d *DigitDataset) X() *tensor.Tensor { return d.trainX }

// Y returns the full one-hot training label matrix.
func (d *DigitDataset) Y() *tensor.Tensor { return d.trainY }

// TestImages returns the held-out test feature matrix.
func (d *DigitDataset) TestImages() *tensor.Tensor { return d.testX }

// TestLabels returns the test labels as class indices.
func (d *DigitDataset) TestLabels() []int { return d.testLabels }

func imagesToTensor(images [][]byte) *tensor.Tensor {
	x := tensor.New(tensor.Shape{len(images), digitPixels})
	for i, img := range images {
		for j, pixel := range img {
			x.Set(i, j, float64(pixel)/255.0)
		}
	}
	return x
}

func labelsToOneHot(labels []byte) *tensor.Tensor {
	return intsToOneHot(labelsToInts(labels))
}

func intsToOneHot(labels []int) *tensor.Tensor {
	y := tensor.New(tensor.Shape{len(labels), digitClasses})
	for i, label := range labels {
		y.Set(i, label, 1)
	}
	return y
}

func labelsToInts(labels []byte) []int {
	out := make([]int, len(labels))
	for i, l := range labels {
		out[i] = int(l)
	}
	return out
}

func accuracy(predicted, want []int) float64 {
	if len(want) == 0 {
		return 0
	}
	correct := 0
	for i, p := range predicted {
		if p == want[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(want))
}

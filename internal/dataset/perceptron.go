package dataset

import (
	"math/rand"

	"github.com/autograde-ml/autograde/internal/tensor"
)

// Margin enforced between the generating hyperplane and every sample.
// A positive margin guarantees the perceptron training loop terminates.
const perceptronMargin = 0.1

// PerceptronDataset holds linearly separable binary-classification points.
//
// Each point is (x1, x2, 1): two coordinates in [-1, 1] plus a constant
// feature standing in for the bias term. Labels are ±1 by the side of a
// fixed hyperplane, with points inside the margin resampled.
type PerceptronDataset struct {
	x *tensor.Tensor // (n, 3)
	y *tensor.Tensor // (n, 1), entries ±1
}

// NewPerceptron generates a separable dataset of n points.
func NewPerceptron(n int, seed int64) *PerceptronDataset {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible data generation
	separator := []float64{0.8, -1.1, 0.25}

	x := tensor.New(tensor.Shape{n, 3})
	y := tensor.New(tensor.Shape{n, 1})
	for i := 0; i < n; i++ {
		for {
			p := []float64{rng.Float64()*2 - 1, rng.Float64()*2 - 1, 1}
			score := p[0]*separator[0] + p[1]*separator[1] + p[2]*separator[2]
			if score > -perceptronMargin && score < perceptronMargin {
				continue // Too close to the boundary, resample.
			}
			x.Set(i, 0, p[0])
			x.Set(i, 1, p[1])
			x.Set(i, 2, p[2])
			if score > 0 {
				y.Set(i, 0, 1)
			} else {
				y.Set(i, 0, -1)
			}
			break
		}
	}
	return &PerceptronDataset{x: x, y: y}
}

// IterateOnce returns one epoch of mini-batches.
func (d *PerceptronDataset) IterateOnce(batchSize int) []Batch {
	return sliceBatches(d.x, d.y, batchSize)
}

// X returns the full (n, 3) feature matrix.
func (d *PerceptronDataset) X() *tensor.Tensor { return d.x }

// Y returns the full (n, 1) label matrix.
func (d *PerceptronDataset) Y() *tensor.Tensor { return d.y }

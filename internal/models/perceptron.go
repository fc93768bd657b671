// Package models holds the four graded network definitions. Each model
// owns its Parameters (created once, reused across every forward pass),
// builds a computation graph in Run, and trains itself against a dataset.
package models

import (
	"github.com/autograde-ml/autograde/internal/dataset"
	"github.com/autograde-ml/autograde/internal/graph"
)

// PerceptronModel classifies points as +1 or -1 by the sign of a learned
// weight vector dotted with the features.
type PerceptronModel struct {
	w *graph.Parameter // (1, dimensions)
}

// NewPerceptron creates a perceptron for the given input dimensionality.
func NewPerceptron(dimensions int) *PerceptronModel {
	return &PerceptronModel{w: graph.NewParameter(1, dimensions)}
}

// Weights returns the weight Parameter.
func (m *PerceptronModel) Weights() *graph.Parameter {
	return m.w
}

// Run scores a single data point x of shape (1, dimensions), returning a
// (1, 1) node.
func (m *PerceptronModel) Run(x graph.Node) graph.Node {
	return graph.NewDotProduct(m.w, x)
}

// Prediction returns the predicted class, +1 or -1, for a single point.
func (m *PerceptronModel) Prediction(x graph.Node) int {
	if graph.AsScalar(m.Run(x)) >= 0 {
		return 1
	}
	return -1
}

// Train runs the perceptron update rule until a full pass over the data
// makes no mistakes. The dataset is linearly separable with a margin, so
// this terminates.
func (m *PerceptronModel) Train(data *dataset.PerceptronDataset) {
	for {
		mistakes := 0
		for _, batch := range data.IterateOnce(1) {
			label := graph.AsScalar(batch.Y)
			if m.Prediction(batch.X) != int(label) {
				mistakes++
				m.w.Update(batch.X, label)
			}
		}
		if mistakes == 0 {
			return
		}
	}
}

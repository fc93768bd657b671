package models

import (
	"github.com/autograde-ml/autograde/internal/dataset"
	"github.com/autograde-ml/autograde/internal/graph"
)

const (
	regressionHidden = 100
	regressionLR     = 0.005
	regressionTarget = 0.02
)

// RegressionModel approximates sin(x) on [-2π, 2π] with a single hidden
// layer of ReLU units.
type RegressionModel struct {
	w0 *graph.Parameter // (1, hidden)
	b0 *graph.Parameter // (1, hidden)
	w1 *graph.Parameter // (hidden, 1)
	b1 *graph.Parameter // (1, 1)
}

// NewRegression creates the regression network.
func NewRegression() *RegressionModel {
	return &RegressionModel{
		w0: graph.NewParameter(1, regressionHidden),
		b0: graph.NewParameter(1, regressionHidden),
		w1: graph.NewParameter(regressionHidden, 1),
		b1: graph.NewParameter(1, 1),
	}
}

// Run predicts y-values for a batch of inputs of shape (batch, 1),
// returning a (batch, 1) node.
func (m *RegressionModel) Run(x graph.Node) graph.Node {
	hidden := graph.NewReLU(graph.NewAddBias(graph.NewLinear(x, m.w0), m.b0))
	return graph.NewAddBias(graph.NewLinear(hidden, m.w1), m.b1)
}

// Loss builds the square loss between predictions for x and targets y.
func (m *RegressionModel) Loss(x, y graph.Node) graph.Loss {
	return graph.NewSquareLoss(m.Run(x), y)
}

// Train runs gradient descent until the loss over the whole dataset drops
// below the target threshold.
func (m *RegressionModel) Train(data *dataset.RegressionDataset) {
	params := []*graph.Parameter{m.w0, m.b0, m.w1, m.b1}
	for {
		for _, batch := range data.IterateOnce(1) {
			grads := graph.Gradients(m.Loss(batch.X, batch.Y), params)
			for i, p := range params {
				p.Update(grads[i], -regressionLR)
			}
		}

		full := m.Loss(graph.NewConstant(data.X()), graph.NewConstant(data.Y()))
		if graph.AsScalar(full) < regressionTarget {
			return
		}
	}
}

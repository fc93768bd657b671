package models

import (
	"github.com/autograde-ml/autograde/internal/dataset"
	"github.com/autograde-ml/autograde/internal/graph"
)

const (
	digitInputs  = 784
	digitHidden  = 100
	digitClasses = 10

	digitBatchSize = 100
	digitLR        = 0.5
	digitTarget    = 0.975 // validation accuracy that ends training
	digitMaxEpochs = 60
)

// DigitClassificationModel classifies 28×28 handwritten digits flattened
// to 784 features, producing one logit per digit class.
type DigitClassificationModel struct {
	w0 *graph.Parameter // (784, hidden)
	b0 *graph.Parameter // (1, hidden)
	w1 *graph.Parameter // (hidden, 10)
	b1 *graph.Parameter // (1, 10)
}

// NewDigitClassification creates the digit classifier.
func NewDigitClassification() *DigitClassificationModel {
	return &DigitClassificationModel{
		w0: graph.NewParameter(digitInputs, digitHidden),
		b0: graph.NewParameter(1, digitHidden),
		w1: graph.NewParameter(digitHidden, digitClasses),
		b1: graph.NewParameter(1, digitClasses),
	}
}

// Run computes logits for a batch of images of shape (batch, 784),
// returning a (batch, 10) node.
func (m *DigitClassificationModel) Run(x graph.Node) graph.Node {
	hidden := graph.NewReLU(graph.NewAddBias(graph.NewLinear(x, m.w0), m.b0))
	return graph.NewAddBias(graph.NewLinear(hidden, m.w1), m.b1)
}

// Loss builds the softmax loss between logits for x and one-hot labels y.
func (m *DigitClassificationModel) Loss(x, y graph.Node) graph.Loss {
	return graph.NewSoftmaxLoss(m.Run(x), y)
}

// Train runs mini-batch gradient descent until validation accuracy reaches
// the target, bounded by digitMaxEpochs so grading always terminates.
func (m *DigitClassificationModel) Train(data *dataset.DigitDataset) {
	params := []*graph.Parameter{m.w0, m.b0, m.w1, m.b1}
	for epoch := 0; epoch < digitMaxEpochs; epoch++ {
		for _, batch := range data.IterateOnce(digitBatchSize) {
			grads := graph.Gradients(m.Loss(batch.X, batch.Y), params)
			for i, p := range params {
				p.Update(grads[i], -digitLR)
			}
		}
		if data.ValidationAccuracy(m.Run) >= digitTarget {
			return
		}
	}
}

package graph

import (
	"fmt"

	"github.com/autograde-ml/autograde/internal/tensor"
)

// Loss marks nodes that can sit at the root of a training graph and be
// passed to Gradients.
type Loss interface {
	Node
	lossNode()
}

// SquareLoss computes half the mean squared difference between two nodes:
// mean((a - b)² / 2). Used for regression.
type SquareLoss struct {
	a, b Node
	data *tensor.Tensor
}

// NewSquareLoss creates a square-loss node over predictions a and targets b.
func NewSquareLoss(a, b Node) *SquareLoss {
	if !a.Data().Shape().Equal(b.Data().Shape()) {
		panic(fmt.Sprintf("square loss: shape mismatch %s vs %s", a.Data().Shape(), b.Data().Shape()))
	}
	diff := a.Data().Sub(b.Data())
	loss := diff.Mul(diff).Mean() / 2
	data := tensor.Full(tensor.Shape{1, 1}, loss)
	return &SquareLoss{a: a, b: b, data: data}
}

func (n *SquareLoss) Parents() []Node      { return []Node{n.a, n.b} }
func (n *SquareLoss) Data() *tensor.Tensor { return n.data }
func (n *SquareLoss) lossNode()            {}

func (n *SquareLoss) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	g := outputGrad.At(0, 0) / float64(n.a.Data().NumElements())
	diff := n.a.Data().Sub(n.b.Data())
	return []*tensor.Tensor{
		diff.Scale(g),
		diff.Scale(-g),
	}
}

// SoftmaxLoss computes the mean softmax cross-entropy between logits and
// one-hot labels, both of shape (batch, classes). Used for classification.
type SoftmaxLoss struct {
	logits, labels Node
	data           *tensor.Tensor
}

// NewSoftmaxLoss creates a softmax cross-entropy node.
//
// labels must be a batch of one-hot rows; the constructor validates that
// every entry is non-negative and each row sums to 1.
func NewSoftmaxLoss(logits, labels Node) *SoftmaxLoss {
	if !logits.Data().Shape().Equal(labels.Data().Shape()) {
		panic(fmt.Sprintf("softmax loss: shape mismatch %s vs %s",
			logits.Data().Shape(), labels.Data().Shape()))
	}
	validateDistribution(labels.Data())

	logProbs := logits.Data().LogSoftmaxRows()
	batch := float64(logits.Data().Rows())
	loss := -labels.Data().Mul(logProbs).Sum() / batch
	return &SoftmaxLoss{
		logits: logits,
		labels: labels,
		data:   tensor.Full(tensor.Shape{1, 1}, loss),
	}
}

func (n *SoftmaxLoss) Parents() []Node      { return []Node{n.logits, n.labels} }
func (n *SoftmaxLoss) Data() *tensor.Tensor { return n.data }
func (n *SoftmaxLoss) lossNode()            {}

func (n *SoftmaxLoss) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	batch := float64(n.logits.Data().Rows())
	g := outputGrad.At(0, 0) / batch
	// d(loss)/d(logits) = (softmax(logits) - labels) / batch
	dLogits := n.logits.Data().SoftmaxRows().Sub(n.labels.Data()).Scale(g)
	// d(loss)/d(labels) = -log_softmax(logits) / batch
	dLabels := n.logits.Data().LogSoftmaxRows().Scale(-g)
	return []*tensor.Tensor{dLogits, dLabels}
}

func validateDistribution(labels *tensor.Tensor) {
	cols := labels.Cols()
	for i := 0; i < labels.Rows(); i++ {
		var sum float64
		for j := 0; j < cols; j++ {
			v := labels.At(i, j)
			if v < 0 {
				panic("softmax loss: labels must be non-negative")
			}
			sum += v
		}
		if sum < 1-1e-9 || sum > 1+1e-9 {
			panic("softmax loss: each label row must sum to 1")
		}
	}
}

// Package graph implements the computation graph the graded models build.
//
// Every value in a forward pass is a Node: trainable Parameters and input
// Constants are leaves, operation nodes (Linear, AddBias, ReLU, Add,
// DotProduct) combine them, and loss nodes (SquareLoss, SoftmaxLoss) sit at
// the root during training. Nodes record their parents, so the finished
// graph is a DAG that can be traversed for two purposes: reverse-mode
// gradient computation (Gradients) and structural inspection by the grading
// harness (Trace).
//
// Forward values are computed eagerly at node construction, which keeps the
// node types small: a parent list plus a data tensor.
package graph

import (
	"fmt"
	"math/rand"

	"github.com/autograde-ml/autograde/internal/tensor"
)

// Node is a vertex in the computation graph.
//
// Parents returns the node's direct dependencies in a fixed order; leaves
// return nil. Data returns the tensor value computed for this node.
type Node interface {
	Parents() []Node
	Data() *tensor.Tensor
}

// operation is implemented by non-leaf nodes. backward computes the
// gradient of the loss with respect to each parent, given the gradient
// with respect to this node, in parent order.
type operation interface {
	Node
	backward(outputGrad *tensor.Tensor) []*tensor.Tensor
}

// rng drives parameter initialization. The grader runs single-threaded and
// a fixed seed keeps grading runs reproducible.
var rng = rand.New(rand.NewSource(1)) //nolint:gosec // not security-sensitive

// Parameter is a trainable node holding learnable weights.
//
// Models must create their Parameters once, in the constructor, and reuse
// the same objects across forward passes: the harness checks parameter
// identity, not value equality.
type Parameter struct {
	data *tensor.Tensor
}

// NewParameter creates a (rows, cols) parameter with Xavier initialization.
func NewParameter(rows, cols int) *Parameter {
	return &Parameter{data: tensor.Xavier(rows, cols, tensor.Shape{rows, cols}, rng)}
}

// Parents returns nil: parameters are graph leaves.
func (p *Parameter) Parents() []Node { return nil }

// Data returns the current weight tensor.
func (p *Parameter) Data() *tensor.Tensor { return p.data }

// Update performs the in-place step: p += multiplier * direction.
//
// direction is typically a gradient Constant from Gradients, with multiplier
// set to the negated learning rate; the perceptron instead passes a feature
// Constant with multiplier ±1.
func (p *Parameter) Update(direction Node, multiplier float64) {
	if direction == nil {
		panic("parameter update: direction must be a node, not nil")
	}
	if !direction.Data().Shape().Equal(p.data.Shape()) {
		panic(fmt.Sprintf("parameter update: direction shape %s does not match parameter shape %s",
			direction.Data().Shape(), p.data.Shape()))
	}
	p.data.AddScaled(direction.Data(), multiplier)
}

// Constant is an input node: features, labels, or gradients returned by
// Gradients. Constants are never updated during training.
type Constant struct {
	data *tensor.Tensor
}

// NewConstant wraps a tensor as a graph leaf.
func NewConstant(t *tensor.Tensor) *Constant {
	if t == nil {
		panic("constant: nil tensor")
	}
	return &Constant{data: t}
}

// Parents returns nil: constants are graph leaves.
func (c *Constant) Parents() []Node { return nil }

// Data returns the wrapped tensor.
func (c *Constant) Data() *tensor.Tensor { return c.data }

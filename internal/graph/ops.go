package graph

import (
	"fmt"

	"github.com/autograde-ml/autograde/internal/tensor"
)

// Add performs element-wise addition of two nodes with identical shapes.
type Add struct {
	x, y Node
	data *tensor.Tensor
}

// NewAdd creates an addition node: x + y.
func NewAdd(x, y Node) *Add {
	if !x.Data().Shape().Equal(y.Data().Shape()) {
		panic(fmt.Sprintf("add: shape mismatch %s vs %s", x.Data().Shape(), y.Data().Shape()))
	}
	return &Add{x: x, y: y, data: x.Data().Add(y.Data())}
}

func (n *Add) Parents() []Node      { return []Node{n.x, n.y} }
func (n *Add) Data() *tensor.Tensor { return n.data }

func (n *Add) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	return []*tensor.Tensor{outputGrad, outputGrad}
}

// AddBias broadcasts a (1, features) bias over a (batch, features) input.
type AddBias struct {
	x, bias Node
	data    *tensor.Tensor
}

// NewAddBias creates a bias-addition node: x + bias, row-broadcast.
func NewAddBias(x, bias Node) *AddBias {
	biasShape := bias.Data().Shape()
	if len(biasShape) != 2 || biasShape[0] != 1 {
		panic(fmt.Sprintf("add bias: bias must have shape (1, features), got %s", biasShape))
	}
	return &AddBias{x: x, bias: bias, data: x.Data().AddRow(bias.Data())}
}

func (n *AddBias) Parents() []Node      { return []Node{n.x, n.bias} }
func (n *AddBias) Data() *tensor.Tensor { return n.data }

func (n *AddBias) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	// The bias gradient sums over the batch dimension.
	return []*tensor.Tensor{outputGrad, outputGrad.SumRows()}
}

// Linear applies a linear transformation: x @ w.
//
// x has shape (batch, inFeatures), w has shape (inFeatures, outFeatures),
// and the result has shape (batch, outFeatures).
type Linear struct {
	x, w Node
	data *tensor.Tensor
}

// NewLinear creates a matrix-multiplication node: x @ w.
func NewLinear(x, w Node) *Linear {
	return &Linear{x: x, w: w, data: x.Data().MatMul(w.Data())}
}

func (n *Linear) Parents() []Node      { return []Node{n.x, n.w} }
func (n *Linear) Data() *tensor.Tensor { return n.data }

func (n *Linear) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	// d(x@w)/dx = grad @ wᵀ, d(x@w)/dw = xᵀ @ grad
	return []*tensor.Tensor{
		outputGrad.MatMul(n.w.Data().Transpose()),
		n.x.Data().Transpose().MatMul(outputGrad),
	}
}

// ReLU applies the rectified linear unit: max(0, x).
type ReLU struct {
	x    Node
	data *tensor.Tensor
}

// NewReLU creates a ReLU activation node.
func NewReLU(x Node) *ReLU {
	return &ReLU{x: x, data: x.Data().ReLU()}
}

func (n *ReLU) Parents() []Node      { return []Node{n.x} }
func (n *ReLU) Data() *tensor.Tensor { return n.data }

func (n *ReLU) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	// Gradient flows only through positions where the input was positive.
	mask := tensor.New(n.x.Data().Shape())
	for i, v := range n.x.Data().Data() {
		if v > 0 {
			mask.Data()[i] = 1
		}
	}
	return []*tensor.Tensor{outputGrad.Mul(mask)}
}

// DotProduct computes the inner product of two (1, features) nodes,
// producing a (1, 1) score. The perceptron uses it for classification.
type DotProduct struct {
	a, b Node
	data *tensor.Tensor
}

// NewDotProduct creates a dot-product node: a · b.
func NewDotProduct(a, b Node) *DotProduct {
	aShape, bShape := a.Data().Shape(), b.Data().Shape()
	if len(aShape) != 2 || aShape[0] != 1 {
		panic(fmt.Sprintf("dot product: expected shape (1, features), got %s", aShape))
	}
	if !aShape.Equal(bShape) {
		panic(fmt.Sprintf("dot product: shape mismatch %s vs %s", aShape, bShape))
	}
	return &DotProduct{a: a, b: b, data: a.Data().MatMul(b.Data().Transpose())}
}

func (n *DotProduct) Parents() []Node      { return []Node{n.a, n.b} }
func (n *DotProduct) Data() *tensor.Tensor { return n.data }

func (n *DotProduct) backward(outputGrad *tensor.Tensor) []*tensor.Tensor {
	g := outputGrad.At(0, 0)
	return []*tensor.Tensor{
		n.b.Data().Scale(g),
		n.a.Data().Scale(g),
	}
}

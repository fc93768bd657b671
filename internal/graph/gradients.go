package graph

import (
	"fmt"

	"github.com/autograde-ml/autograde/internal/tensor"
)

// AsScalar extracts the single value of a (1, 1) node.
func AsScalar(n Node) float64 {
	if n.Data().NumElements() != 1 {
		panic(fmt.Sprintf("as scalar: node has shape %s, expected a single element", n.Data().Shape()))
	}
	return n.Data().Data()[0]
}

// Gradients computes the gradient of loss with respect to each parameter,
// returned as Constant nodes in the same order as params.
//
// The loss graph is linearized with Trace and walked in reverse: each
// operation distributes its output gradient to its parents, and gradients
// accumulate when a node feeds several consumers. Every parameter must be
// an ancestor of the loss; asking for the gradient of an unused parameter
// is a caller bug and panics.
func Gradients(loss Loss, params []*Parameter) []*Constant {
	tape := Trace(loss)

	grads := make(map[Node]*tensor.Tensor, len(tape))
	grads[loss] = tensor.Ones(tensor.Shape{1, 1})

	for i := len(tape) - 1; i >= 0; i-- {
		op, ok := tape[i].(operation)
		if !ok {
			continue // Leaves have no parents to propagate to.
		}
		outputGrad := grads[tape[i]]
		if outputGrad == nil {
			continue
		}
		parents := op.Parents()
		for j, parentGrad := range op.backward(outputGrad) {
			if existing := grads[parents[j]]; existing != nil {
				grads[parents[j]] = existing.Add(parentGrad)
			} else {
				grads[parents[j]] = parentGrad
			}
		}
	}

	out := make([]*Constant, len(params))
	for i, p := range params {
		g := grads[p]
		if g == nil {
			panic(fmt.Sprintf("gradients: parameter %d does not appear in the computation graph of the loss", i))
		}
		out[i] = NewConstant(g)
	}
	return out
}

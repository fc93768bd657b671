package grade

import (
	"fmt"

	"github.com/autograde-ml/autograde/internal/graph"
	"github.com/autograde-ml/autograde/internal/tensor"
)

// NodeKind names the node variants VerifyNode can check for.
type NodeKind string

// Node variants checked by VerifyNode.
const (
	KindParameter NodeKind = "parameter"
	KindLoss      NodeKind = "loss"
	KindNode      NodeKind = "node"
)

// VerifyNode checks that a value returned by model code is a node of the
// expected variant and shape. shape may contain -1 for dimensions that are
// not pinned (such as batch size) and is ignored for loss nodes, which are
// always scalar. method names the model method being checked, for error
// messages shown to the learner.
func VerifyNode(node graph.Node, kind NodeKind, shape tensor.Shape, method string) error {
	switch kind {
	case KindParameter:
		if node == nil {
			return fmt.Errorf("%s should return a Parameter, not nil", method)
		}
		if _, ok := node.(*graph.Parameter); !ok {
			return fmt.Errorf("%s should return a Parameter, instead got type %T", method, node)
		}
	case KindLoss:
		if node == nil {
			return fmt.Errorf("%s should return a loss node, not nil", method)
		}
		if _, ok := node.(graph.Loss); !ok {
			return fmt.Errorf("%s should return a loss node, instead got type %T", method, node)
		}
	case KindNode:
		if node == nil {
			return fmt.Errorf("%s should return a node object, not nil", method)
		}
	default:
		panic(fmt.Sprintf("verify node: unknown kind %q", kind))
	}

	if kind != KindLoss && !node.Data().Shape().Match(shape) {
		return fmt.Errorf("%s should return an object with shape %s, got %s",
			method, shape, node.Data().Shape())
	}
	return nil
}

package graph

// Trace returns every node reachable from root through the parents
// relation, root included, in dependency order: each node appears after
// all of its ancestors.
//
// The traversal is a postorder depth-first walk with an explicit work
// stack, so arbitrarily deep graphs (long recurrences) cannot overflow the
// goroutine stack. The visited set is keyed by node identity: two nodes
// holding equal values are still distinct vertices, and a node reachable
// along several paths is visited exactly once.
//
// Gradients consumes the order; the grading harness consumes the
// membership ("does the output depend on this input", "which Parameters
// appear in the ancestry").
func Trace(root Node) []Node {
	type frame struct {
		node     Node
		expanded bool
	}

	visited := make(map[Node]bool)
	var tape []Node

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[f.node] {
			continue
		}
		if f.expanded {
			visited[f.node] = true
			tape = append(tape, f.node)
			continue
		}

		stack = append(stack, frame{node: f.node, expanded: true})
		parents := f.node.Parents()
		// Push in reverse so parents are visited in declaration order.
		for i := len(parents) - 1; i >= 0; i-- {
			if !visited[parents[i]] {
				stack = append(stack, frame{node: parents[i]})
			}
		}
	}

	return tape
}

// TraceSet returns the Trace of root as a membership set.
func TraceSet(root Node) map[Node]bool {
	tape := Trace(root)
	set := make(map[Node]bool, len(tape))
	for _, n := range tape {
		set[n] = true
	}
	return set
}

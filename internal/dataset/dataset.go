// Package dataset provides the training data behind each graded question.
//
// Every dataset hands out one epoch of mini-batches through IterateOnce;
// the slice is rebuilt on each call, so iterating again restarts the epoch.
// Batches wrap their tensors in graph Constants so model code can feed them
// straight into the computation graph.
package dataset

import (
	"github.com/autograde-ml/autograde/internal/graph"
	"github.com/autograde-ml/autograde/internal/tensor"
)

// Batch is a mini-batch of examples: X holds one feature row per example,
// Y the matching targets.
type Batch struct {
	X *graph.Constant
	Y *graph.Constant
}

// SequenceBatch is a mini-batch of variable-length sequences. Xs has one
// entry per timestep, each of shape (batch, features); all sequences in a
// batch share the same length.
type SequenceBatch struct {
	Xs []*graph.Constant
	Y  *graph.Constant
}

// sliceBatches cuts the rows of x and y into consecutive mini-batches.
// The last batch may be smaller when the row count does not divide evenly.
func sliceBatches(x, y *tensor.Tensor, batchSize int) []Batch {
	n := x.Rows()
	batches := make([]Batch, 0, (n+batchSize-1)/batchSize)
	for i := 0; i < n; i += batchSize {
		end := i + batchSize
		if end > n {
			end = n
		}
		batches = append(batches, Batch{
			X: graph.NewConstant(x.RowSlice(i, end)),
			Y: graph.NewConstant(y.RowSlice(i, end)),
		})
	}
	return batches
}

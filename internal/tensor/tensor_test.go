package tensor_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autograde-ml/autograde/internal/tensor"
)

func mustFromSlice(t *testing.T, data []float64, shape tensor.Shape) *tensor.Tensor {
	t.Helper()
	out, err := tensor.FromSlice(data, shape)
	require.NoError(t, err)
	return out
}

// TestShape_NumElements checks element counting.
func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 6, tensor.Shape{2, 3}.NumElements())
	assert.Equal(t, 1, tensor.Shape{1, 1}.NumElements())
}

// TestShape_Match checks wildcard dimension matching.
func TestShape_Match(t *testing.T) {
	shape := tensor.Shape{4, 10}
	assert.True(t, shape.Match(tensor.Shape{4, 10}))
	assert.True(t, shape.Match(tensor.Shape{-1, 10}))
	assert.True(t, shape.Match(tensor.Shape{-1, -1}))
	assert.False(t, shape.Match(tensor.Shape{-1, 5}))
	assert.False(t, shape.Match(tensor.Shape{4}))
}

// TestShape_String checks formatting, including the wildcard marker.
func TestShape_String(t *testing.T) {
	assert.Equal(t, "(2, 3)", tensor.Shape{2, 3}.String())
	assert.Equal(t, "(?, 10)", tensor.Shape{-1, 10}.String())
}

// TestFromSlice checks size validation.
func TestFromSlice(t *testing.T) {
	_, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{2, 2})
	assert.Error(t, err)

	out := mustFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	assert.Equal(t, 4.0, out.At(1, 1))
}

// TestRandn_Deterministic checks that the same seed yields the same
// initialization.
func TestRandn_Deterministic(t *testing.T) {
	a := tensor.Randn(tensor.Shape{3, 3}, rand.New(rand.NewSource(7)))
	b := tensor.Randn(tensor.Shape{3, 3}, rand.New(rand.NewSource(7)))
	assert.Equal(t, a.Data(), b.Data())
}

// TestXavier_Bounds checks that entries stay within the uniform range.
func TestXavier_Bounds(t *testing.T) {
	fanIn, fanOut := 100, 50
	limit := math.Sqrt(6.0 / float64(fanIn+fanOut))
	w := tensor.Xavier(fanIn, fanOut, tensor.Shape{fanIn, fanOut}, rand.New(rand.NewSource(1)))
	for _, v := range w.Data() {
		assert.LessOrEqual(t, math.Abs(v), limit)
	}
}

// TestElementwiseOps checks Add, Sub, Mul, and Scale.
func TestElementwiseOps(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := mustFromSlice(t, []float64{4, 3, 2, 1}, tensor.Shape{2, 2})

	assert.Equal(t, []float64{5, 5, 5, 5}, a.Add(b).Data())
	assert.Equal(t, []float64{-3, -1, 1, 3}, a.Sub(b).Data())
	assert.Equal(t, []float64{4, 6, 6, 4}, a.Mul(b).Data())
	assert.Equal(t, []float64{2, 4, 6, 8}, a.Scale(2).Data())
	// Operands are untouched.
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data())
}

// TestAddScaled checks the in-place update primitive.
func TestAddScaled(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2}, tensor.Shape{1, 2})
	dir := mustFromSlice(t, []float64{10, -10}, tensor.Shape{1, 2})
	a.AddScaled(dir, 0.1)
	assert.InDelta(t, 2.0, a.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, a.At(0, 1), 1e-12)
}

// TestAddRow checks row broadcasting.
func TestAddRow(t *testing.T) {
	x := mustFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	row := mustFromSlice(t, []float64{10, 20}, tensor.Shape{1, 2})
	assert.Equal(t, []float64{11, 22, 13, 24}, x.AddRow(row).Data())

	bad := mustFromSlice(t, []float64{1, 2, 3}, tensor.Shape{1, 3})
	assert.Panics(t, func() { x.AddRow(bad) })
}

// TestMatMul checks the product values and the inner-dimension panic.
func TestMatMul(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := mustFromSlice(t, []float64{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := a.MatMul(b)
	require.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float64{58, 64, 139, 154}, out.Data())

	assert.Panics(t, func() { a.MatMul(a) })
}

// TestTranspose checks the transpose values.
func TestTranspose(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	out := a.Transpose()
	require.True(t, out.Shape().Equal(tensor.Shape{3, 2}))
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, out.Data())
}

// TestSumRows checks collapsing over the batch dimension.
func TestSumRows(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	out := a.SumRows()
	require.True(t, out.Shape().Equal(tensor.Shape{1, 2}))
	assert.Equal(t, []float64{4, 6}, out.Data())
}

// TestReLU checks clamping.
func TestReLU(t *testing.T) {
	a := mustFromSlice(t, []float64{-3, 0, 1.5, -0.01}, tensor.Shape{2, 2})
	assert.Equal(t, []float64{0, 0, 1.5, 0}, a.ReLU().Data())
}

// TestSoftmaxRows checks normalization and shift invariance.
func TestSoftmaxRows(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 1000, 1001, 1002}, tensor.Shape{2, 3})
	out := a.SoftmaxRows()

	for i := 0; i < 2; i++ {
		sum := 0.0
		for j := 0; j < 3; j++ {
			sum += out.At(i, j)
		}
		assert.InDelta(t, 1.0, sum, 1e-12, "row %d should sum to 1", i)
	}
	// Softmax is shift-invariant, so both rows are the same distribution.
	for j := 0; j < 3; j++ {
		assert.InDelta(t, out.At(0, j), out.At(1, j), 1e-12)
	}
}

// TestLogSoftmaxRows checks consistency with SoftmaxRows and stability
// for large logits.
func TestLogSoftmaxRows(t *testing.T) {
	a := mustFromSlice(t, []float64{1, -2, 0.5, 800, 802, 799}, tensor.Shape{2, 3})
	logProbs := a.LogSoftmaxRows()
	probs := a.SoftmaxRows()

	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, math.Log(probs.At(i, j)), logProbs.At(i, j), 1e-9)
			assert.False(t, math.IsInf(logProbs.At(i, j), 0))
			assert.False(t, math.IsNaN(logProbs.At(i, j)))
		}
	}
}

// TestArgmaxRows checks per-row argmax.
func TestArgmaxRows(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 5, 2, 9, 0, -1}, tensor.Shape{2, 3})
	assert.Equal(t, []int{1, 0}, a.ArgmaxRows())
}

// TestRowSlice checks copying semantics and bounds.
func TestRowSlice(t *testing.T) {
	a := mustFromSlice(t, []float64{1, 2, 3, 4, 5, 6}, tensor.Shape{3, 2})
	out := a.RowSlice(1, 3)
	require.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float64{3, 4, 5, 6}, out.Data())

	out.Set(0, 0, 99)
	assert.Equal(t, 3.0, a.At(1, 0), "slice should be a copy")

	assert.Panics(t, func() { a.RowSlice(2, 1) })
	assert.Panics(t, func() { a.RowSlice(0, 4) })
}

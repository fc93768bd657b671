package tensor

import (
	"fmt"
	"math"
)

// Add performs element-wise addition. Shapes must match exactly.
func (t *Tensor) Add(other *Tensor) *Tensor {
	requireSameShape("add", t, other)
	out := New(t.shape)
	for i := range t.data {
		out.data[i] = t.data[i] + other.data[i]
	}
	return out
}

// Sub performs element-wise subtraction. Shapes must match exactly.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	requireSameShape("sub", t, other)
	out := New(t.shape)
	for i := range t.data {
		out.data[i] = t.data[i] - other.data[i]
	}
	return out
}

// Mul performs element-wise multiplication. Shapes must match exactly.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	requireSameShape("mul", t, other)
	out := New(t.shape)
	for i := range t.data {
		out.data[i] = t.data[i] * other.data[i]
	}
	return out
}

// Scale multiplies every element by c.
func (t *Tensor) Scale(c float64) *Tensor {
	out := New(t.shape)
	for i := range t.data {
		out.data[i] = t.data[i] * c
	}
	return out
}

// AddScaled adds multiplier * other to the tensor in place.
// This is the parameter-update primitive: w += lr * grad.
func (t *Tensor) AddScaled(other *Tensor, multiplier float64) {
	requireSameShape("add scaled", t, other)
	for i := range t.data {
		t.data[i] += multiplier * other.data[i]
	}
}

// AddRow adds a (1, cols) row vector to every row of a (rows, cols) tensor.
func (t *Tensor) AddRow(row *Tensor) *Tensor {
	t.require2D("add row")
	row.require2D("add row")
	if row.Rows() != 1 || row.Cols() != t.Cols() {
		panic(fmt.Sprintf("add row: cannot broadcast %s over %s", row.shape, t.shape))
	}
	out := New(t.shape)
	cols := t.Cols()
	for i := 0; i < t.Rows(); i++ {
		for j := 0; j < cols; j++ {
			out.data[i*cols+j] = t.data[i*cols+j] + row.data[j]
		}
	}
	return out
}

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Naive O(n³) implementation; the graded networks are small enough that
// this is not a bottleneck.
func (t *Tensor) MatMul(other *Tensor) *Tensor {
	t.require2D("matmul")
	other.require2D("matmul")
	m, k := t.Rows(), t.Cols()
	kAlt, n := other.Rows(), other.Cols()
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch %s @ %s", t.shape, other.shape))
	}

	out := New(Shape{m, n})
	for i := 0; i < m; i++ {
		for l := 0; l < k; l++ {
			a := t.data[i*k+l]
			if a == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				out.data[i*n+j] += a * other.data[l*n+j]
			}
		}
	}
	return out
}

// Transpose returns the matrix transpose.
func (t *Tensor) Transpose() *Tensor {
	t.require2D("transpose")
	rows, cols := t.Rows(), t.Cols()
	out := New(Shape{cols, rows})
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.data[j*rows+i] = t.data[i*cols+j]
		}
	}
	return out
}

// SumRows sums over the batch dimension, collapsing (rows, cols) to (1, cols).
func (t *Tensor) SumRows() *Tensor {
	t.require2D("sum rows")
	cols := t.Cols()
	out := New(Shape{1, cols})
	for i := 0; i < t.Rows(); i++ {
		for j := 0; j < cols; j++ {
			out.data[j] += t.data[i*cols+j]
		}
	}
	return out
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	var sum float64
	for _, v := range t.data {
		sum += v
	}
	return sum
}

// Mean returns the arithmetic mean of all elements.
func (t *Tensor) Mean() float64 {
	return t.Sum() / float64(len(t.data))
}

// ReLU returns max(0, x) element-wise.
func (t *Tensor) ReLU() *Tensor {
	out := New(t.shape)
	for i, v := range t.data {
		if v > 0 {
			out.data[i] = v
		}
	}
	return out
}

// SoftmaxRows applies softmax along each row with max-shifting for
// numerical stability.
func (t *Tensor) SoftmaxRows() *Tensor {
	t.require2D("softmax")
	out := New(t.shape)
	cols := t.Cols()
	for i := 0; i < t.Rows(); i++ {
		row := t.data[i*cols : (i+1)*cols]
		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sum float64
		outRow := out.data[i*cols : (i+1)*cols]
		for j, v := range row {
			outRow[j] = math.Exp(v - maxVal)
			sum += outRow[j]
		}
		for j := range outRow {
			outRow[j] /= sum
		}
	}
	return out
}

// LogSoftmaxRows applies log-softmax along each row using the
// log-sum-exp trick.
func (t *Tensor) LogSoftmaxRows() *Tensor {
	t.require2D("log softmax")
	out := New(t.shape)
	cols := t.Cols()
	for i := 0; i < t.Rows(); i++ {
		row := t.data[i*cols : (i+1)*cols]
		maxVal := row[0]
		for _, v := range row[1:] {
			if v > maxVal {
				maxVal = v
			}
		}
		var sumExp float64
		for _, v := range row {
			sumExp += math.Exp(v - maxVal)
		}
		logSum := maxVal + math.Log(sumExp)
		outRow := out.data[i*cols : (i+1)*cols]
		for j, v := range row {
			outRow[j] = v - logSum
		}
	}
	return out
}

// ArgmaxRows returns the index of the maximum element in each row.
func (t *Tensor) ArgmaxRows() []int {
	t.require2D("argmax")
	cols := t.Cols()
	out := make([]int, t.Rows())
	for i := 0; i < t.Rows(); i++ {
		best := 0
		for j := 1; j < cols; j++ {
			if t.data[i*cols+j] > t.data[i*cols+best] {
				best = j
			}
		}
		out[i] = best
	}
	return out
}

package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autograde-ml/autograde/internal/graph"
	"github.com/autograde-ml/autograde/internal/tensor"
)

// TestPerceptronDataset_Separable checks that the generating hyperplane
// classifies every point correctly with at least the enforced margin.
func TestPerceptronDataset_Separable(t *testing.T) {
	d := NewPerceptron(200, 1)
	separator := []float64{0.8, -1.1, 0.25}

	for i := 0; i < 200; i++ {
		score := 0.0
		for j := 0; j < 3; j++ {
			score += d.X().At(i, j) * separator[j]
		}
		label := d.Y().At(i, 0)
		assert.True(t, label == 1 || label == -1, "label must be ±1")
		assert.GreaterOrEqual(t, score*label, perceptronMargin,
			"point %d should clear the margin", i)
		assert.Equal(t, 1.0, d.X().At(i, 2), "third feature is the bias input")
	}
}

// TestPerceptronDataset_Batches checks batch shapes including a ragged
// final batch.
func TestPerceptronDataset_Batches(t *testing.T) {
	d := NewPerceptron(10, 1)
	batches := d.IterateOnce(4)
	require.Len(t, batches, 3)
	assert.True(t, batches[0].X.Data().Shape().Equal(tensor.Shape{4, 3}))
	assert.True(t, batches[2].X.Data().Shape().Equal(tensor.Shape{2, 3}))
	assert.True(t, batches[2].Y.Data().Shape().Equal(tensor.Shape{2, 1}))
}

// TestRegressionDataset_Values checks the endpoints and the sine targets.
func TestRegressionDataset_Values(t *testing.T) {
	d := NewRegression(101)
	require.True(t, d.X().Shape().Equal(tensor.Shape{101, 1}))

	assert.InDelta(t, -2*math.Pi, d.X().At(0, 0), 1e-12)
	assert.InDelta(t, 2*math.Pi, d.X().At(100, 0), 1e-12)
	for i := 0; i < 101; i++ {
		assert.InDelta(t, math.Sin(d.X().At(i, 0)), d.Y().At(i, 0), 1e-12)
	}
}

// TestSyntheticDigits_Shapes checks split sizes and one-hot labels.
func TestSyntheticDigits_Shapes(t *testing.T) {
	d := SyntheticDigits(50, 20, 30, 1)

	require.True(t, d.X().Shape().Equal(tensor.Shape{50, digitPixels}))
	require.True(t, d.Y().Shape().Equal(tensor.Shape{50, digitClasses}))
	require.True(t, d.TestImages().Shape().Equal(tensor.Shape{30, digitPixels}))
	require.Len(t, d.TestLabels(), 30)

	for i := 0; i < 50; i++ {
		sum := 0.0
		for j := 0; j < digitClasses; j++ {
			sum += d.Y().At(i, j)
		}
		assert.Equal(t, 1.0, sum, "label row %d should be one-hot", i)
	}
}

// TestDigitDataset_ValidationAccuracy checks the callback plumbing with
// an oracle that reads the synthetic class block directly.
func TestDigitDataset_ValidationAccuracy(t *testing.T) {
	d := SyntheticDigits(10, 40, 10, 2)

	oracle := func(x graph.Node) graph.Node {
		n := x.Data().Rows()
		logits := tensor.New(tensor.Shape{n, digitClasses})
		block := digitPixels / digitClasses
		for i := 0; i < n; i++ {
			for c := 0; c < digitClasses; c++ {
				sum := 0.0
				for j := c * block; j < (c+1)*block; j++ {
					sum += x.Data().At(i, j)
				}
				logits.Set(i, c, sum)
			}
		}
		return graph.NewConstant(logits)
	}
	assert.Equal(t, 1.0, d.ValidationAccuracy(oracle))
}

// TestLoadDigits_MissingDir checks the error path.
func TestLoadDigits_MissingDir(t *testing.T) {
	_, err := LoadDigits(t.TempDir())
	assert.Error(t, err)
}

// TestLanguageID_Alphabet checks the derived alphabet and label order.
func TestLanguageID_Alphabet(t *testing.T) {
	d := NewLanguageID()

	assert.Equal(t, []string{"Dutch", "English", "Finnish", "Polish", "Spanish"}, d.Languages())
	require.Greater(t, d.NumChars(), 0)
	for i := 1; i < len(d.alphabet); i++ {
		assert.Less(t, d.alphabet[i-1], d.alphabet[i], "alphabet must be sorted")
	}
}

// TestLanguageID_BatchesUniformLength checks that every batch holds
// same-length words encoded as one-hot rows per timestep.
func TestLanguageID_BatchesUniformLength(t *testing.T) {
	d := NewLanguageID()
	batches := d.IterateOnce(4)
	require.NotEmpty(t, batches)

	for _, batch := range batches {
		n := batch.Y.Data().Rows()
		require.LessOrEqual(t, n, 4)
		for _, x := range batch.Xs {
			require.True(t, x.Data().Shape().Equal(tensor.Shape{n, d.NumChars()}))
			for i := 0; i < n; i++ {
				sum := 0.0
				for j := 0; j < d.NumChars(); j++ {
					sum += x.Data().At(i, j)
				}
				assert.Equal(t, 1.0, sum, "each timestep row is one-hot")
			}
		}
	}
}

// TestLanguageID_HoldoutSplit checks that every fifth word per language
// is held out for validation.
func TestLanguageID_HoldoutSplit(t *testing.T) {
	d := NewLanguageID()
	require.NotEmpty(t, d.val)

	total := 0
	for _, words := range languageWords {
		total += len(words)
	}
	assert.Equal(t, total, len(d.train)+len(d.val))
	assert.Equal(t, total/5, len(d.val))

	valPerLang := make(map[int]int)
	for _, lw := range d.val {
		valPerLang[lw.lang]++
	}
	for lang, langName := range d.Languages() {
		assert.Equal(t, len(languageWords[langName])/5, valPerLang[lang],
			"validation share for %s", langName)
	}
}

// TestLanguageID_ValidationAccuracyOracle checks the accuracy plumbing
// with a label-leaking oracle good for exactly chance on wrong labels.
func TestLanguageID_ValidationAccuracyOracle(t *testing.T) {
	d := NewLanguageID()

	// An oracle that always predicts class 0 scores the base rate of
	// class 0 in the validation split, strictly below 1.
	constant := func(xs []graph.Node) graph.Node {
		n := xs[0].Data().Rows()
		logits := tensor.New(tensor.Shape{n, len(d.Languages())})
		for i := 0; i < n; i++ {
			logits.Set(i, 0, 1)
		}
		return graph.NewConstant(logits)
	}
	acc := d.ValidationAccuracy(constant)
	assert.Greater(t, acc, 0.0)
	assert.Less(t, acc, 1.0)
}

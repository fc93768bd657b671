package models

import (
	"github.com/autograde-ml/autograde/internal/dataset"
	"github.com/autograde-ml/autograde/internal/graph"
)

const (
	langHidden    = 400
	langBatchSize = 4
	langLR        = 0.01
	langTarget    = 0.86 // validation accuracy that ends training
	langMaxEpochs = 500
)

// LanguageIDModel identifies the language of a single word with a
// recurrent network: each character updates a hidden state, and the final
// state is projected onto one logit per language.
type LanguageIDModel struct {
	w       *graph.Parameter // (numChars, hidden)
	b0      *graph.Parameter // (1, hidden)
	wHidden *graph.Parameter // (hidden, hidden)
	b1      *graph.Parameter // (1, hidden)
	wFinal  *graph.Parameter // (hidden, numLanguages)
	b2      *graph.Parameter // (1, numLanguages)
}

// NewLanguageID creates the recurrent language classifier for an alphabet
// of numChars characters and numLanguages output classes.
func NewLanguageID(numChars, numLanguages int) *LanguageIDModel {
	return &LanguageIDModel{
		w:       graph.NewParameter(numChars, langHidden),
		b0:      graph.NewParameter(1, langHidden),
		wHidden: graph.NewParameter(langHidden, langHidden),
		b1:      graph.NewParameter(1, langHidden),
		wFinal:  graph.NewParameter(langHidden, numLanguages),
		b2:      graph.NewParameter(1, numLanguages),
	}
}

// Run computes language logits for a batch of same-length words.
//
// xs has one node per character position, each of shape (batch, numChars)
// with one-hot rows. The hidden state is seeded from the first character
// and each later character folds its own feature projection together with
// the recurrent projection of the state so far. Returns a
// (batch, numLanguages) node.
func (m *LanguageIDModel) Run(xs []graph.Node) graph.Node {
	if len(xs) == 0 {
		panic("language id model: need at least one character")
	}
	var state graph.Node
	for _, x := range xs {
		projected := graph.NewLinear(graph.NewReLU(graph.NewAddBias(graph.NewLinear(x, m.w), m.b0)), m.wHidden)
		if state == nil {
			state = graph.NewReLU(graph.NewAddBias(projected, m.b1))
		} else {
			state = graph.NewAdd(
				graph.NewAddBias(projected, m.b1),
				graph.NewLinear(graph.NewReLU(state), m.wHidden),
			)
		}
	}
	return graph.NewAddBias(graph.NewLinear(graph.NewReLU(state), m.wFinal), m.b2)
}

// Loss builds the softmax loss between logits for xs and one-hot labels y.
func (m *LanguageIDModel) Loss(xs []graph.Node, y graph.Node) graph.Loss {
	return graph.NewSoftmaxLoss(m.Run(xs), y)
}

// Train runs mini-batch gradient descent until validation accuracy reaches
// the target, bounded by langMaxEpochs so grading always terminates.
func (m *LanguageIDModel) Train(data *dataset.LanguageIDDataset) {
	params := []*graph.Parameter{m.w, m.wHidden, m.wFinal, m.b0, m.b1, m.b2}
	for epoch := 0; epoch < langMaxEpochs; epoch++ {
		for _, batch := range data.IterateOnce(langBatchSize) {
			xs := make([]graph.Node, len(batch.Xs))
			for i, x := range batch.Xs {
				xs[i] = x
			}
			grads := graph.Gradients(m.Loss(xs, batch.Y), params)
			for i, p := range params {
				p.Update(grads[i], -langLR)
			}
		}
		if data.ValidationAccuracy(m.Run) >= langTarget {
			return
		}
	}
}

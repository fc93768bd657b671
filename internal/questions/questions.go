// Package questions registers the scored tests for the four graded
// questions: perceptron (q1), sin-curve regression (q2), digit
// classification (q3), and language identification (q4).
package questions

import (
	"fmt"

	"github.com/autograde-ml/autograde/internal/dataset"
	"github.com/autograde-ml/autograde/internal/grade"
	"github.com/autograde-ml/autograde/internal/graph"
	"github.com/autograde-ml/autograde/internal/models"
	"github.com/autograde-ml/autograde/internal/tensor"
)

// Accuracy and loss thresholds for full credit.
const (
	regressionLossThreshold = 0.02
	digitAccuracyThreshold  = 0.97
	langAccuracyThreshold   = 0.81
)

// Config carries the external inputs the questions need.
type Config struct {
	// DataDir is the directory holding the MNIST IDX files for q3.
	// When empty, q3 fails with an explanatory message instead of points.
	DataDir string
}

// Install registers every scored test. Tests run in the order registered
// here within each question; questions themselves run in id order.
func Install(reg *grade.Registry, cfg Config) {
	reg.Register("q1", 6, "check_perceptron", checkPerceptron)
	reg.Register("q2", 6, "check_regression", checkRegression)
	reg.Register("q3", 6, "check_digit_classification", checkDigitClassification(cfg))
	reg.Register("q4", 7, "check_lang_id", checkLangID)

	reg.AddPrereq("q2", "q1")
	reg.AddPrereq("q3", "q2")
	reg.AddPrereq("q4", "q3")
}

// parameterNodes collects the Parameter variants appearing in a trace.
func parameterNodes(trace []graph.Node) map[*graph.Parameter]bool {
	params := make(map[*graph.Parameter]bool)
	for _, n := range trace {
		if p, ok := n.(*graph.Parameter); ok {
			params[p] = true
		}
	}
	return params
}

// checkParameterReuse verifies that every Parameter in trace is one of the
// parameters already detected on an earlier forward pass.
func checkParameterReuse(trace []graph.Node, detected map[*graph.Parameter]bool, method string) error {
	for _, n := range trace {
		if p, ok := n.(*graph.Parameter); ok && !detected[p] {
			return fmt.Errorf("calling %s multiple times should always re-use the same parameters, but a new Parameter object was detected", method)
		}
	}
	return nil
}

func checkPerceptron(tr *grade.Tracker) error {
	model := models.NewPerceptron(3)
	data := dataset.NewPerceptron(500, 42)

	if err := grade.VerifyNode(model.Weights(), grade.KindParameter, tensor.Shape{1, 3}, "PerceptronModel.Weights()"); err != nil {
		return err
	}

	var detected map[*graph.Parameter]bool
	for i := 0; i < 3; i++ {
		x := graph.NewConstant(data.X().RowSlice(i, i+1))
		score := model.Run(x)
		if err := grade.VerifyNode(score, grade.KindNode, tensor.Shape{1, 1}, "PerceptronModel.Run()"); err != nil {
			return err
		}
		trace := graph.Trace(score)
		if !graph.TraceSet(score)[x] {
			return fmt.Errorf("node returned from PerceptronModel.Run() does not depend on the provided input (x)")
		}
		if detected == nil {
			detected = parameterNodes(trace)
		} else if err := checkParameterReuse(trace, detected, "PerceptronModel.Run()"); err != nil {
			return err
		}
	}
	tr.AddPoints(2) // Partial credit for passing sanity checks

	model.Train(data)

	correct := 0
	n := data.X().Rows()
	for i := 0; i < n; i++ {
		x := graph.NewConstant(data.X().RowSlice(i, i+1))
		if float64(model.Prediction(x)) == data.Y().At(i, 0) {
			correct++
		}
	}
	accuracy := float64(correct) / float64(n)
	if accuracy < 1.0 {
		tr.Printf("*** the perceptron must classify every training point correctly, got %.1f%%\n", accuracy*100)
		return nil
	}
	tr.AddPoints(4)
	return nil
}

func checkRegression(tr *grade.Tracker) error {
	model := models.NewRegression()
	data := dataset.NewRegression(200)

	var detected map[*graph.Parameter]bool
	for _, batchSize := range []int{1, 2, 4} {
		x := graph.NewConstant(data.X().RowSlice(0, batchSize))
		y := graph.NewConstant(data.Y().RowSlice(0, batchSize))

		prediction := model.Run(x)
		if err := grade.VerifyNode(prediction, grade.KindNode, tensor.Shape{batchSize, 1}, "RegressionModel.Run()"); err != nil {
			return err
		}
		if !graph.TraceSet(prediction)[x] {
			return fmt.Errorf("node returned from RegressionModel.Run() does not depend on the provided input (x)")
		}

		loss := model.Loss(x, y)
		if err := grade.VerifyNode(loss, grade.KindLoss, nil, "RegressionModel.Loss()"); err != nil {
			return err
		}
		lossTrace := graph.TraceSet(loss)
		if !lossTrace[x] {
			return fmt.Errorf("node returned from RegressionModel.Loss() does not depend on the provided input (x)")
		}
		if !lossTrace[y] {
			return fmt.Errorf("node returned from RegressionModel.Loss() does not depend on the provided labels (y)")
		}

		if detected == nil {
			detected = parameterNodes(graph.Trace(loss))
		} else if err := checkParameterReuse(graph.Trace(loss), detected, "RegressionModel.Loss()"); err != nil {
			return err
		}
	}
	tr.AddPoints(2) // Partial credit for passing sanity checks

	model.Train(data)

	finalLoss := graph.AsScalar(model.Loss(graph.NewConstant(data.X()), graph.NewConstant(data.Y())))
	if finalLoss > regressionLossThreshold {
		tr.Printf("*** your final loss (%f) must be no more than %.4f to receive full points for this question\n",
			finalLoss, regressionLossThreshold)
		return nil
	}
	tr.Printf("*** your final loss is: %f\n", finalLoss)
	tr.AddPoints(4)
	return nil
}

func checkDigitClassification(cfg Config) grade.TestFunc {
	return func(tr *grade.Tracker) error {
		if cfg.DataDir == "" {
			return fmt.Errorf("digit dataset not configured: pass --data with the directory holding the MNIST IDX files")
		}
		data, err := dataset.LoadDigits(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("load digit dataset: %w", err)
		}
		model := models.NewDigitClassification()

		var detected map[*graph.Parameter]bool
		for _, batchSize := range []int{1, 2, 4} {
			inpX := graph.NewConstant(data.X().RowSlice(0, batchSize))
			output := model.Run(inpX)
			if err := grade.VerifyNode(output, grade.KindNode, tensor.Shape{batchSize, 10}, "DigitClassificationModel.Run()"); err != nil {
				return err
			}
			trace := graph.Trace(output)
			if !graph.TraceSet(output)[inpX] {
				return fmt.Errorf("node returned from DigitClassificationModel.Run() does not depend on the provided input (x)")
			}
			if detected == nil {
				detected = parameterNodes(trace)
			} else if err := checkParameterReuse(trace, detected, "DigitClassificationModel.Run()"); err != nil {
				return err
			}
		}

		for _, batchSize := range []int{1, 2, 4} {
			inpX := graph.NewConstant(data.X().RowSlice(0, batchSize))
			inpY := graph.NewConstant(data.Y().RowSlice(0, batchSize))
			loss := model.Loss(inpX, inpY)
			if err := grade.VerifyNode(loss, grade.KindLoss, nil, "DigitClassificationModel.Loss()"); err != nil {
				return err
			}
			lossTrace := graph.TraceSet(loss)
			if !lossTrace[inpX] {
				return fmt.Errorf("node returned from DigitClassificationModel.Loss() does not depend on the provided input (x)")
			}
			if !lossTrace[inpY] {
				return fmt.Errorf("node returned from DigitClassificationModel.Loss() does not depend on the provided labels (y)")
			}
			if err := checkParameterReuse(graph.Trace(loss), detected, "DigitClassificationModel.Loss()"); err != nil {
				return err
			}
		}
		tr.AddPoints(2) // Partial credit for passing sanity checks

		model.Train(data)

		logits := model.Run(graph.NewConstant(data.TestImages()))
		predicted := logits.Data().ArgmaxRows()
		correct := 0
		for i, p := range predicted {
			if p == data.TestLabels()[i] {
				correct++
			}
		}
		accuracy := float64(correct) / float64(len(predicted))
		if accuracy < digitAccuracyThreshold {
			tr.Printf("*** your final test set accuracy (%.2f%%) must be at least %.0f%% to receive full points for this question\n",
				accuracy*100, digitAccuracyThreshold*100)
			return nil
		}
		tr.Printf("*** your final test set accuracy is: %.2f%%\n", accuracy*100)
		tr.AddPoints(4)
		return nil
	}
}

func checkLangID(tr *grade.Tracker) error {
	data := dataset.NewLanguageID()
	model := models.NewLanguageID(data.NumChars(), len(data.Languages()))

	var detected map[*graph.Parameter]bool
	for run := 0; run < 2; run++ {
		batch := data.IterateOnce(4)[0]
		xs := make([]graph.Node, len(batch.Xs))
		for i, x := range batch.Xs {
			xs[i] = x
		}
		batchSize := batch.Y.Data().Rows()

		logits := model.Run(xs)
		if err := grade.VerifyNode(logits, grade.KindNode, tensor.Shape{batchSize, len(data.Languages())}, "LanguageIDModel.Run()"); err != nil {
			return err
		}
		trace := graph.Trace(logits)
		traceSet := graph.TraceSet(logits)
		for t, x := range xs {
			if !traceSet[x] {
				return fmt.Errorf("node returned from LanguageIDModel.Run() does not depend on the input at position %d (xs[%d])", t, t)
			}
		}
		if detected == nil {
			detected = parameterNodes(trace)
		} else if err := checkParameterReuse(trace, detected, "LanguageIDModel.Run()"); err != nil {
			return err
		}
	}
	tr.AddPoints(2) // Partial credit for passing sanity checks

	model.Train(data)

	accuracy := data.ValidationAccuracy(model.Run)
	if accuracy < langAccuracyThreshold {
		tr.Printf("*** your final validation accuracy (%.2f%%) must be at least %.0f%% to receive full points for this question\n",
			accuracy*100, langAccuracyThreshold*100)
		return nil
	}
	tr.Printf("*** your final validation accuracy is: %.2f%%\n", accuracy*100)
	tr.AddPoints(5)
	return nil
}

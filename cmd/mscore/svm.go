package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/msplatform/mscore/internal/progress"
	"github.com/msplatform/mscore/internal/svm"
	"github.com/msplatform/mscore/internal/ui"
)

var svmCmd = &cobra.Command{
	Use:   "svm",
	Short: "SVM harness: train, predict, and grid-search cross-validate",
}

var (
	svmTrainInput     string
	svmTrainOutput    string
	svmKernel         string
	svmPredictProblem string
	svmPredictOnProblem string
	svmCVInput        string
	svmCVFolds        int
	svmCVRuns         int
)

var svmTrainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a model over a labeled problem",
	RunE:  runSVMTrain,
}

var svmPredictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Train over a labeled problem then predict for unlabeled samples",
	Long: `predict retrains a model from --input (the labeled training
problem) and scores --problem (the samples to predict), since the
trained Model carries unexported kernel/support-vector state that does
not round-trip through a file between separate CLI invocations.`,
	RunE: runSVMPredict,
}

var svmCVCmd = &cobra.Command{
	Use:   "cv",
	Short: "Grid-search cross-validate over a labeled problem",
	RunE:  runSVMCV,
}

func init() {
	svmTrainCmd.Flags().StringVar(&svmTrainInput, "input", "", "Path to training problem JSON (required)")
	svmTrainCmd.Flags().StringVar(&svmTrainOutput, "output", "", "Path to write training-set decision values JSON")
	svmTrainCmd.Flags().StringVar(&svmKernel, "kernel", "rbf", "Kernel: linear|poly|rbf|sigmoid|oligo")
	svmTrainCmd.MarkFlagRequired("input")

	svmPredictCmd.Flags().StringVar(&svmTrainInput, "input", "", "Path to training problem JSON (required)")
	svmPredictCmd.Flags().StringVar(&svmPredictProblem, "problem", "", "Path to prediction problem JSON (required)")
	svmPredictCmd.Flags().StringVar(&svmPredictOnProblem, "output", "", "Path to write predictions JSON")
	svmPredictCmd.Flags().StringVar(&svmKernel, "kernel", "rbf", "Kernel: linear|poly|rbf|sigmoid|oligo")
	svmPredictCmd.MarkFlagRequired("input")
	svmPredictCmd.MarkFlagRequired("problem")

	svmCVCmd.Flags().StringVar(&svmCVInput, "input", "", "Path to training problem JSON (required)")
	svmCVCmd.Flags().IntVar(&svmCVFolds, "folds", 5, "Number of cross-validation partitions")
	svmCVCmd.Flags().IntVar(&svmCVRuns, "runs", 1, "Number of randomized partition runs")
	svmCVCmd.MarkFlagRequired("input")
}

func kernelFromFlag(name string) (svm.KernelKind, error) {
	switch name {
	case "linear":
		return svm.Linear, nil
	case "poly":
		return svm.Poly, nil
	case "rbf":
		return svm.RBF, nil
	case "sigmoid":
		return svm.Sigmoid, nil
	case "oligo":
		return svm.Oligo, nil
	default:
		return 0, fmt.Errorf("unknown kernel %q", name)
	}
}

func loadProblem(path string) (svm.Problem, error) {
	var problem svm.Problem
	data, err := os.ReadFile(path)
	if err != nil {
		return problem, fmt.Errorf("reading problem: %w", err)
	}
	if err := json.Unmarshal(data, &problem); err != nil {
		return problem, fmt.Errorf("parsing problem: %w", err)
	}
	return problem, nil
}

func runSVMTrain(cmd *cobra.Command, args []string) error {
	problem, err := loadProblem(svmTrainInput)
	if err != nil {
		return err
	}
	kernel, err := kernelFromFlag(svmKernel)
	if err != nil {
		return err
	}
	params := svm.DefaultParameters()
	params.Kernel = kernel

	model, err := svm.Train(problem, params, nil)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	decisions := svm.PredictBatch(model, problem)
	return writeJSONResult(svmTrainOutput, decisions)
}

func runSVMPredict(cmd *cobra.Command, args []string) error {
	trainProblem, err := loadProblem(svmTrainInput)
	if err != nil {
		return err
	}
	predictProblem, err := loadProblem(svmPredictProblem)
	if err != nil {
		return err
	}
	kernel, err := kernelFromFlag(svmKernel)
	if err != nil {
		return err
	}
	params := svm.DefaultParameters()
	params.Kernel = kernel

	model, err := svm.Train(trainProblem, params, nil)
	if err != nil {
		return fmt.Errorf("training: %w", err)
	}

	predictions := svm.PredictBatch(model, predictProblem)
	return writeJSONResult(svmPredictOnProblem, predictions)
}

func runSVMCV(cmd *cobra.Command, args []string) error {
	problem, err := loadProblem(svmCVInput)
	if err != nil {
		return err
	}
	axes := map[svm.GridParam]svm.GridAxis{
		svm.GridC:     {Start: 0.03125, End: 32, StepSize: 2, Multiplied: true},
		svm.GridGamma: {Start: 0.00048828125, End: 8, StepSize: 2, Multiplied: true},
	}
	cfg := svm.CVConfig{Runs: svmCVRuns, Partitions: svmCVFolds}

	spinner := ui.NewSpinner("svm cv: evaluating grid")
	if !verbose {
		spinner.Start()
	}
	tracker := progress.NewTracker("svm-cv", 0, func(s progress.Snapshot) {
		if verbose {
			log.Printf("svm cv: %d/%d cells evaluated", s.Completed, s.Total)
		} else {
			spinner.Update(fmt.Sprintf("svm cv: %d/%d cells evaluated", s.Completed, s.Total))
		}
	})
	progressFn := func(completed, total int) {
		tracker.SetProgress(completed, total)
	}

	result := svm.GridSearchCV(problem, svm.DefaultParameters(), axes, cfg, progressFn)
	tracker.Complete()
	if !verbose {
		spinner.Stop("svm cv: done")
	}

	return writeJSONResult("", result)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msplatform/mscore/internal/percolator"
)

var percolatorCmd = &cobra.Command{
	Use:   "percolator",
	Short: "Percolator integration: build PIN, invoke the binary, reintegrate scores",
}

var (
	percolatorHitsInput string
	percolatorPIN       string
	percolatorPout      string
	percolatorExe       string
	percolatorTestFDR   float64
	percolatorTrainFDR  float64
	percolatorThreads   int
	percolatorScoreType string
	percolatorOutput    string
)

var percolatorRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Write a PIN, invoke percolator, and reintegrate results",
	Long: `run implements §4.6 end to end: reads hits (PSMs) as JSON, writes
a PIN feature matrix, invokes the percolator binary, parses its pout
output, and reintegrates scores/q-values/PEPs back into the hits.`,
	RunE: runPercolatorRun,
}

func init() {
	percolatorRunCmd.Flags().StringVar(&percolatorHitsInput, "hits", "", "Path to hits JSON (required)")
	percolatorRunCmd.Flags().StringVar(&percolatorPIN, "pin", "", "Path to write the PIN file (required)")
	percolatorRunCmd.Flags().StringVar(&percolatorPout, "pout", "", "Path to the pout file percolator will write (required)")
	percolatorRunCmd.Flags().StringVar(&percolatorExe, "executable", "percolator", "Path to the percolator binary")
	percolatorRunCmd.Flags().Float64Var(&percolatorTestFDR, "test-fdr", 0.01, "Test FDR threshold")
	percolatorRunCmd.Flags().Float64Var(&percolatorTrainFDR, "train-fdr", 0.01, "Train FDR threshold")
	percolatorRunCmd.Flags().IntVar(&percolatorThreads, "threads", 1, "Thread count forwarded to percolator")
	percolatorRunCmd.Flags().StringVar(&percolatorScoreType, "score-type", "q-value", "Main score to reintegrate: q-value|pep|svm")
	percolatorRunCmd.Flags().StringVar(&percolatorOutput, "output", "", "Path to write reintegrated hits JSON (default: stdout)")
	percolatorRunCmd.MarkFlagRequired("hits")
	percolatorRunCmd.MarkFlagRequired("pin")
	percolatorRunCmd.MarkFlagRequired("pout")
}

func scoreChoiceFromFlag(name string) (percolator.ScoreChoice, error) {
	switch name {
	case "q-value":
		return percolator.ScoreQValue, nil
	case "pep":
		return percolator.ScorePEP, nil
	case "svm":
		return percolator.ScoreSVM, nil
	default:
		return 0, fmt.Errorf("unknown score type %q", name)
	}
}

func runPercolatorRun(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(percolatorHitsInput)
	if err != nil {
		return fmt.Errorf("reading hits: %w", err)
	}
	var hits []percolator.Hit
	if err := json.Unmarshal(data, &hits); err != nil {
		return fmt.Errorf("parsing hits: %w", err)
	}

	if err := percolator.WritePIN(percolatorPIN, hits, percolator.PINOptions{}); err != nil {
		return fmt.Errorf("writing PIN: %w", err)
	}

	invokeOpts := percolator.InvokeOptions{
		Executable: percolatorExe,
		PINPath:    percolatorPIN,
		PoutPath:   percolatorPout,
		TestFDR:    percolatorTestFDR,
		TrainFDR:   percolatorTrainFDR,
		NumThreads: percolatorThreads,
	}
	if err := percolator.Run(context.Background(), invokeOpts); err != nil {
		return fmt.Errorf("invoking percolator: %w", err)
	}

	poutFile, err := os.Open(percolatorPout)
	if err != nil {
		return fmt.Errorf("opening pout: %w", err)
	}
	defer poutFile.Close()

	records, err := percolator.ParsePout(poutFile)
	if err != nil {
		return fmt.Errorf("parsing pout: %w", err)
	}
	if err := percolator.RequireNonEmptyPout(records); err != nil {
		return err
	}

	scoreType, err := scoreChoiceFromFlag(percolatorScoreType)
	if err != nil {
		return err
	}
	percolator.Reintegrate(hits, records, scoreType)

	return writeJSONResult(percolatorOutput, hits)
}

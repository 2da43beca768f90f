package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.0.1-alpha"
	commit  = "dev"
	date    = "unknown"
)

var (
	verbose bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "mscore",
	Short: "Mass-spectrometry identification and quantification core",
	Long: `mscore is the command-line front end for the MS identification and
quantification core: MRM peak picking, multiplexed isotope-pattern
feature finding, the SVM/oligo-kernel harness, the NuXL adduct engine,
the identification data store, and the Percolator integration pipeline.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Example: `  # Pick peaks for an MRM transition group
  mscore pick-mrm --input group.json --output features.json

  # Run the multiplex feature finder
  mscore multiplex --input experiment.json --output features.json

  # Train an SVM model and grid-search it
  mscore svm train --input problem.json --output decisions.json
  mscore svm cv --input problem.json --folds 5

  # Enumerate feasible NuXL fragment adducts
  mscore nuxl --precursor-adduct "U-H2O" --formula "C9H11N2O8P"

  # Run Percolator over a PIN file and reintegrate scores
  mscore percolator run --hits hits.json --pin features.pin --pout features.pout

  # Serve the identification data store for inspection
  mscore store serve --snapshot run.db --port 8080`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")

	rootCmd.AddCommand(pickMRMCmd)
	rootCmd.AddCommand(multiplexCmd)
	rootCmd.AddCommand(svmCmd)
	rootCmd.AddCommand(nuxlCmd)
	rootCmd.AddCommand(percolatorCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(paramCmd)

	svmCmd.AddCommand(svmTrainCmd)
	svmCmd.AddCommand(svmPredictCmd)
	svmCmd.AddCommand(svmCVCmd)

	percolatorCmd.AddCommand(percolatorRunCmd)

	storeCmd.AddCommand(storeServeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/msplatform/mscore/internal/multiplex"
	"github.com/msplatform/mscore/internal/progress"
	"github.com/msplatform/mscore/internal/ui"
)

var (
	multiplexInput           string
	multiplexOutput          string
	multiplexChargeMin       int
	multiplexChargeMax       int
	multiplexIsotopesMax     int
	multiplexForceCentroided bool
	multiplexForceProfile    bool
)

var multiplexCmd = &cobra.Command{
	Use:   "multiplex",
	Short: "Run the multiplexed isotope-pattern feature finder",
	Long: `multiplex reads an experiment (spectra of m/z, intensity, RT) as
JSON and runs pattern generation, filtering, clustering, and feature
synthesis with fold-change correction (§4.2). Centroided vs profile mode
is auto-detected from peak density unless overridden by --force-centroided
or --force-profile. Writes the discovered features and consensus
features as JSON.`,
	RunE: runMultiplex,
}

func init() {
	multiplexCmd.Flags().StringVar(&multiplexInput, "input", "", "Path to experiment JSON (required)")
	multiplexCmd.Flags().StringVar(&multiplexOutput, "output", "", "Path to write result JSON (default: stdout)")
	multiplexCmd.Flags().IntVar(&multiplexChargeMin, "charge-min", 1, "Minimum charge state to consider")
	multiplexCmd.Flags().IntVar(&multiplexChargeMax, "charge-max", 4, "Maximum charge state to consider")
	multiplexCmd.Flags().IntVar(&multiplexIsotopesMax, "isotopes-per-peptide-max", 3, "Maximum isotopes per peptide")
	multiplexCmd.Flags().BoolVar(&multiplexForceCentroided, "force-centroided", false, "Treat the input as centroided instead of auto-detecting")
	multiplexCmd.Flags().BoolVar(&multiplexForceProfile, "force-profile", false, "Treat the input as profile data instead of auto-detecting")
	multiplexCmd.MarkFlagRequired("input")
}

func runMultiplex(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(multiplexInput)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	opts := multiplex.Options{
		ChargeMin:             multiplexChargeMin,
		ChargeMax:             multiplexChargeMax,
		IsotopesPerPeptideMax: multiplexIsotopesMax,
	}
	switch {
	case multiplexForceCentroided && multiplexForceProfile:
		return fmt.Errorf("--force-centroided and --force-profile are mutually exclusive")
	case multiplexForceCentroided:
		forced := true
		opts.ForceCentroided = &forced
	case multiplexForceProfile:
		forced := false
		opts.ForceCentroided = &forced
	}

	spinner := ui.NewSpinner("multiplex: generating patterns")
	if !verbose {
		spinner.Start()
	}
	tracker := progress.NewTracker("multiplex", 0, func(s progress.Snapshot) {
		if verbose {
			log.Printf("multiplex: pattern %d/%d", s.Completed, s.Total)
		} else {
			spinner.Update(fmt.Sprintf("multiplex: pattern %d/%d", s.Completed, s.Total))
		}
	})
	progressFn := func(current, total int) {
		tracker.SetProgress(current, total)
	}

	var exp multiplex.Experiment
	if err := json.Unmarshal(data, &exp); err != nil {
		return fmt.Errorf("parsing experiment: %w", err)
	}
	result := multiplex.RunAuto(&exp, opts, progressFn)
	tracker.Complete()
	if !verbose {
		spinner.Stop("multiplex: done")
	}

	return writeJSONResult(multiplexOutput, result)
}

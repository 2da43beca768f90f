package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/msplatform/mscore/internal/nuxl"
)

var (
	nuxlPrecursorAdduct string
	nuxlFormula         string
	nuxlTable           string
	nuxlAlwaysRetains   bool
	nuxlOutput          string
)

var nuxlCmd = &cobra.Command{
	Use:   "nuxl",
	Short: "Enumerate feasible NuXL fragment adducts and marker ions",
	Long: `nuxl implements §4.5: parses a precursor-adduct string, determines
the chemically feasible cross-link fragment adducts against a precursor
formula, and derives the resulting marker-ion set.`,
	RunE: runNuxl,
}

func init() {
	nuxlCmd.Flags().StringVar(&nuxlPrecursorAdduct, "precursor-adduct", "", "Precursor adduct string, e.g. \"UU-H2O\" (required)")
	nuxlCmd.Flags().StringVar(&nuxlFormula, "formula", "", "Precursor empirical formula, e.g. \"C10H15N5O3\" (required)")
	nuxlCmd.Flags().StringVar(&nuxlTable, "table", "", "Path to a candidate-table JSON (letter -> []FragmentAdduct); default uses the built-in marker-ion table")
	nuxlCmd.Flags().BoolVar(&nuxlAlwaysRetains, "always-retains-crosslink", true, "Augment feasible fragments with the default marker-ion table")
	nuxlCmd.Flags().StringVar(&nuxlOutput, "output", "", "Path to write result JSON (default: stdout)")
	nuxlCmd.MarkFlagRequired("precursor-adduct")
	nuxlCmd.MarkFlagRequired("formula")
}

func defaultCandidateTable() nuxl.CandidateTable {
	table := make(nuxl.CandidateTable)
	for _, marker := range nuxl.DefaultMarkerIons() {
		letter := marker.Name[0]
		table[letter] = append(table[letter], marker)
	}
	return table
}

func runNuxl(cmd *cobra.Command, args []string) error {
	formula, err := nuxl.ParseFormula(nuxlFormula)
	if err != nil {
		return fmt.Errorf("parsing formula: %w", err)
	}

	table := defaultCandidateTable()
	if nuxlTable != "" {
		data, err := os.ReadFile(nuxlTable)
		if err != nil {
			return fmt.Errorf("reading candidate table: %w", err)
		}
		if err := json.Unmarshal(data, &table); err != nil {
			return fmt.Errorf("parsing candidate table: %w", err)
		}
	}

	feasible := nuxl.FeasibleAdducts(nuxlPrecursorAdduct, formula, table)
	markers := nuxl.MarkerIons(feasible, nuxlAlwaysRetains)

	return writeJSONResult(nuxlOutput, map[string]interface{}{
		"feasible_adducts": feasible,
		"marker_ions":      markers,
	})
}

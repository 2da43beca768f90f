package percolator

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// PINOptions configures PIN feature-matrix construction (§4.6
// pre-processing step 4).
type PINOptions struct {
	ChargeMin, ChargeMax int
	ExtraFeatureNames    []string
	ExtraFeatures        func(h Hit) []float64
}

// charges returns [min,max] distinct charges, tracked across all hits
// (§4.6 pre-processing step 3).
func chargeRange(hits []Hit) (min, max int) {
	min, max = hits[0].Charge, hits[0].Charge
	for _, h := range hits[1:] {
		if h.Charge < min {
			min = h.Charge
		}
		if h.Charge > max {
			max = h.Charge
		}
	}
	return min, max
}

// BuildPINHeader constructs the fixed PIN column header (§4.6
// pre-processing step 4): SpecId, Label, ScanNr, ExpMass, CalcMass, mass,
// peplen, charge_c for c in [min,max], enzyme-terminus counts,
// mass-deviation, extra (search-engine) features, then Peptide, Proteins.
func BuildPINHeader(chargeMin, chargeMax int, extraNames []string) []string {
	header := []string{"SpecId", "Label", "ScanNr", "ExpMass", "CalcMass", "mass", "peplen"}
	for c := chargeMin; c <= chargeMax; c++ {
		header = append(header, fmt.Sprintf("charge_%d", c))
	}
	header = append(header, "enzN", "enzC", "massDiff", "absMassDiff")
	header = append(header, extraNames...)
	header = append(header, "Peptide", "Proteins")
	return header
}

// BuildPINRow renders one hit as a PIN row, given the shared charge
// range (so every row has the same column count regardless of its own
// charge).
func BuildPINRow(h Hit, chargeMin, chargeMax int, scanNr int, extra []float64) []string {
	label := "1"
	if h.IsDecoy {
		label = "-1"
	}
	row := []string{
		h.PSMId(),
		label,
		strconv.Itoa(scanNr),
		formatFloat(h.ExpMass),
		formatFloat(h.CalcMass),
		formatFloat(h.CalcMass),
		strconv.Itoa(len(h.PeptideSequence)),
	}
	for c := chargeMin; c <= chargeMax; c++ {
		if h.Charge == c {
			row = append(row, "1")
		} else {
			row = append(row, "0")
		}
	}
	row = append(row, boolFeature(h.EnzymeNTermMatch), boolFeature(h.EnzymeCTermMatch))
	diff := h.ExpMass - h.CalcMass
	row = append(row, formatFloat(diff), formatFloat(math.Abs(diff)))
	for _, v := range extra {
		row = append(row, formatFloat(v))
	}
	row = append(row, h.PeptideString(), strings.Join(h.Proteins, "\t"))
	return row
}

func boolFeature(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WritePIN writes the PIN TSV for hits to path, per §4.6 pre-processing
// step 4 ("Write PIN to a TSV file in a temp dir"). Requires at least
// one decoy hit (§4.6 pre-processing step 2: "Abort if no decoys are
// discovered").
func WritePIN(path string, hits []Hit, opts PINOptions) error {
	const op = apperrors.Op("percolator.WritePIN")
	if len(hits) == 0 {
		return apperrors.E(op, apperrors.KindIO, "no hits to write")
	}
	if !anyDecoy(hits) {
		return apperrors.E(op, apperrors.KindInvalidValue, "no decoys discovered among input hits")
	}

	chargeMin, chargeMax := opts.ChargeMin, opts.ChargeMax
	if chargeMin == 0 && chargeMax == 0 {
		chargeMin, chargeMax = chargeRange(hits)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapMsg(op, "creating PIN file", err)
	}
	defer f.Close()

	header := BuildPINHeader(chargeMin, chargeMax, opts.ExtraFeatureNames)
	if _, err := fmt.Fprintln(f, strings.Join(header, "\t")); err != nil {
		return apperrors.WrapMsg(op, "writing PIN header", err)
	}

	for i, h := range hits {
		var extra []float64
		if opts.ExtraFeatures != nil {
			extra = opts.ExtraFeatures(h)
		}
		row := BuildPINRow(h, chargeMin, chargeMax, i+1, extra)
		if _, err := fmt.Fprintln(f, strings.Join(row, "\t")); err != nil {
			return apperrors.WrapMsg(op, "writing PIN row", err)
		}
	}
	return nil
}

func anyDecoy(hits []Hit) bool {
	for _, h := range hits {
		if h.IsDecoy {
			return true
		}
	}
	return false
}

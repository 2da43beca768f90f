package percolator

import apperrors "github.com/msplatform/mscore/internal/errors"

// AnnotateDecoys implements §4.6 pre-processing step 2: hits without a
// target_decoy annotation are labeled based on which file they came
// from. fromDecoyFile reports, per hit index, whether that hit's source
// file was a decoy database search. Returns an error if no decoys are
// discovered across the whole set (mirrors WritePIN's precondition, but
// surfaced earlier in the pipeline so callers can fail fast).
func AnnotateDecoys(hits []Hit, fromDecoyFile func(idx int) bool) error {
	const op = apperrors.Op("percolator.AnnotateDecoys")
	for i := range hits {
		if !hits[i].HasDecoyAnnotation {
			hits[i].IsDecoy = fromDecoyFile(i)
			hits[i].HasDecoyAnnotation = true
		}
	}
	if !anyDecoy(hits) {
		return apperrors.E(op, apperrors.KindInvalidValue, "no decoys discovered among input hits")
	}
	return nil
}

// RunMetadata describes one input file's search run, as compared by
// ValidateSharedRun for §4.6 pre-processing step 1: all input files must
// share one search engine and one identical extra-feature set. Differing
// enzyme/modifications/charges/tolerances are non-fatal
// (§7: "Warnings... differing enzyme/modifications/charges/tolerances").
type RunMetadata struct {
	SearchEngine string
	ExtraFeatures []string
	Enzyme        string
	Modifications []string
	Charges       []int
	Tolerances    string
}

// ValidateSharedRun checks the invariants §4.6 lists as fatal (search
// engine, extra-feature set) and returns non-fatal warnings for the rest.
func ValidateSharedRun(runs []RunMetadata) (warnings []string, err error) {
	const op = apperrors.Op("percolator.ValidateSharedRun")
	if len(runs) == 0 {
		return nil, apperrors.E(op, apperrors.KindMissingInfo, "no input runs provided")
	}
	first := runs[0]
	for _, r := range runs[1:] {
		if r.SearchEngine != first.SearchEngine {
			return nil, apperrors.E(op, apperrors.KindIllegalArgument, "input files use different search engines")
		}
		if !sameStringSet(r.ExtraFeatures, first.ExtraFeatures) {
			return nil, apperrors.E(op, apperrors.KindIllegalArgument, "input files have differing extra_features sets")
		}
		if r.Enzyme != first.Enzyme {
			warnings = append(warnings, "differing enzyme across merged runs")
		}
		if !sameStringSet(r.Modifications, first.Modifications) {
			warnings = append(warnings, "differing modifications across merged runs")
		}
		if !sameIntSet(r.Charges, first.Charges) {
			warnings = append(warnings, "differing charges across merged runs")
		}
		if r.Tolerances != first.Tolerances {
			warnings = append(warnings, "differing tolerances across merged runs")
		}
	}
	return warnings, nil
}

func sameStringSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}

func sameIntSet(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[int]int, len(a))
	for _, v := range a {
		seen[v]++
	}
	for _, v := range b {
		seen[v]--
	}
	for _, c := range seen {
		if c != 0 {
			return false
		}
	}
	return true
}

package nuxl

import "sort"

// FragmentAdduct is a candidate fragment-adduct record: the empirical
// formula it contributes, a human-readable name, and its monoisotopic
// mass (§4.5).
type FragmentAdduct struct {
	Formula Formula
	Name    string
	Mass    float64
}

// CandidateTable maps a cross-linkable nucleotide letter ('A','C','G','U',
// 'd', 'r', ...) to the fragment adducts that letter's cross-link may
// contribute.
type CandidateTable map[byte][]FragmentAdduct

// mandatoryMarkers are cross-link markers that, when present in the
// precursor prefix, restrict the cross-linkable set to themselves alone
// (§4.5 step 3).
var mandatoryMarkers = map[byte]bool{'d': true, 'r': true}

// DefaultMarkerIons is the fixed augmentation list (§4.5 step 6) of the
// four unmodified RNA ribonucleotide 5'-monophosphate residues (A, C, G,
// U) and their water-loss (-H2O) variants, expressed as empirical formulas
// and monoisotopic masses. Base-loss variants and deoxyribonucleotide
// residues are not in the list.
func DefaultMarkerIons() []FragmentAdduct {
	return []FragmentAdduct{
		{Name: "A", Formula: Formula{"C": 10, "H": 12, "N": 5, "O": 6, "P": 1}, Mass: 329.0525},
		{Name: "C", Formula: Formula{"C": 9, "H": 12, "N": 3, "O": 7, "P": 1}, Mass: 305.0413},
		{Name: "G", Formula: Formula{"C": 10, "H": 12, "N": 5, "O": 7, "P": 1}, Mass: 345.0474},
		{Name: "U", Formula: Formula{"C": 9, "H": 11, "N": 2, "O": 8, "P": 1}, Mass: 306.0253},
		{Name: "A-H2O", Formula: Formula{"C": 10, "H": 10, "N": 5, "O": 5, "P": 1}, Mass: 311.0420},
		{Name: "C-H2O", Formula: Formula{"C": 9, "H": 10, "N": 3, "O": 6, "P": 1}, Mass: 287.0307},
		{Name: "G-H2O", Formula: Formula{"C": 10, "H": 10, "N": 5, "O": 6, "P": 1}, Mass: 327.0369},
		{Name: "U-H2O", Formula: Formula{"C": 9, "H": 9, "N": 2, "O": 7, "P": 1}, Mass: 288.0148},
	}
}

// PrecursorAdduct is the parsed prefix of a precursor-adduct string such
// as "UU-H2O": the per-letter counts of the nucleotide run before the
// first '+'/'-'.
type PrecursorAdduct struct {
	Letters map[byte]int
	Total   int
}

// ParsePrecursorAdduct implements §4.5 step 1: counts letters in the
// nucleotide prefix up to the first '+' or '-'.
func ParsePrecursorAdduct(s string) PrecursorAdduct {
	letters := make(map[byte]int)
	total := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '+' || c == '-' {
			break
		}
		letters[c]++
		total++
	}
	return PrecursorAdduct{Letters: letters, Total: total}
}

// crossLinkable reports whether a letter is a candidate cross-link site:
// present in the candidate table.
func crossLinkable(letters map[byte]int, table CandidateTable) []byte {
	var out []byte
	for letter := range letters {
		if _, ok := table[letter]; ok {
			out = append(out, letter)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FeasibleAdducts runs §4.5 steps 1-5: parses the precursor string,
// determines the cross-linkable letter set (restricted by mandatory
// markers), and for oligomer precursors returns every candidate
// unchanged, while for monomer precursors prunes by chemical subformula
// feasibility against the precursor's own formula.
func FeasibleAdducts(precursorAdductString string, precursorFormula Formula, table CandidateTable) []FragmentAdduct {
	parsed := ParsePrecursorAdduct(precursorAdductString)
	linkable := crossLinkable(parsed.Letters, table)
	if len(linkable) == 0 {
		return nil
	}

	for letter := range parsed.Letters {
		if mandatoryMarkers[letter] {
			if _, ok := table[letter]; ok {
				linkable = []byte{letter}
			}
			break
		}
	}

	var candidates []FragmentAdduct
	for _, letter := range linkable {
		candidates = append(candidates, table[letter]...)
	}

	if parsed.Total > 1 {
		return candidates
	}

	var feasible []FragmentAdduct
	for _, c := range candidates {
		if IsSubformula(c.Formula, precursorFormula) {
			feasible = append(feasible, c)
		}
	}
	return feasible
}

// MarkerIons computes the marker-ion set for a feasibility result: for
// monomer precursors the feasible fragments themselves serve as marker
// ions (§4.5 step 5); cross-linkers that always retain the cross-link
// moiety are augmented with the fixed default table (step 6), and the
// combined set is deduplicated by formula, keeping the shortest name
// (step 7).
func MarkerIons(feasible []FragmentAdduct, alwaysRetainsCrosslink bool) []FragmentAdduct {
	all := append([]FragmentAdduct(nil), feasible...)
	if alwaysRetainsCrosslink {
		all = append(all, DefaultMarkerIons()...)
	}
	return dedupeByFormula(all)
}

func dedupeByFormula(adducts []FragmentAdduct) []FragmentAdduct {
	best := make(map[string]FragmentAdduct)
	order := make([]string, 0, len(adducts))
	for _, a := range adducts {
		key := a.Formula.String()
		existing, ok := best[key]
		if !ok {
			best[key] = a
			order = append(order, key)
			continue
		}
		if len(a.Name) < len(existing.Name) {
			best[key] = a
		}
	}
	out := make([]FragmentAdduct, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}

package percolator

import apperrors "github.com/msplatform/mscore/internal/errors"

// missSVMScore, missQValue, missPEP are the sentinel values assigned to
// a hit that Percolator did not retain (§4.6 post-processing step 3,
// scenario S5).
const (
	missSVMScore = -100.0
	missQValue   = 1.0
	missPEP      = 1.0
)

// Reintegrate implements §4.6 post-processing steps 2-3: for each
// original hit, reconstruct its PSMId and look it up in pout. On a hit,
// the old search-engine score is preserved, SVM score / q-value / PEP
// are stored, and the main score is replaced per scoreType. On a miss,
// SVM score/q/PEP are set to the sentinel values above and the main
// score is set to a sentinel consistent with scoreType (scenario S5).
//
// hits is modified in place and also returned for chaining.
func Reintegrate(hits []Hit, pout map[string]PoutRecord, scoreType ScoreChoice) []Hit {
	for i := range hits {
		h := &hits[i]
		rec, ok := pout[h.PSMId()]
		if !ok {
			h.SVMScore = missSVMScore
			h.QValue = missQValue
			h.PEP = missPEP
			h.Retained = false
			h.MainScore, h.HigherBetter = missMainScore(scoreType)
			continue
		}
		h.SVMScore = rec.Score
		h.QValue = rec.QValue
		h.PEP = rec.PEP
		h.Retained = true
		h.MainScore, h.HigherBetter = selectScore(rec, scoreType)
	}
	return hits
}

// selectScore picks the rescored value to become a retained hit's main
// score, and reports whether higher is better for that choice (§4.6
// post-processing step 2).
func selectScore(rec PoutRecord, scoreType ScoreChoice) (score float64, higherBetter bool) {
	switch scoreType {
	case ScoreSVM:
		return rec.Score, true
	case ScorePEP:
		return rec.PEP, false
	default: // ScoreQValue
		return rec.QValue, false
	}
}

// missMainScore returns the sentinel main score for a hit Percolator
// did not retain, consistent with the chosen score type: 1.0 for
// q-value/PEP (worst possible value on a [0,1] lower-is-better scale),
// -100 for the raw SVM score (§4.6 post-processing step 3, scenario S5).
func missMainScore(scoreType ScoreChoice) (score float64, higherBetter bool) {
	switch scoreType {
	case ScoreSVM:
		return missSVMScore, true
	case ScorePEP:
		return missPEP, false
	default: // ScoreQValue
		return missQValue, false
	}
}

// RebuildProteinGroups implements §4.6 post-processing step 4:
// re-annotate protein hits with Percolator's protein-level q-value/PEP,
// warn about proteins Percolator reported that are absent from the
// original protein list, and rebuild indistinguishable-protein groups
// filtered down to only the proteins still present.
func RebuildProteinGroups(original []ProteinHit, pout map[string]ProteinPoutRecord, groups []ProteinGroup) (rebuilt []ProteinHit, newGroups []ProteinGroup, warnings []string) {
	present := make(map[string]bool, len(original))
	for _, p := range original {
		present[p.Accession] = true
	}

	rebuilt = make([]ProteinHit, 0, len(original))
	for _, p := range original {
		if rec, ok := pout[p.Accession]; ok {
			p.QValue = rec.QValue
			p.PEP = rec.PEP
			p.HasScores = true
		}
		rebuilt = append(rebuilt, p)
	}

	for accession := range pout {
		if !present[accession] {
			warnings = append(warnings, "percolator reported protein not present in input: "+accession)
		}
	}

	for _, g := range groups {
		var kept []string
		for _, m := range g.Members {
			if present[m] {
				kept = append(kept, m)
			}
		}
		if len(kept) > 0 {
			newGroups = append(newGroups, ProteinGroup{Members: kept})
		}
	}
	return rebuilt, newGroups, warnings
}

// RequireNonEmptyPout guards against an empty Percolator output, which
// the adapter treats as an external-tool failure rather than "zero
// hits retained" (§6 ExitExternalProgramError).
func RequireNonEmptyPout(pout map[string]PoutRecord) error {
	const op = apperrors.Op("percolator.RequireNonEmptyPout")
	if len(pout) == 0 {
		return apperrors.E(op, apperrors.KindExternal, "percolator produced no output records")
	}
	return nil
}

package multiplex

import "sort"

// GeneratePatterns builds every (charge, pattern) combination for
// charge in [chargeMin,chargeMax] and sorts them by the §3/§8 ordering
// rule: more mass shifts first; within equal shift-count and first
// shift, charge priority 2,3,4,1,5,6,... (§4.2 step 1).
func GeneratePatterns(chargeMin, chargeMax, isotopesPerPeptideMax int, massPatterns []DeltaMasses) []PeakPattern {
	var list []PeakPattern
	idx := 0
	for c := chargeMax; c >= chargeMin; c-- {
		for _, mp := range massPatterns {
			list = append(list, PeakPattern{
				Charge:             c,
				IsotopesPerPeptide: isotopesPerPeptideMax,
				MassShifts:         append([]float64(nil), mp.MassShifts...),
				Index:              idx,
			})
			idx++
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return lessPattern(list[i], list[j])
	})
	return list
}

// orderCharge ranks charge states 2,3,4,1,5,6,... by decreasing
// likelihood of occurrence (§8 testable property 1).
func orderCharge(charge int) int {
	if charge > 1 && charge < 5 {
		return charge - 1
	}
	if charge == 1 {
		return 4
	}
	return charge
}

// lessPattern reports whether p1 should be searched before p2: descending
// mass-shift count, then ascending first mass shift, then charge priority.
func lessPattern(p1, p2 PeakPattern) bool {
	if p1.MassShiftCount() != p2.MassShiftCount() {
		return p1.MassShiftCount() > p2.MassShiftCount()
	}
	if p1.MassShiftCount() > 1 && p2.MassShiftCount() > 1 {
		if p1.MassShiftAt(1) != p2.MassShiftAt(1) {
			return p1.MassShiftAt(1) < p2.MassShiftAt(1)
		}
	}
	return orderCharge(p1.Charge) < orderCharge(p2.Charge)
}

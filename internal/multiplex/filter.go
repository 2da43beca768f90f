package multiplex

import "math"

// isotopeSpacing is the mono-isotopic C13-C12 mass difference (Da),
// divided by charge to convert to an m/z spacing.
const isotopeSpacing = 1.0033548

// FilterOptions parameterizes the centroided/profile filters (§4.2 step
// 2): the m/z matching tolerance and the minimum number of satellite
// observations a mass trace must accumulate to be accepted.
type FilterOptions struct {
	MZTolerance  float64
	MinSatellites int
}

// FilterCentroided implements the centroided filter (§4.2 step 2): for
// every peak in every spectrum, treat it as the peptide-0/isotope-0 seed
// and search the whole experiment for matching peaks at every other
// (peptide, isotope) slot's expected m/z. Accepts the seed only if every
// slot of peptide 0 gathers at least MinSatellites observations.
func FilterCentroided(exp *Experiment, pattern PeakPattern, opts FilterOptions) FilteredExperiment {
	var result FilteredExperiment
	spacing := isotopeSpacing / float64(pattern.Charge)

	for si, spec := range exp.Spectra {
		for pi, mz := range spec.MZ {
			if spec.Intensity[pi] <= 0 {
				continue
			}
			peak := FilteredPeak{
				RT:                   spec.RT,
				MZ:                   mz,
				SeedSpectrumIdx:      si,
				SeedPeakIdx:          pi,
				CentroidedSatellites: map[int][]CentroidedSatellite{},
			}
			ok := true
			for p := 0; p < pattern.MassShiftCount() && ok; p++ {
				for iso := 0; iso < pattern.IsotopesPerPeptide; iso++ {
					target := mz + float64(iso)*spacing + pattern.MassShiftAt(p)/float64(pattern.Charge)
					matches := findCentroidedMatches(exp, target, opts.MZTolerance)
					slot := p*pattern.IsotopesPerPeptide + iso
					peak.CentroidedSatellites[slot] = matches
					if p == 0 && len(matches) < opts.MinSatellites {
						ok = false
						break
					}
				}
			}
			if ok {
				result.Peaks = append(result.Peaks, peak)
			}
		}
	}
	return result
}

func findCentroidedMatches(exp *Experiment, targetMZ, tolerance float64) []CentroidedSatellite {
	var out []CentroidedSatellite
	for si, spec := range exp.Spectra {
		for pi, mz := range spec.MZ {
			if math.Abs(mz-targetMZ) <= tolerance && spec.Intensity[pi] > 0 {
				out = append(out, CentroidedSatellite{RTIdx: si, MZIdx: pi})
			}
		}
	}
	return out
}

// FilterProfile implements the profile filter (§4.2 step 2): same
// pattern-matching logic as FilterCentroided but operating directly on
// raw (rt, mz, intensity) samples instead of binned spectra.
func FilterProfile(exp *ProfileExperiment, pattern PeakPattern, opts FilterOptions) FilteredExperiment {
	var result FilteredExperiment
	spacing := isotopeSpacing / float64(pattern.Charge)

	for _, seed := range exp.Points {
		if seed.Intensity <= 0 {
			continue
		}
		peak := FilteredPeak{
			RT:                seed.RT,
			MZ:                seed.MZ,
			ProfileSatellites: map[int][]ProfileSatellite{},
		}
		ok := true
		for p := 0; p < pattern.MassShiftCount() && ok; p++ {
			for iso := 0; iso < pattern.IsotopesPerPeptide; iso++ {
				target := seed.MZ + float64(iso)*spacing + pattern.MassShiftAt(p)/float64(pattern.Charge)
				matches := findProfileMatches(exp, target, opts.MZTolerance)
				slot := p*pattern.IsotopesPerPeptide + iso
				peak.ProfileSatellites[slot] = matches
				if p == 0 && len(matches) < opts.MinSatellites {
					ok = false
					break
				}
			}
		}
		if ok {
			result.Peaks = append(result.Peaks, peak)
		}
	}
	return result
}

func findProfileMatches(exp *ProfileExperiment, targetMZ, tolerance float64) []ProfileSatellite {
	var out []ProfileSatellite
	for _, pt := range exp.Points {
		if pt.Intensity <= 0 {
			continue
		}
		if math.Abs(pt.MZ-targetMZ) <= tolerance {
			out = append(out, ProfileSatellite{RT: pt.RT, MZ: pt.MZ, Intensity: pt.Intensity})
		}
	}
	return out
}

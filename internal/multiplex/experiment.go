package multiplex

import "sort"

// Spectrum is one MS1 scan as read off the wire: RT plus parallel
// m/z/intensity arrays. RunAuto classifies it as centroided or profile
// via DetectCentroided (§4.2 "run") before dispatching to Filter*.
type Spectrum struct {
	RT        float64
	MZ        []float64
	Intensity []float64
}

// Experiment is a centroided LC-MS run: spectra sorted by RT, each
// spectrum's peaks sorted by m/z (§4.2 "sorts spectra by RT then m/z").
type Experiment struct {
	Spectra []Spectrum
}

// SortExperiment sorts spectra by RT and, within each, peaks by m/z.
func SortExperiment(exp *Experiment) {
	sort.SliceStable(exp.Spectra, func(i, j int) bool {
		return exp.Spectra[i].RT < exp.Spectra[j].RT
	})
	for i := range exp.Spectra {
		sortPeaksByMZ(&exp.Spectra[i])
	}
}

func sortPeaksByMZ(s *Spectrum) {
	idx := make([]int, len(s.MZ))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return s.MZ[idx[a]] < s.MZ[idx[b]] })
	mz := make([]float64, len(s.MZ))
	in := make([]float64, len(s.Intensity))
	for newPos, oldPos := range idx {
		mz[newPos] = s.MZ[oldPos]
		in[newPos] = s.Intensity[oldPos]
	}
	s.MZ, s.Intensity = mz, in
}

// ProfilePoint is one raw (rt, mz, intensity) sample from a profile-mode
// acquisition.
type ProfilePoint struct {
	RT        float64
	MZ        float64
	Intensity float64
}

// ProfileExperiment is a flat, RT-sorted list of profile samples.
type ProfileExperiment struct {
	Points []ProfilePoint
}

// profileDensityThreshold is the point density (samples per Da of m/z
// span) above which a spectrum is judged to be densely, evenly sampled
// profile data rather than sparse, already-picked centroided peaks.
const profileDensityThreshold = 20.0

// DetectCentroided reports whether an acquisition looks centroided: true
// unless at least half of its spectra with two or more peaks are as dense
// as profile traces, judged by peaks per Da alone (a cheap heuristic standing in for the real peak-shape
// classifier, which is an external collaborator per §1). Empty
// experiments are reported as centroided since there is nothing to pick.
func DetectCentroided(exp *Experiment) bool {
	var profileLike, total int
	for _, s := range exp.Spectra {
		if len(s.MZ) < 2 {
			continue
		}
		total++
		span := s.MZ[len(s.MZ)-1] - s.MZ[0]
		if span <= 0 {
			continue
		}
		density := float64(len(s.MZ)) / span
		if density >= profileDensityThreshold {
			profileLike++
		}
	}
	if total == 0 {
		return true
	}
	return profileLike*2 < total
}

// toProfileExperiment flattens a densely sampled Experiment into the flat
// (rt, mz, intensity) point list RunProfile expects, for when
// DetectCentroided (or an explicit override) decides the input is
// profile data rather than already-picked peaks.
func toProfileExperiment(exp *Experiment) *ProfileExperiment {
	pe := &ProfileExperiment{}
	for _, s := range exp.Spectra {
		for i, mz := range s.MZ {
			pe.Points = append(pe.Points, ProfilePoint{RT: s.RT, MZ: mz, Intensity: s.Intensity[i]})
		}
	}
	return pe
}

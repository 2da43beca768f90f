package multiplex

import "math"

// synthesizeCentroided implements §4.2 step 4 for centroided data:
// deduplicate a cluster's satellites by (rt_idx, mz_idx), determine
// per-peptide intensities, and build one Feature per peptide plus the
// anchoring ConsensusFeature.
func synthesizeCentroided(exp *Experiment, pattern PeakPattern, fe FilteredExperiment, cluster Cluster, rtMin float64) ([]Feature, *ConsensusFeature) {
	type key struct{ rtIdx, mzIdx int }
	seen := map[key]bool{}
	slots := SlotSatellites{}

	for _, pointIdx := range cluster.Points {
		peak := fe.Peaks[pointIdx]
		for slot, sats := range peak.CentroidedSatellites {
			for _, s := range sats {
				k := key{s.RTIdx, s.MZIdx}
				if seen[k] {
					continue
				}
				seen[k] = true
				if s.RTIdx < 0 || s.RTIdx >= len(exp.Spectra) {
					continue
				}
				spec := exp.Spectra[s.RTIdx]
				if s.MZIdx < 0 || s.MZIdx >= len(spec.MZ) {
					continue
				}
				slots[slot] = append(slots[slot], satellitePoint{
					RT:        spec.RT,
					Intensity: spec.Intensity[s.MZIdx],
				})
			}
		}
	}

	intensities := DeterminePeptideIntensities(pattern, pattern.IsotopesPerPeptide, slots)
	if intensities[0] == unreliableIntensity {
		return nil, nil
	}

	return buildFeaturesFromSlots(pattern, slots, intensities, rtMin, func(slot int) ([]float64, []float64, []float64) {
		var rts, mzs, ints []float64
		for _, pointIdx := range cluster.Points {
			peak := fe.Peaks[pointIdx]
			for _, s := range peak.CentroidedSatellites[slot] {
				if s.RTIdx < 0 || s.RTIdx >= len(exp.Spectra) {
					continue
				}
				spec := exp.Spectra[s.RTIdx]
				if s.MZIdx < 0 || s.MZIdx >= len(spec.MZ) {
					continue
				}
				rts = append(rts, spec.RT)
				mzs = append(mzs, spec.MZ[s.MZIdx])
				ints = append(ints, spec.Intensity[s.MZIdx])
			}
		}
		return rts, mzs, ints
	})
}

// synthesizeProfile implements §4.2 step 4 for profile data: dedup by
// (rt, mz, intensity) instead of index pairs.
func synthesizeProfile(pattern PeakPattern, fe FilteredExperiment, cluster Cluster, rtMin float64) ([]Feature, *ConsensusFeature) {
	type key struct{ rt, mz, in float64 }
	seen := map[key]bool{}
	slots := SlotSatellites{}
	points := map[int][]ProfileSatellite{}

	for _, pointIdx := range cluster.Points {
		peak := fe.Peaks[pointIdx]
		for slot, sats := range peak.ProfileSatellites {
			for _, s := range sats {
				k := key{s.RT, s.MZ, s.Intensity}
				if seen[k] {
					continue
				}
				seen[k] = true
				// Satellites of zero intensity make sense (peak borders)
				// but would zero out the RT/MZ weighting; nudge them by
				// a small epsilon, matching the source's documented fix.
				intensity := s.Intensity
				if intensity == 0 {
					intensity = 0.0001
				}
				slots[slot] = append(slots[slot], satellitePoint{RT: s.RT, Intensity: intensity})
				points[slot] = append(points[slot], s)
			}
		}
	}

	intensities := DeterminePeptideIntensities(pattern, pattern.IsotopesPerPeptide, slots)
	if intensities[0] == unreliableIntensity {
		return nil, nil
	}

	return buildFeaturesFromSlots(pattern, slots, intensities, rtMin, func(slot int) ([]float64, []float64, []float64) {
		var rts, mzs, ints []float64
		for _, s := range points[slot] {
			rts = append(rts, s.RT)
			mzs = append(mzs, s.MZ)
			ints = append(ints, s.Intensity)
		}
		return rts, mzs, ints
	})
}

// buildFeaturesFromSlots is the shared feature/consensus construction
// core for both modes, parameterized only by how a slot's raw (rt, mz,
// intensity) triples are fetched.
func buildFeaturesFromSlots(pattern PeakPattern, slots SlotSatellites, intensities []float64, rtMin float64, fetch func(slot int) (rts, mzs, ints []float64)) ([]Feature, *ConsensusFeature) {
	n := pattern.MassShiftCount()
	features := make([]Feature, 0, n)
	var consensus *ConsensusFeature

	for p := 0; p < n; p++ {
		var rt, mz, intensitySum float64
		var hulls []ConvexHull2D

		for iso := 0; iso < pattern.IsotopesPerPeptide; iso++ {
			slot := p*pattern.IsotopesPerPeptide + iso
			rts, mzs, ints := fetch(slot)
			if len(rts) == 0 {
				continue
			}
			if iso == 0 {
				for i := range rts {
					rt += rts[i] * ints[i]
					mz += mzs[i] * ints[i]
					intensitySum += ints[i]
				}
			}
			hulls = append(hulls, hullFrom(rts, mzs))
		}
		if intensitySum == 0 {
			return nil, nil
		}
		rt /= intensitySum
		mz /= intensitySum

		f := Feature{
			RT:          rt,
			MZ:          mz,
			Intensity:   intensities[p],
			Charge:      pattern.Charge,
			Quality:     1.0,
			ConvexHulls: hulls,
		}

		if len(hulls) == 0 || hulls[0].MaxRT-hulls[0].MinRT < rtMin {
			return nil, nil
		}

		features = append(features, f)

		if p == 0 {
			consensus = &ConsensusFeature{
				RT:        rt,
				MZ:        mz,
				Intensity: intensities[p],
				Charge:    pattern.Charge,
				Quality:   1.0,
			}
		}
		consensus.Handles = append(consensus.Handles, FeatureHandle{
			RT:        rt,
			MZ:        mz,
			Intensity: intensities[p],
			Charge:    pattern.Charge,
			MapIndex:  p,
		})
	}

	return features, consensus
}

func hullFrom(rts, mzs []float64) ConvexHull2D {
	minRT, maxRT := rts[0], rts[0]
	minMZ, maxMZ := mzs[0], mzs[0]
	for i := range rts {
		minRT = math.Min(minRT, rts[i])
		maxRT = math.Max(maxRT, rts[i])
		minMZ = math.Min(minMZ, mzs[i])
		maxMZ = math.Max(maxMZ, mzs[i])
	}
	if minRT == maxRT {
		minRT -= 0.01
		maxRT += 0.01
	}
	if minMZ == maxMZ {
		minMZ -= 0.01
		maxMZ += 0.01
	}
	return ConvexHull2D{MinRT: minRT, MaxRT: maxRT, MinMZ: minMZ, MaxMZ: maxMZ}
}

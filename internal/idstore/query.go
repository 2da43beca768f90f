package idstore

// GetBestMatchPerObservation iterates matches (in insertion order,
// grouped by observation) and returns, per observation, the match whose
// most recent score of the given type is best according to the score
// type's orientation (§4.4). If requireScore is true, matches lacking the
// score are skipped entirely; otherwise they are treated as the worst
// possible candidate so any scored match wins over them.
func (s *Store) GetBestMatchPerObservation(score ScoreTypeRef, requireScore bool) map[ObservationRef]ObservationMatchRef {
	st, ok := s.ScoreType(score)
	if !ok {
		return nil
	}

	best := make(map[ObservationRef]ObservationMatchRef)
	bestValue := make(map[ObservationRef]float64)
	hasValue := make(map[ObservationRef]bool)

	for _, ref := range s.AllMatchRefs() {
		m := s.matches[ref]
		value, found := latestScore(m.ProcessSteps, score)
		if !found {
			if requireScore {
				continue
			}
			if _, seen := best[m.Observation]; seen {
				continue
			}
			best[m.Observation] = ref
			continue
		}

		current, seen := bestValue[m.Observation]
		betterThanCurrent := !seen || !hasValue[m.Observation] ||
			(st.HigherBetter && value > current) ||
			(!st.HigherBetter && value < current)

		if betterThanCurrent {
			best[m.Observation] = ref
			bestValue[m.Observation] = value
			hasValue[m.Observation] = true
		}
	}

	return best
}

func latestScore(steps []StepScores, scoreType ScoreTypeRef) (float64, bool) {
	for i := len(steps) - 1; i >= 0; i-- {
		if v, ok := steps[i].Scores[scoreType]; ok {
			return v, true
		}
	}
	return 0, false
}

package idstore

import "sort"

// CalculateCoverages recomputes Coverage for every live parent sequence
// as (union length of valid matches) / (parent length), §4.4
// "calculateCoverages(check_length)". When checkLength is true, match
// intervals are clamped to [0, len(sequence)] and an interval left empty
// by the clamping is dropped, so the union never extends past the known
// sequence.
func (s *Store) CalculateCoverages(checkLength bool) {
	intervalsByParent := make(map[ParentSequenceRef][][2]int)

	for moleculeRef := range s.moleculeSet {
		m := s.molecules[moleculeRef]
		for parentRef, matches := range m.ParentMatch {
			if _, ok := s.parentSet[parentRef]; !ok {
				continue
			}
			seqLen := len(s.parents[parentRef].Sequence)
			for _, pm := range matches {
				start, end := pm.Start, pm.End
				if checkLength {
					if start < 0 {
						start = 0
					}
					if end > seqLen {
						end = seqLen
					}
					if start >= end {
						continue
					}
				}
				if end <= start {
					continue
				}
				intervalsByParent[parentRef] = append(intervalsByParent[parentRef], [2]int{start, end})
			}
		}
	}

	for ref := range s.parentSet {
		p := &s.parents[ref]
		seqLen := len(p.Sequence)
		if seqLen == 0 {
			p.Coverage = 0
			continue
		}
		union := unionLength(intervalsByParent[ref])
		coverage := float64(union) / float64(seqLen)
		if coverage > 1 {
			coverage = 1
		}
		if coverage < 0 {
			coverage = 0
		}
		p.Coverage = coverage
	}
}

// unionLength returns the total length covered by the union of the given
// half-open [start,end) intervals.
func unionLength(intervals [][2]int) int {
	if len(intervals) == 0 {
		return 0
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i][0] < intervals[j][0] })

	total := 0
	curStart, curEnd := intervals[0][0], intervals[0][1]
	for _, iv := range intervals[1:] {
		if iv[0] > curEnd {
			total += curEnd - curStart
			curStart, curEnd = iv[0], iv[1]
			continue
		}
		if iv[1] > curEnd {
			curEnd = iv[1]
		}
	}
	total += curEnd - curStart
	return total
}

package idstore

import "log"

// CleanupFlags select the strength of a cleanup sweep (§4.4 "cleanup(flags)").
// Each flag narrows survivorship further; flags compose (all requested
// conditions must hold for an entity to survive).
type CleanupFlags struct {
	RequireObservationMatch   bool // molecules/observations must be reachable via a surviving match
	RequireIdentifiedSequence bool // parent sequences must be referenced by a surviving molecule's parent match
	RequireParentMatch        bool // identified molecules must have at least one surviving parent match
	RequireGroup              bool // parents/matches must belong to a surviving group
}

// Cleanup garbage-collects entities orphaned by the requested filters.
// It does not compact the underlying arenas (other live references stay
// valid); it only removes orphans from the address-lookup sets, so a
// removed ref subsequently looks up as "not found". Per §4.4, cleanup may
// invalidate cached iterators held by callers; no stable-reference
// guarantee survives cleanup.
func (s *Store) Cleanup(flags CleanupFlags) {
	if flags.RequireObservationMatch {
		matchedMolecules := make(map[IdentifiedMoleculeRef]struct{})
		matchedObservations := make(map[ObservationRef]struct{})
		for ref := range s.matchSet {
			m := s.matches[ref]
			matchedMolecules[m.Molecule] = struct{}{}
			matchedObservations[m.Observation] = struct{}{}
		}
		for ref := range s.moleculeSet {
			if _, ok := matchedMolecules[ref]; !ok {
				delete(s.moleculeSet, ref)
			}
		}
		for ref := range s.observaSet {
			if _, ok := matchedObservations[ref]; !ok {
				delete(s.observaSet, ref)
			}
		}
	}

	if flags.RequireParentMatch {
		for ref := range s.moleculeSet {
			m := s.molecules[ref]
			if !s.hasLiveParentMatch(m) {
				delete(s.moleculeSet, ref)
			}
		}
	}

	if flags.RequireIdentifiedSequence {
		referenced := make(map[ParentSequenceRef]struct{})
		for ref := range s.moleculeSet {
			for parentRef := range s.molecules[ref].ParentMatch {
				referenced[parentRef] = struct{}{}
			}
		}
		for ref := range s.parentSet {
			if _, ok := referenced[ref]; !ok {
				delete(s.parentSet, ref)
			}
		}
	}

	if flags.RequireGroup {
		groupedParents := make(map[ParentSequenceRef]struct{})
		for _, g := range s.parentGroups {
			for _, m := range g.Members {
				groupedParents[m] = struct{}{}
			}
		}
		for ref := range s.parentSet {
			if _, ok := groupedParents[ref]; !ok {
				delete(s.parentSet, ref)
			}
		}
		groupedMatches := make(map[ObservationMatchRef]struct{})
		for _, g := range s.matchGroups {
			for _, m := range g.Members {
				groupedMatches[m] = struct{}{}
			}
		}
		for ref := range s.matchSet {
			if _, ok := groupedMatches[ref]; !ok {
				delete(s.matchSet, ref)
			}
		}
	}

	s.pruneGroups()
}

func (s *Store) hasLiveParentMatch(m IdentifiedMolecule) bool {
	for parentRef := range m.ParentMatch {
		if _, ok := s.parentSet[parentRef]; ok {
			return true
		}
	}
	return false
}

// pruneGroups strips now-dangling members from groups, warning (per §4.4
// "emits a warning when group scores may have become invalid") when a
// group's membership shrank, and drops groups left with no members.
func (s *Store) pruneGroups() {
	kept := s.parentGroups[:0]
	for i, g := range s.parentGroups {
		before := len(g.Members)
		live := g.Members[:0]
		for _, m := range g.Members {
			if _, ok := s.parentSet[m]; ok {
				live = append(live, m)
			}
		}
		g.Members = live
		if len(live) == 0 {
			continue
		}
		if len(live) != before {
			log.Printf("warning: idstore.Cleanup: parent group %d lost %d member(s); its scores may no longer be valid", i, before-len(live))
		}
		kept = append(kept, g)
	}
	s.parentGroups = kept

	keptM := s.matchGroups[:0]
	for i, g := range s.matchGroups {
		before := len(g.Members)
		live := g.Members[:0]
		for _, m := range g.Members {
			if _, ok := s.matchSet[m]; ok {
				live = append(live, m)
			}
		}
		g.Members = live
		if len(live) == 0 {
			continue
		}
		if len(live) != before {
			log.Printf("warning: idstore.Cleanup: observation-match group %d lost %d member(s); its scores may no longer be valid", i, before-len(live))
		}
		keptM = append(keptM, g)
	}
	s.matchGroups = keptM
}

package idstore

// RefTranslator maps every reference in a merged-in store to its new
// reference in the destination store, so callers holding stale refs into
// the source store can rewrite their dependent data (§4.4 "merge(other) ->
// RefTranslator").
type RefTranslator struct {
	InputFile   map[InputFileRef]InputFileRef
	Software    map[SoftwareRef]SoftwareRef
	SearchParam map[DBSearchParamRef]DBSearchParamRef
	Step        map[ProcessingStepRef]ProcessingStepRef
	ScoreType   map[ScoreTypeRef]ScoreTypeRef
	Observation map[ObservationRef]ObservationRef
	Parent      map[ParentSequenceRef]ParentSequenceRef
	Molecule    map[IdentifiedMoleculeRef]IdentifiedMoleculeRef
	Adduct      map[AdductRef]AdductRef
	Match       map[ObservationMatchRef]ObservationMatchRef
	ParentGroup map[ParentGroupSetRef]ParentGroupSetRef
	MatchGroup  map[ObservationMatchGroupRef]ObservationMatchGroupRef
}

func newTranslator() *RefTranslator {
	return &RefTranslator{
		InputFile:   make(map[InputFileRef]InputFileRef),
		Software:    make(map[SoftwareRef]SoftwareRef),
		SearchParam: make(map[DBSearchParamRef]DBSearchParamRef),
		Step:        make(map[ProcessingStepRef]ProcessingStepRef),
		ScoreType:   make(map[ScoreTypeRef]ScoreTypeRef),
		Observation: make(map[ObservationRef]ObservationRef),
		Parent:      make(map[ParentSequenceRef]ParentSequenceRef),
		Molecule:    make(map[IdentifiedMoleculeRef]IdentifiedMoleculeRef),
		Adduct:      make(map[AdductRef]AdductRef),
		Match:       make(map[ObservationMatchRef]ObservationMatchRef),
		ParentGroup: make(map[ParentGroupSetRef]ParentGroupSetRef),
		MatchGroup:  make(map[ObservationMatchGroupRef]ObservationMatchGroupRef),
	}
}

func translateSteps(t *RefTranslator, steps []StepScores) []StepScores {
	out := make([]StepScores, len(steps))
	for i, ss := range steps {
		newScores := make(map[ScoreTypeRef]float64, len(ss.Scores))
		for st, v := range ss.Scores {
			newScores[t.ScoreType[st]] = v
		}
		out[i] = StepScores{Step: t.Step[ss.Step], Scores: newScores}
	}
	return out
}

// Merge copies every entity from other into s, rewriting embedded
// references via the returned translator. Per §4.4, reference checks are
// suspended for the duration of the merge (no_checks_): the copy order
// below guarantees every reference a later entity needs has already been
// translated and inserted.
func (s *Store) Merge(other *Store) *RefTranslator {
	t := newTranslator()
	s.noChecks = true
	defer func() { s.noChecks = false }()

	for i := range other.inputFiles {
		old := InputFileRef(i)
		t.InputFile[old] = s.RegisterInputFile(other.inputFiles[i].Name)
	}
	for i := range other.software {
		old := SoftwareRef(i)
		sw := other.software[i]
		t.Software[old] = s.RegisterProcessingSoftware(sw.Name, sw.Version)
	}
	for i := range other.searchParams {
		old := DBSearchParamRef(i)
		params := make(map[string]string, len(other.searchParams[i].Params))
		for k, v := range other.searchParams[i].Params {
			params[k] = v
		}
		t.SearchParam[old] = s.RegisterDBSearchParam(params)
	}
	for i := range other.steps {
		old := ProcessingStepRef(i)
		step := other.steps[i]
		files := make([]InputFileRef, len(step.InputFiles))
		for j, f := range step.InputFiles {
			files[j] = t.InputFile[f]
		}
		var sp *DBSearchParamRef
		if step.HasSearchParam {
			v := t.SearchParam[step.SearchParam]
			sp = &v
		}
		ref, _ := s.RegisterProcessingStep(t.Software[step.Software], files, sp)
		t.Step[old] = ref
	}
	for i := range other.scoreTypes {
		old := ScoreTypeRef(i)
		st := other.scoreTypes[i]
		ref, _ := s.RegisterScoreType(st.Name, st.HigherBetter)
		t.ScoreType[old] = ref
	}
	for i := range other.observations {
		old := ObservationRef(i)
		obs := other.observations[i]
		ref, _ := s.RegisterObservation(obs.DataID, t.InputFile[obs.InputFile])
		t.Observation[old] = ref
	}
	for i := range other.parents {
		old := ParentSequenceRef(i)
		p := other.parents[i]
		ref, _ := s.RegisterParentSequence(p.Accession, p.Type, p.Sequence, p.Coverage, p.Decoy)
		s.parents[ref].ProcessSteps = translateSteps(t, p.ProcessSteps)
		t.Parent[old] = ref
	}
	for i := range other.molecules {
		old := IdentifiedMoleculeRef(i)
		m := other.molecules[i]
		pm := make(map[ParentSequenceRef][]ParentMatch, len(m.ParentMatch))
		for parentRef, matches := range m.ParentMatch {
			pm[t.Parent[parentRef]] = append([]ParentMatch(nil), matches...)
		}
		ref, _ := s.registerMolecule(m.Type, m.Sequence, pm)
		s.molecules[ref].ProcessSteps = translateSteps(t, m.ProcessSteps)
		t.Molecule[old] = ref
	}
	for i := range other.adducts {
		old := AdductRef(i)
		a := other.adducts[i]
		t.Adduct[old] = s.RegisterAdduct(a.Name, a.Formula, a.Charge, a.Mass)
	}
	for i := range other.matches {
		old := ObservationMatchRef(i)
		m := other.matches[i]
		var adduct *AdductRef
		if m.HasAdduct {
			v := t.Adduct[m.Adduct]
			adduct = &v
		}
		ref, _ := s.RegisterObservationMatch(t.Molecule[m.Molecule], t.Observation[m.Observation], m.Charge, adduct)
		s.matches[ref].ProcessSteps = translateSteps(t, m.ProcessSteps)
		s.matches[ref].PeakAnnotation = append([]PeakAnnotation(nil), m.PeakAnnotation...)
		t.Match[old] = ref
	}
	for i := range other.parentGroups {
		old := ParentGroupSetRef(i)
		g := other.parentGroups[i]
		members := make([]ParentSequenceRef, len(g.Members))
		for j, m := range g.Members {
			members[j] = t.Parent[m]
		}
		ref, _ := s.RegisterParentGroupSet(members)
		s.parentGroups[ref].ProcessSteps = translateSteps(t, g.ProcessSteps)
		t.ParentGroup[old] = ref
	}
	for i := range other.matchGroups {
		old := ObservationMatchGroupRef(i)
		g := other.matchGroups[i]
		members := make([]ObservationMatchRef, len(g.Members))
		for j, m := range g.Members {
			members[j] = t.Match[m]
		}
		ref, _ := s.RegisterObservationMatchGroup(members)
		s.matchGroups[ref].ProcessSteps = translateSteps(t, g.ProcessSteps)
		t.MatchGroup[old] = ref
	}

	return t
}

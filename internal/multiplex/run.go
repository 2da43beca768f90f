package multiplex

import "sort"

// Options configures Run (§4.2 "run(experiment, progress)").
type Options struct {
	ChargeMin, ChargeMax int
	IsotopesPerPeptideMax int
	MassPatterns          []DeltaMasses

	Filter  FilterOptions
	Cluster ClusterOptions

	ForceCentroided *bool // nil = auto-detect (§4.2 "auto-detect centroided vs profile, overridable")
}

// ProgressFunc reports (current, total) pattern-processing progress;
// nil is a valid no-op reporter.
type ProgressFunc func(current, total int)

// Run executes the full Feature-Finder Multiplex pipeline (§4.2) over a
// centroided experiment: pattern generation, filtering, clustering, and
// feature/consensus synthesis with §4.2.1 intensity correction.
func Run(exp *Experiment, opts Options, progress ProgressFunc) Result {
	SortExperiment(exp)

	patterns := GeneratePatterns(opts.ChargeMin, opts.ChargeMax, opts.IsotopesPerPeptideMax, opts.MassPatterns)

	var result Result
	for i, pattern := range patterns {
		if progress != nil {
			progress(i+1, len(patterns))
		}
		fe := FilterCentroided(exp, pattern, opts.Filter)
		clusters := Cluster2D(fe, opts.Cluster)
		for _, cluster := range orderedClusters(clusters) {
			features, consensus := synthesizeCentroided(exp, pattern, fe, cluster, opts.Cluster.RTMin)
			if consensus == nil {
				continue
			}
			result.Features = append(result.Features, features...)
			result.ConsensusFeatures = append(result.ConsensusFeatures, *consensus)
		}
	}
	return result
}

// RunAuto is the §4.2 "run(experiment, progress)" entry point: it reads a
// single wire-format Experiment, decides centroided vs profile mode via
// DetectCentroided unless opts.ForceCentroided overrides the decision,
// and dispatches to Run or RunProfile accordingly.
func RunAuto(exp *Experiment, opts Options, progress ProgressFunc) Result {
	centroided := DetectCentroided(exp)
	if opts.ForceCentroided != nil {
		centroided = *opts.ForceCentroided
	}
	if centroided {
		return Run(exp, opts, progress)
	}
	return RunProfile(toProfileExperiment(exp), opts, progress)
}

// RunProfile is Run's profile-mode counterpart, used when the experiment
// is detected (or forced) to be profile data rather than centroided.
func RunProfile(exp *ProfileExperiment, opts Options, progress ProgressFunc) Result {
	patterns := GeneratePatterns(opts.ChargeMin, opts.ChargeMax, opts.IsotopesPerPeptideMax, opts.MassPatterns)

	var result Result
	for i, pattern := range patterns {
		if progress != nil {
			progress(i+1, len(patterns))
		}
		fe := FilterProfile(exp, pattern, opts.Filter)
		clusters := Cluster2D(fe, opts.Cluster)
		for _, cluster := range orderedClusters(clusters) {
			features, consensus := synthesizeProfile(pattern, fe, cluster, opts.Cluster.RTMin)
			if consensus == nil {
				continue
			}
			result.Features = append(result.Features, features...)
			result.ConsensusFeatures = append(result.ConsensusFeatures, *consensus)
		}
	}
	return result
}

func orderedClusters(clusters map[int]Cluster) []Cluster {
	ids := make([]int, 0, len(clusters))
	for id := range clusters {
		ids = append(ids, id)
	}
	// Cluster2D assigns ids in discovery order; sorting numerically
	// reproduces that order deterministically regardless of map iteration.
	sort.Ints(ids)
	out := make([]Cluster, len(ids))
	for i, id := range ids {
		out[i] = clusters[id]
	}
	return out
}

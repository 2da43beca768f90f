// Package mrm implements the C5 MRM Transition-Group Peak Picker (§4.1):
// multi-trace chromatogram peak detection and feature assembly with
// consensus/non-consensus modes, border recalculation, quality scoring,
// and per-transition integration.
package mrm

import (
	"sort"

	apperrors "github.com/msplatform/mscore/internal/errors"
)

// PickTransitionGroup fills group with zero or more MRM features by
// repeatedly finding candidate peaks across member chromatograms and
// coalescing them (§4.1 "pickTransitionGroup"). The group is mutated in
// place; an empty or already-consistent-but-featureless group simply
// accumulates no features.
func PickTransitionGroup(group *TransitionGroup, opts Options) error {
	const op = apperrors.Op("mrm.PickTransitionGroup")
	if opts.Integrator == nil {
		return apperrors.E(op, apperrors.KindIllegalArgument, "integrator collaborator is required")
	}
	if opts.PeakIntegration != IntegrateOriginal && opts.PeakIntegration != IntegrateSmoothed {
		return apperrors.E(op, apperrors.KindIllegalArgument, "invalid peak_integration value")
	}

	// Step 1: per-chromatogram picking for detecting fragment transitions,
	// and optionally precursor chromatograms. Identifying transitions are
	// excluded (§4.1 step 1).
	for i := range group.Chromatograms {
		c := &group.Chromatograms[i]
		if c.IsIdentifying {
			continue
		}
		if err := pickChromatogram(c, opts); err != nil {
			return apperrors.WrapMsg(op, "picking "+c.ID, err)
		}
	}
	for i := range group.PrecursorChrom {
		c := &group.PrecursorChrom[i]
		if err := pickChromatogram(c, opts); err != nil {
			return apperrors.WrapMsg(op, "picking precursor "+c.ID, err)
		}
	}

	totalXIC := totalIntensity(group)

	// Step 2: seed-selection loop.
	for {
		if opts.StopAfterFeature > 0 && len(group.Features) >= opts.StopAfterFeature {
			break
		}
		chromIdx, peakIdx, ok := selectSeed(group, opts.SeedPolicy)
		if !ok {
			break
		}
		f, built := buildFeature(group, chromIdx, peakIdx, opts)
		if !built || f.Intensity <= 0 {
			continue
		}
		if totalXIC > 0 && f.Intensity/totalXIC < opts.StopAfterIntensityRatio {
			break
		}
		if !containedInExisting(f, group.Features) {
			group.Features = append(group.Features, f)
		}
	}
	return nil
}

// pickChromatogram invokes the external peak picker (via opts) and sorts
// the resulting picked peaks by intensity descending (§4.1 step 1). The
// Picked field is expected to already be populated by an upstream
// acquisition/loader stage that ran the external picker; this function
// only enforces the sort-by-intensity-descending postcondition and
// validates the smoothed-variant precondition for `peak_integration =
// smoothed`.
func pickChromatogram(c *Chromatogram, opts Options) error {
	if opts.PeakIntegration == IntegrateSmoothed && c.Smoothed == nil {
		return apperrors.E(apperrors.KindIllegalArgument, "smoothed chromatogram required but missing for "+c.ID)
	}
	sort.SliceStable(c.Picked, func(i, j int) bool {
		return c.Picked[i].Intensity > c.Picked[j].Intensity
	})
	return nil
}

func totalIntensity(group *TransitionGroup) float64 {
	var total float64
	for _, c := range group.Chromatograms {
		if c.IsIdentifying {
			continue
		}
		for _, v := range c.Intensity {
			total += v
		}
	}
	return total
}

// selectSeed picks the next seed peak across all picked, non-zeroed
// fragment chromatograms using the configured policy (§4.1 step 2).
// Returns ok=false when no positive-intensity peak remains.
func selectSeed(group *TransitionGroup, policy SeedPolicy) (chromIdx, peakIdx int, ok bool) {
	best := -1.0
	found := false
	for ci := range group.Chromatograms {
		c := &group.Chromatograms[ci]
		if c.IsIdentifying {
			continue
		}
		for pi := range c.Picked {
			p := &c.Picked[pi]
			if p.zeroed || p.Intensity <= 0 {
				continue
			}
			var score float64
			switch policy {
			case SeedWidest:
				score = p.Right - p.Left
			default:
				score = p.Intensity
			}
			if !found || score > best {
				best = score
				chromIdx, peakIdx = ci, pi
				found = true
			}
		}
	}
	return chromIdx, peakIdx, found
}

// containedInExisting implements step 3 deduplication: a new feature is
// discarded if its [leftWidth,rightWidth] interval is entirely contained
// in a previously kept feature's interval.
func containedInExisting(f Feature, existing []Feature) bool {
	newLeft := f.RT - f.LeftWidth
	newRight := f.RT + f.RightWidth
	for _, e := range existing {
		eLeft := e.RT - e.LeftWidth
		eRight := e.RT + e.RightWidth
		if newLeft >= eLeft && newRight <= eRight {
			return true
		}
	}
	return false
}

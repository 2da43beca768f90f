package mrm

// SeedPolicy selects how the next seed peak is chosen among all picked
// chromatograms (§4.1 step 2).
type SeedPolicy int

const (
	SeedLargest SeedPolicy = iota // global-intensity argmax
	SeedWidest                    // maximum right - left boundary
)

// PeakIntegrationSource selects which chromatogram variant is resampled
// for integration (§4.1.4).
type PeakIntegrationSource int

const (
	IntegrateOriginal PeakIntegrationSource = iota
	IntegrateSmoothed
)

// BaselineMethod selects how the per-transition baseline is estimated and
// subtracted before area/apex extraction (§4.1.4).
type BaselineMethod int

const (
	BaselineNone BaselineMethod = iota
	BaselineTrapezoid
	BaselineExact
)

// Integrator computes area, apex height and apex position for a signal
// restricted to [left,right] on grid x — an external collaborator (§1
// non-goals: "numeric primitives... are assumed available").
type Integrator func(x, y []float64, left, right float64) (area, apexHeight, apexPosition float64)

// BackgroundEstimator computes the background-subtracted signal for the
// "exact" baseline method — an external collaborator.
type BackgroundEstimator func(x, y []float64, left, right float64) []float64

// CrossCorrelator returns the lag (x of the correlation peak) and shape
// (y of the correlation peak) between two resampled signals on a common
// grid — an external collaborator (§4.1.3).
type CrossCorrelator func(a, b []float64) (lag, shape float64)

// Options configures pickTransitionGroup (§4.1).
type Options struct {
	SeedPolicy              SeedPolicy
	ConsensusMode           bool
	RecalculateBorders      bool
	MaxZ                    float64 // recalculate_peaks_max_z (§9: normal z-score, MAD noted as future work)
	MinPeakWidth            float64
	QualityScoringEnabled   bool
	MinQual                 float64
	StopAfterFeature        int
	StopAfterIntensityRatio float64
	PeakIntegration         PeakIntegrationSource
	Baseline                BaselineMethod

	Integrator          Integrator
	BackgroundEstimator BackgroundEstimator
	CrossCorrelator     CrossCorrelator
}

// Package poincare derives heart-rate-variability descriptors from the
// geometry of the Poincaré plot, the scatter of each inter-beat
// interval against its successor. SD1 measures dispersion across the
// identity line (short-term variability), SD2 along it (long-term
// variability). The package turns a raw IBI record into CSI and CVI
// series sampled on a uniform 4 Hz grid.
package poincare

import (
	"fmt"
	"math"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/gonumext"
	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/signal"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

// DescriptorRate is the uniform rate (Hz) of the resampled CSI/CVI
// series.
const DescriptorRate = 4.0

// ScaleMode selects how SD1/SD2 are turned into CVI/CSI.
type ScaleMode int

const (
	// ScaleTenfold maps CVI = 10*SD1, CSI = 10*SD2.
	ScaleTenfold ScaleMode = iota
	// ScaleClassic maps CVI = SD1*SD2*100, CSI = SD2/SD1.
	ScaleClassic
)

// Descriptor holds CSI and CVI resampled on a uniform grid.
type Descriptor struct {
	Time []float64
	CSI  []float64
	CVI  []float64
}

// InsufficientDataError reports an IBI record too short for the global
// Poincaré baseline.
type InsufficientDataError struct {
	Have int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("poincare: %d IBI samples, need at least 3 for the global baseline", e.Have)
}

// SD computes the Poincaré descriptors of a duration sequence:
//
//	SD1 = sqrt(0.5 Var(ΔIBI))
//	SD2 = sqrt(2 Var(IBI) - 0.5 Var(ΔIBI))
//
// Variances follow MATLAB var semantics (a single sample has variance
// zero), so a two-sample window is defined. SD2 is NaN when the
// argument of its square root turns negative.
func SD(durations []float64) (sd1, sd2 float64) {
	v := gonumext.Variance(durations)
	vd := gonumext.Variance(gonumext.Diff(durations))
	sd1 = math.Sqrt(0.5 * vd)
	sd2 = math.Sqrt(2*v - 0.5*vd)
	return sd1, sd2
}

// Describe derives CSI/CVI from an IBI record with a sliding window of
// wind seconds. Windows are anchored so that each window ends at an
// IBI timestamp; a window holding fewer than 2 samples is dropped.
// The windowed series are re-centered onto the global
// baseline, scaled according to mode and spline-resampled at 4 Hz
// over the hull of the usable window anchors.
func Describe(ibi signal.IBISeries, wind float64, mode ScaleMode) (*Descriptor, error) {
	if ibi.Len() < 3 {
		return nil, &InsufficientDataError{Have: ibi.Len()}
	}
	sd1g, sd2g := SD(ibi.Duration)
	if math.IsNaN(sd1g) || math.IsNaN(sd2g) {
		return nil, fmt.Errorf("poincare: global SD1/SD2 undefined (SD1=%v, SD2=%v)", sd1g, sd2g)
	}

	anchors, sd1w, sd2w := Windowed(ibi, wind)
	if len(anchors) < 2 {
		return nil, fmt.Errorf("poincare: only %d usable windows, need at least 2 to resample", len(anchors))
	}

	sd1r := Recenter(sd1w, sd1g)
	sd2r := Recenter(sd2w, sd2g)
	csi := make([]float64, len(anchors))
	cvi := make([]float64, len(anchors))
	for i := range anchors {
		switch mode {
		case ScaleClassic:
			cvi[i] = sd1r[i] * sd2r[i] * 100
			csi[i] = sd2r[i] / sd1r[i]
		default:
			cvi[i] = 10 * sd1r[i]
			csi[i] = 10 * sd2r[i]
		}
	}

	grid := uniformGrid(anchors[0], anchors[len(anchors)-1], DescriptorRate)
	csiU, err := resample(anchors, csi, grid)
	if err != nil {
		return nil, err
	}
	cviU, err := resample(anchors, cvi, grid)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Time: grid, CSI: csiU, CVI: cviU}, nil
}

// Windowed computes the sliding-window Poincaré descriptors. Each
// window of wind seconds ends at an IBI timestamp; windows holding
// fewer than 2 samples, or whose SD2 is undefined, are dropped. The
// returned anchors are the surviving window end timestamps.
func Windowed(ibi signal.IBISeries, wind float64) (anchors, sd1w, sd2w []float64) {
	n := ibi.Len()
	anchors = make([]float64, 0, n)
	sd1w = make([]float64, 0, n)
	sd2w = make([]float64, 0, n)
	for k := 0; k < n; k++ {
		t := ibi.Time[k]
		win := ibi.Window(t-wind, t)
		if len(win) < 2 {
			continue
		}
		s1, s2 := SD(win)
		if math.IsNaN(s1) || math.IsNaN(s2) {
			continue
		}
		anchors = append(anchors, t)
		sd1w = append(sd1w, s1)
		sd2w = append(sd2w, s2)
	}
	return anchors, sd1w, sd2w
}

// Recenter shifts x so its mean lands on baseline. This removes
// window-to-window drift while keeping the overall scale of the
// record.
func Recenter(x []float64, baseline float64) []float64 {
	m := stat.Mean(x, nil)
	res := make([]float64, len(x))
	for i, v := range x {
		res[i] = v - m + baseline
	}
	return res
}

// uniformGrid returns t0, t0+1/rate, ... up to and including the last
// point not beyond t1.
func uniformGrid(t0, t1, rate float64) []float64 {
	step := 1 / rate
	n := int(math.Floor((t1-t0)*rate)) + 1
	// Rounding in the sample count must not push the grid past the
	// hull.
	for n > 1 && t0+float64(n-1)*step > t1 {
		n--
	}
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = t0 + float64(i)*step
	}
	return grid
}

func resample(xs, ys, query []float64) ([]float64, error) {
	var nc interp.NaturalCubic
	if err := nc.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("poincare: spline fit: %w", err)
	}
	res := make([]float64, len(query))
	for i, x := range query {
		if x < xs[0] || x > xs[len(xs)-1] {
			return nil, fmt.Errorf("poincare: query %v outside source range [%v, %v]", x, xs[0], xs[len(xs)-1])
		}
		res[i] = nc.Predict(x)
	}
	return res, nil
}

// Package align intersects the time supports of the model grid and
// the window-center index timestamps, and resamples every series onto
// the restricted common grid. Interpolation is only ever evaluated
// inside the convex hull of its source series; a query outside the
// hull is an error, never an extrapolation.
package align

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/mat"
)

// CleanFunc is an artifact-cleanup hook applied to the aligned
// band-power matrix. It must be pure and stateless.
type CleanFunc func(*mat.Dense) *mat.Dense

// Identity is the default cleanup hook.
func Identity(p *mat.Dense) *mat.Dense { return p }

// Aligned holds every series resampled onto the restricted grid.
type Aligned struct {
	Time  []float64
	Cs    []float64
	Cp    []float64
	CSI   []float64
	CVI   []float64
	Power *mat.Dense
}

// Align restricts time to the span covered by both the model grid and
// tm, then spline-resamples cs/cp (from their tm support) and
// csi/cvi/power (from the model grid) onto it. NaN support points are
// dropped before fitting. clean defaults to Identity when nil.
func Align(time, tm, cs, cp, csi, cvi []float64, power *mat.Dense, clean CleanFunc) (*Aligned, error) {
	if clean == nil {
		clean = Identity
	}
	csT, csV, err := finiteSupport(tm, cs, "Cs")
	if err != nil {
		return nil, err
	}
	cpT, cpV, err := finiteSupport(tm, cp, "Cp")
	if err != nil {
		return nil, err
	}

	lo := math.Max(time[0], math.Max(csT[0], cpT[0]))
	hi := math.Min(time[len(time)-1], math.Min(csT[len(csT)-1], cpT[len(cpT)-1]))
	iLo, iHi := span(time, lo, hi)
	if iLo > iHi {
		return nil, fmt.Errorf("align: no model grid samples inside common support [%v, %v]", lo, hi)
	}
	time2 := time[iLo : iHi+1]

	res := &Aligned{Time: time2}
	if res.Cs, err = Resample(csT, csV, time2); err != nil {
		return nil, fmt.Errorf("align: Cs: %w", err)
	}
	if res.Cp, err = Resample(cpT, cpV, time2); err != nil {
		return nil, fmt.Errorf("align: Cp: %w", err)
	}
	if res.CSI, err = Resample(time, csi, time2); err != nil {
		return nil, fmt.Errorf("align: CSI: %w", err)
	}
	if res.CVI, err = Resample(time, cvi, time2); err != nil {
		return nil, fmt.Errorf("align: CVI: %w", err)
	}

	channels, _ := power.Dims()
	aligned := mat.NewDense(channels, len(time2), nil)
	for ch := 0; ch < channels; ch++ {
		row, err := Resample(time, mat.Row(nil, ch, power), time2)
		if err != nil {
			return nil, fmt.Errorf("align: band power channel %d: %w", ch, err)
		}
		aligned.SetRow(ch, row)
	}
	res.Power = clean(aligned)
	return res, nil
}

// Resample fits a natural cubic spline through (xs, ys) and evaluates
// it at every query point. Queries outside [xs[0], xs[len-1]] are
// refused.
func Resample(xs, ys, query []float64) ([]float64, error) {
	var nc interp.NaturalCubic
	if err := nc.Fit(xs, ys); err != nil {
		return nil, fmt.Errorf("spline fit: %w", err)
	}
	res := make([]float64, len(query))
	for i, x := range query {
		if x < xs[0] || x > xs[len(xs)-1] {
			return nil, fmt.Errorf("query %v outside source range [%v, %v]", x, xs[0], xs[len(xs)-1])
		}
		res[i] = nc.Predict(x)
	}
	return res, nil
}

// finiteSupport drops NaN/Inf support points from (xs, ys) and
// requires at least two survivors.
func finiteSupport(xs, ys []float64, name string) ([]float64, []float64, error) {
	fx := make([]float64, 0, len(xs))
	fy := make([]float64, 0, len(ys))
	for i, y := range ys {
		if math.IsNaN(y) || math.IsInf(y, 0) {
			continue
		}
		fx = append(fx, xs[i])
		fy = append(fy, y)
	}
	if len(fx) < 2 {
		return nil, nil, fmt.Errorf("align: %s has %d finite samples, need at least 2", name, len(fx))
	}
	return fx, fy, nil
}

// span returns the first and last index of x inside [lo, hi].
func span(x []float64, lo, hi float64) (iLo, iHi int) {
	iLo, iHi = len(x), -1
	for i, v := range x {
		if v >= lo && v <= hi {
			if i < iLo {
				iLo = i
			}
			iHi = i
		}
	}
	return iLo, iHi
}

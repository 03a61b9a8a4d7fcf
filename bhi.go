// Package bhi estimates time-varying directional coupling between
// cardiac rhythm dynamics and band-limited brain activity. From an
// inter-beat-interval record, the CSI/CVI heart-rate-variability
// indices and a channels-by-time band-power matrix it produces, per
// channel, two heart→brain series (sliding-window linear system
// identification against CSI and CVI) and two brain→heart series
// (normalized running means of synthetic sympathetic and vagal
// indices).
package bhi

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/align"
	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/coupling"
	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/poincare"
	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/signal"
	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/sympatho"
	"gonum.org/v1/gonum/mat"
)

// Inputs bundles everything one estimation run consumes. CSI and CVI
// are optional as a pair; when absent they are derived from the IBI
// record and the time grid is restricted to the span the derivation
// covers.
type Inputs struct {
	// Band power, channels × len(Time). A single-channel matrix
	// supplied time-major is transposed automatically.
	Power *mat.Dense
	IBI   signal.IBISeries
	Time  []float64
	CSI   []float64
	CVI   []float64
}

// Result holds the four coupling matrices, stacked by channel index,
// and their time axes.
type Result struct {
	CSI2B *mat.Dense
	CVI2B *mat.Dense
	B2CSI *mat.Dense
	B2CVI *mat.Dense
	TH2B  []float64
	TB2H  []float64
}

// Estimator runs the full pipeline: optional HRV description,
// sympathovagal modelling, time alignment and per-channel coupling
// estimation.
type Estimator struct {
	Params Params
	// Clean is the artifact-cleanup hook applied to the aligned band
	// power matrix; nil means identity.
	Clean align.CleanFunc
}

// New returns an Estimator with the identity cleanup hook.
func New(p Params) *Estimator {
	return &Estimator{Params: p}
}

// Estimate runs one batch estimation. All invariants are validated
// before any windowed computation; per-window numeric failures
// surface as NaN at their output position only. A context deadline
// aborts channels not yet started and returns a PartialResultError
// alongside the partially filled result.
func (e *Estimator) Estimate(ctx context.Context, in Inputs) (*Result, error) {
	ws := int(math.Round(e.Params.Wind * e.Params.Fs))
	in.Power = orient(in.Power, len(in.Time))
	if err := validate(in, ws); err != nil {
		return nil, err
	}

	time, power, csi, cvi := in.Time, in.Power, in.CSI, in.CVI
	if csi == nil {
		var err error
		time, power, csi, cvi, err = e.describe(in)
		if err != nil {
			return nil, err
		}
		if len(time) <= 2*ws {
			return nil, &InputValidationError{
				Series: "time",
				Reason: fmt.Sprintf("grid restricted to the derived CSI/CVI span holds %d samples, cannot hold two %d sample windows", len(time), ws),
			}
		}
	}

	idx, err := sympatho.Model(in.IBI, time, e.Params.Fs, e.Params.Wind)
	if err != nil {
		return nil, err
	}
	al, err := align.Align(time, idx.TM, idx.Cs, idx.Cp, csi, cvi, power, e.Clean)
	if err != nil {
		return nil, err
	}
	t2 := len(al.Time)
	if t2 <= 2*ws {
		return nil, &InputValidationError{
			Series: "time",
			Reason: fmt.Sprintf("aligned grid of %d samples cannot hold two %d sample windows", t2, ws),
		}
	}

	channels, _ := al.Power.Dims()
	res := &Result{
		CSI2B: mat.NewDense(channels, t2-ws, nil),
		CVI2B: mat.NewDense(channels, t2-ws, nil),
		B2CSI: mat.NewDense(channels, t2-2*ws, nil),
		B2CVI: mat.NewDense(channels, t2-2*ws, nil),
		TH2B:  append([]float64(nil), al.Time[:t2-ws]...),
		TB2H:  append([]float64(nil), al.Time[ws:t2-ws]...),
	}

	// Channels read only their own power row plus the shared
	// read-only series and write only their own result rows, so the
	// fan-out needs a single join and no locking.
	var (
		wg         sync.WaitGroup
		completed  []int
		incomplete []int
	)
	for ch := 0; ch < channels; ch++ {
		if ctx != nil && ctx.Err() != nil {
			incomplete = append(incomplete, ch)
			continue
		}
		completed = append(completed, ch)
		wg.Add(1)
		go func(ch int) {
			defer wg.Done()
			c := coupling.EstimateChannel(coupling.Series{
				Pow: mat.Row(nil, ch, al.Power),
				CSI: al.CSI,
				CVI: al.CVI,
				Cs:  al.Cs,
				Cp:  al.Cp,
			}, ws)
			res.CSI2B.SetRow(ch, c.CSI2B)
			res.CVI2B.SetRow(ch, c.CVI2B)
			res.B2CSI.SetRow(ch, c.B2CSI)
			res.B2CVI.SetRow(ch, c.B2CVI)
		}(ch)
	}
	wg.Wait()
	if len(incomplete) > 0 {
		return res, &PartialResultError{Completed: completed, Incomplete: incomplete}
	}
	return res, nil
}

// describe derives CSI/CVI from the IBI record on the 4 Hz descriptor
// grid and brings them onto the shared time grid, restricted to the
// span the descriptor covers.
func (e *Estimator) describe(in Inputs) (time []float64, power *mat.Dense, csi, cvi []float64, err error) {
	mode, err := e.Params.scaleMode()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	desc, err := poincare.Describe(in.IBI, e.Params.Wind, mode)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	time, power, err = restrict(in.Time, in.Power, desc.Time[0], desc.Time[len(desc.Time)-1])
	if err != nil {
		return nil, nil, nil, nil, err
	}
	if csi, err = align.Resample(desc.Time, desc.CSI, time); err != nil {
		return nil, nil, nil, nil, err
	}
	if cvi, err = align.Resample(desc.Time, desc.CVI, time); err != nil {
		return nil, nil, nil, nil, err
	}
	return time, power, csi, cvi, nil
}

// restrict trims the time grid and the band power columns to [lo, hi].
func restrict(time []float64, power *mat.Dense, lo, hi float64) ([]float64, *mat.Dense, error) {
	iLo, iHi := len(time), -1
	for i, v := range time {
		if v >= lo && v <= hi {
			if i < iLo {
				iLo = i
			}
			iHi = i
		}
	}
	if iLo > iHi {
		return nil, nil, &InputValidationError{
			Series: "time",
			Reason: fmt.Sprintf("no samples inside the derived CSI/CVI span [%v, %v]", lo, hi),
		}
	}
	channels, _ := power.Dims()
	sub := power.Slice(0, channels, iLo, iHi+1).(*mat.Dense)
	return time[iLo : iHi+1], sub, nil
}

// orient transposes a band power matrix supplied time-major, so a
// single channel can arrive as either a row or a column.
func orient(p *mat.Dense, t int) *mat.Dense {
	if p == nil {
		return nil
	}
	rows, cols := p.Dims()
	if cols == t || rows != t {
		return p
	}
	res := mat.NewDense(cols, rows, nil)
	res.Copy(p.T())
	return res
}

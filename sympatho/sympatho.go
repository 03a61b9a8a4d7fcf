// Package sympatho derives synthetic sympathetic (Cs) and vagal (Cp)
// indices from inter-beat intervals. The model treats the IBI series
// as two oscillations at fixed reference frequencies, 0.1 Hz in the
// sympathetic band and 0.25 Hz in the vagal band, and inverts the
// mapping from oscillation amplitudes to the Poincaré range and
// successive-difference statistics of each window.
package sympatho

import (
	"fmt"
	"math"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/signal"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/mat"
)

// Reference frequencies (Hz) of the two oscillators.
const (
	LFFreq = 0.1
	HFFreq = 0.25
)

// gainEps is the threshold below which the mixing gain G is treated
// as numerically unstable. The source model divides by G unguarded;
// here the window is reported as NaN instead.
const gainEps = 1e-12

// Indices holds one Cs/Cp pair per sliding window, tagged with the
// grid timestamp at the window midpoint index. TM is not uniformly
// spaced with respect to window content and must be resampled before
// use against the model grid.
type Indices struct {
	TM []float64
	Cs []float64
	Cp []float64
}

// Model slides a window of wind seconds (Ws = round(wind*fs) samples,
// stride 1) over the model time grid and computes Cs/Cp for each
// window from the IBI samples whose timestamp falls inside it.
// Windows with fewer than 2 IBI samples, or with |G| below the
// stability threshold, yield NaN and the run continues.
func Model(ibi signal.IBISeries, time []float64, fs, wind float64) (*Indices, error) {
	ws := int(math.Round(wind * fs))
	if ws < 1 {
		return nil, fmt.Errorf("sympatho: window of %v s at %v Hz is below one sample", wind, fs)
	}
	if len(time) <= ws {
		return nil, fmt.Errorf("sympatho: grid of %d samples cannot hold a %d sample window", len(time), ws)
	}

	var (
		wl = 2 * math.Pi * LFFreq
		wh = 2 * math.Pi * HFFreq
		nt = len(time) - ws
	)
	res := &Indices{
		TM: make([]float64, nt),
		Cs: make([]float64, nt),
		Cp: make([]float64, nt),
	}
	for i := 0; i < nt; i++ {
		ix1, ix2 := i, i+ws-1
		res.TM[i] = time[ix1+(ws-1)/2]
		res.Cs[i], res.Cp[i] = window(ibi, time[ix1], time[ix2], wl, wh)
	}
	return res, nil
}

// window computes one Cs/Cp pair from the IBI samples inside [t1, t2].
func window(ibi signal.IBISeries, t1, t2, wl, wh float64) (cs, cp float64) {
	win := ibi.Window(t1, t2)
	if len(win) < 2 {
		return math.NaN(), math.NaN()
	}
	mu, _ := stats.Mean(win)
	hr := 1 / mu

	sl := math.Sin(wl / (2 * hr))
	sh := math.Sin(wh / (2 * hr))
	g := sh - sl
	if math.Abs(g) < gainEps {
		return math.NaN(), math.NaN()
	}

	// Long- and short-term variability proxies of the window.
	maxIBI, _ := stats.Max(win)
	minIBI, _ := stats.Min(win)
	l := maxIBI - minIBI
	w := math.Sqrt2 * maxAbsDiff(win)

	// [Cs; Cp] = (1/G) M [L; W]
	m := mat.NewDense(2, 2, []float64{
		sh, -1 / math.Sqrt2,
		-sl, 1 / math.Sqrt2,
	})
	var c mat.VecDense
	c.MulVec(m, mat.NewVecDense(2, []float64{l, w}))
	c.ScaleVec(1/g, &c)
	return c.AtVec(0), c.AtVec(1)
}

func maxAbsDiff(x []float64) float64 {
	var res float64
	for i := 1; i < len(x); i++ {
		if d := math.Abs(x[i] - x[i-1]); d > res {
			res = d
		}
	}
	return res
}

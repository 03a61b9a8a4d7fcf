// Package coupling estimates directional interplay between cardiac
// variability indices and one channel of band-limited brain power.
// Heart→brain coupling comes from sliding-window linear system
// identification with the HRV index as input and band power as
// output; brain→heart coupling from running means of the synthetic
// sympathetic and vagal indices normalized by band power. Channels
// never share mutable state, so per-channel estimation can fan out
// freely.
package coupling

import "math"

// Series bundles the aligned inputs of one channel. All slices have
// the same length.
type Series struct {
	Pow []float64
	CSI []float64
	CVI []float64
	Cs  []float64
	Cp  []float64
}

// Channel holds the four coupling series of one channel. CSI2B and
// CVI2B have length T-Ws, B2CSI and B2CVI length T-2*Ws: the first Ws
// positions of the brain→heart series are reserved for the
// heart→brain warm-up and the last Ws are unreachable because the
// averaging window looks forward.
type Channel struct {
	CSI2B []float64
	CVI2B []float64
	B2CSI []float64
	B2CVI []float64
}

// EstimateChannel computes the four coupling series for one channel
// with windows of ws samples and stride 1. Ill-conditioned
// system-identification fits and zero-power averaging windows are
// recorded as NaN at their position; the channel always completes.
func EstimateChannel(s Series, ws int) Channel {
	n := len(s.Pow)
	res := Channel{
		CSI2B: make([]float64, n-ws),
		CVI2B: make([]float64, n-ws),
		B2CSI: make([]float64, n-2*ws),
		B2CVI: make([]float64, n-2*ws),
	}
	for i := 0; i < n-ws; i++ {
		// Heart→brain: windowed fit over samples i..i+ws. The first
		// ws positions are the warm-up phase of the same formula.
		res.CSI2B[i] = ARXGain(s.Pow[i:i+ws+1], s.CSI[i:i+ws+1])
		res.CVI2B[i] = ARXGain(s.Pow[i:i+ws+1], s.CVI[i:i+ws+1])

		// Brain→heart: forward running means once past the warm-up.
		j := i - ws
		if j < 0 || j >= len(res.B2CSI) {
			continue
		}
		res.B2CSI[j] = forwardMean(s.Cs, s.Pow, res.B2CSI, j, ws)
		res.B2CVI[j] = forwardMean(s.Cp, s.Pow, res.B2CVI, j, ws)
	}
	return res
}

// forwardMean returns the mean of num/den elementwise over the window
// j..j+ws. When no full forward window remains it carries the
// previous position's value forward; this is an explicit boundary
// policy, not an index overflow artifact.
func forwardMean(num, den, prev []float64, j, ws int) float64 {
	if j+ws >= len(num)-1 {
		if j == 0 {
			return math.NaN()
		}
		return prev[j-1]
	}
	var sum float64
	for k := j; k <= j+ws; k++ {
		if den[k] == 0 {
			return math.NaN()
		}
		sum += num[k] / den[k]
	}
	return sum / float64(ws+1)
}

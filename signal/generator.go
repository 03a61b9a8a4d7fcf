package signal

import "math"

// IBIOscillator generates inter-beat intervals as a mean interval
// modulated by two oscillations, one in the sympathetic (LF) band and
// one in the vagal (HF) band. It is the forward model whose
// sympathetic and vagal amplitudes the windowed estimators recover.
type IBIOscillator struct {
	// Mean interval in seconds
	MeanIBI float64
	// LF oscillation amplitude (seconds) at LFFreq
	LFAmp float64
	// HF oscillation amplitude (seconds) at HFFreq
	HFAmp float64
	// Oscillation frequencies in Hz
	LFFreq float64
	HFFreq float64
}

// NewIBIOscillator returns an oscillator with the standard 0.1 Hz and
// 0.25 Hz reference frequencies.
func NewIBIOscillator(meanIBI, lfAmp, hfAmp float64) *IBIOscillator {
	return &IBIOscillator{
		MeanIBI: meanIBI,
		LFAmp:   lfAmp,
		HFAmp:   hfAmp,
		LFFreq:  0.1,
		HFFreq:  0.25,
	}
}

// Series generates intervals until the record covers duration seconds.
// Each interval is evaluated at its own start time so the modulation
// is sampled beat by beat, as a detector on a real recording would
// see it.
func (g *IBIOscillator) Series(duration float64) IBISeries {
	var s IBISeries
	t := 0.
	for t < duration {
		d := g.MeanIBI +
			g.LFAmp*math.Sin(2*math.Pi*g.LFFreq*t) +
			g.HFAmp*math.Sin(2*math.Pi*g.HFFreq*t)
		s.Time = append(s.Time, t)
		s.Duration = append(s.Duration, d)
		t += d
	}
	return s
}

// ECG generates an ECG-like waveform at Fs Hz: a slow baseline plus
// gaussian P, QRS and T bumps per cardiac cycle and a deterministic
// noise term. Not clinical, only shaped well enough to exercise a
// threshold beat detector.
type ECG struct {
	Fs    float64
	BPM   float64
	Noise float64

	phase float64
}

// NewECG returns a generator; typical values fs=250, bpm 60-120,
// noise 0-0.05.
func NewECG(fs, bpm, noise float64) *ECG {
	return &ECG{Fs: fs, BPM: bpm, Noise: noise}
}

// Next returns the next sample and advances one sample period.
func (e *ECG) Next() float64 {
	cycleHz := e.BPM / 60.0
	e.phase += cycleHz / e.Fs
	if e.phase >= 1.0 {
		e.phase -= 1.0
	}
	t := e.phase

	baseline := 0.05 * math.Sin(2*math.Pi*0.33*t)
	p := 0.08 * gauss(t, 0.18, 0.03)
	q := -0.12 * gauss(t, 0.30, 0.01)
	r := 1.00 * gauss(t, 0.32, 0.008)
	sv := -0.25 * gauss(t, 0.35, 0.012)
	tw := 0.25 * gauss(t, 0.60, 0.06)
	n := e.Noise * (2*fract(math.Sin(12345.678*t)*9876.543) - 1)

	return baseline + p + q + r + sv + tw + n
}

// Samples returns the next n samples.
func (e *ECG) Samples(n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = e.Next()
	}
	return res
}

func gauss(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return math.Exp(-0.5 * z * z)
}

func fract(x float64) float64 { return x - math.Floor(x) }

// Package bandpower extracts band-limited power from raw multichannel
// brain signal. Each frame is Hann windowed, transformed with a real
// FFT, converted to a one-sided power spectral density and integrated
// over the requested band with the trapezoidal rule, yielding one
// power value per hop.
package bandpower

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Extractor computes band power over a sliding frame.
type Extractor struct {
	// Frame length in samples, also the FFT length
	NFFT int
	// Hop between consecutive frames in samples
	Hop int

	fft    *fourier.FFT
	window []float64
	// 1 / (fs * sum(window^2)), the PSD normalization
	scale float64
	fs    float64
}

// NewExtractor returns an extractor for signals sampled at fs Hz.
func NewExtractor(fs float64, nfft, hop int) *Extractor {
	window := hann(nfft)
	sumSq := floats.Dot(window, window)
	return &Extractor{
		NFFT:   nfft,
		Hop:    hop,
		fft:    fourier.NewFFT(nfft),
		window: window,
		scale:  1 / (fs * sumSq),
		fs:     fs,
	}
}

// Extract returns the power of sig inside [lo, hi] Hz, one value per
// frame, plus the frame-center timestamps.
func (e *Extractor) Extract(sig []float64, lo, hi float64) ([]float64, []float64, error) {
	if len(sig) < e.NFFT {
		return nil, nil, fmt.Errorf("bandpower: %d samples, frame needs %d", len(sig), e.NFFT)
	}
	if lo < 0 || hi <= lo || hi > e.fs/2 {
		return nil, nil, fmt.Errorf("bandpower: band [%v, %v] outside (0, %v]", lo, hi, e.fs/2)
	}
	frames := (len(sig)-e.NFFT)/e.Hop + 1
	power := make([]float64, frames)
	time := make([]float64, frames)

	buf := make([]float64, e.NFFT)
	coeff := make([]complex128, e.NFFT/2+1)
	for f := 0; f < frames; f++ {
		start := f * e.Hop
		floats.MulTo(buf, e.window, sig[start:start+e.NFFT])
		coeff = e.fft.Coefficients(coeff, buf)
		power[f] = e.integrate(coeff, lo, hi)
		time[f] = (float64(start) + float64(e.NFFT)/2) / e.fs
	}
	return power, time, nil
}

// ExtractMatrix runs Extract over every channel and stacks the rows.
func (e *Extractor) ExtractMatrix(sigs [][]float64, lo, hi float64) (*mat.Dense, []float64, error) {
	if len(sigs) == 0 {
		return nil, nil, fmt.Errorf("bandpower: no channels")
	}
	var (
		res  *mat.Dense
		time []float64
	)
	for ch, sig := range sigs {
		row, t, err := e.Extract(sig, lo, hi)
		if err != nil {
			return nil, nil, fmt.Errorf("channel %d: %w", ch, err)
		}
		if res == nil {
			res = mat.NewDense(len(sigs), len(row), nil)
			time = t
		}
		res.SetRow(ch, row)
	}
	return res, time, nil
}

// integrate applies the trapezoidal rule to the one-sided PSD over
// the bins inside [lo, hi].
func (e *Extractor) integrate(coeff []complex128, lo, hi float64) float64 {
	df := e.fs / float64(e.NFFT)
	var prevPSD, sum float64
	first := true
	for k, c := range coeff {
		freq := float64(k) * df
		if freq < lo || freq > hi {
			continue
		}
		psd := e.scale * (real(c)*real(c) + imag(c)*imag(c))
		// One-sided spectrum: double everything except DC and Nyquist.
		if k != 0 && k != len(coeff)-1 {
			psd *= 2
		}
		if !first {
			sum += 0.5 * (prevPSD + psd) * df
		}
		prevPSD = psd
		first = false
	}
	return sum
}

func hann(n int) []float64 {
	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return window
}

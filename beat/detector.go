// Package beat locates heartbeats in a cardiac signal and converts
// beat timestamps into an inter-beat-interval series.
package beat

import (
	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/signal"
)

// Detector finds beats as rising threshold crossings separated by at
// least a refractory period.
type Detector struct {
	// Amplitude a sample must rise through to count as a beat
	Threshold float64
	// Minimum spacing between beats in seconds
	Refractory float64
}

// NewDetector returns a detector tuned for a normalized signal with
// unit R peaks.
func NewDetector() *Detector {
	return &Detector{Threshold: 0.6, Refractory: 0.2}
}

// Detect returns the timestamps (seconds) of every beat in sig
// sampled at fs Hz.
func (d *Detector) Detect(sig []float64, fs float64) []float64 {
	var beats []float64
	last := -d.Refractory
	for i := 1; i < len(sig); i++ {
		if sig[i-1] >= d.Threshold || sig[i] < d.Threshold {
			continue
		}
		t := float64(i) / fs
		if t-last < d.Refractory {
			continue
		}
		beats = append(beats, t)
		last = t
	}
	return beats
}

// IBIFromBeats converts beat timestamps into an IBI series: durations
// are the differences of consecutive beats, each stamped with the
// earlier beat of its pair.
func IBIFromBeats(beats []float64) signal.IBISeries {
	if len(beats) < 2 {
		return signal.IBISeries{}
	}
	s := signal.IBISeries{
		Time:     make([]float64, len(beats)-1),
		Duration: make([]float64, len(beats)-1),
	}
	for i := 0; i < len(beats)-1; i++ {
		s.Time[i] = beats[i]
		s.Duration[i] = beats[i+1] - beats[i]
	}
	return s
}

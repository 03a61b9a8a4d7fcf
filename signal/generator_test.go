package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIBIOscillatorSeries(t *testing.T) {
	gen := NewIBIOscillator(0.8, 0.03, 0.02)
	s := gen.Series(120)
	require.Greater(t, s.Len(), 100)
	assert.Equal(t, len(s.Time), len(s.Duration))
	for i, d := range s.Duration {
		assert.Positive(t, d)
		if i > 0 {
			assert.Greater(t, s.Time[i], s.Time[i-1])
		}
	}
	// Beats are consecutive: each timestamp advances by the previous
	// interval.
	for i := 1; i < s.Len(); i++ {
		assert.InDelta(t, s.Duration[i-1], s.Time[i]-s.Time[i-1], 1e-12)
	}
}

func TestWindowSelectsByTimestamp(t *testing.T) {
	s := IBISeries{
		Time:     []float64{0, 1, 2, 3, 4},
		Duration: []float64{1, 1.1, 1.2, 1.3, 1.4},
	}
	assert.Equal(t, []float64{1.1, 1.2, 1.3}, s.Window(1, 3))
	assert.Nil(t, s.Window(10, 20))
}

func TestECGPeaksOncePerCycle(t *testing.T) {
	ecg := NewECG(250, 60, 0)
	samples := ecg.Samples(250 * 5)
	var peaks int
	for i := 1; i < len(samples)-1; i++ {
		if samples[i] > 0.8 && samples[i] >= samples[i-1] && samples[i] > samples[i+1] {
			peaks++
		}
	}
	assert.InDelta(t, 5, peaks, 1)
}

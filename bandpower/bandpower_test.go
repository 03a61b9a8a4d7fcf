package bandpower

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(n int, fs, freq, amp float64) []float64 {
	sig := make([]float64, n)
	for i := range sig {
		sig[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/fs)
	}
	return sig
}

func TestExtractConcentratesPowerInBand(t *testing.T) {
	const fs = 128.
	e := NewExtractor(fs, 256, 64)
	sig := sine(4096, fs, 10, 1)

	inBand, _, err := e.Extract(sig, 8, 12)
	require.NoError(t, err)
	offBand, _, err := e.Extract(sig, 20, 24)
	require.NoError(t, err)

	for f := range inBand {
		assert.Greater(t, inBand[f], 10*offBand[f], "frame %d", f)
	}
}

func TestExtractFrameTimes(t *testing.T) {
	const fs = 128.
	e := NewExtractor(fs, 256, 64)
	sig := sine(1024, fs, 10, 1)
	_, times, err := e.Extract(sig, 8, 12)
	require.NoError(t, err)

	require.NotEmpty(t, times)
	assert.InDelta(t, 128/fs, times[0], 1e-12)
	for i := 1; i < len(times); i++ {
		assert.InDelta(t, 64/fs, times[i]-times[i-1], 1e-12)
	}
}

func TestExtractMatrixStacksChannels(t *testing.T) {
	const fs = 128.
	e := NewExtractor(fs, 256, 64)
	sigs := [][]float64{
		sine(1024, fs, 10, 1),
		sine(1024, fs, 10, 2),
	}
	power, times, err := e.ExtractMatrix(sigs, 8, 12)
	require.NoError(t, err)

	rows, cols := power.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, len(times), cols)
	// Doubling the amplitude quadruples the band power.
	for c := 0; c < cols; c++ {
		assert.InDelta(t, 4, power.At(1, c)/power.At(0, c), 0.05)
	}
}

func TestExtractRejectsBadBand(t *testing.T) {
	e := NewExtractor(128, 256, 64)
	sig := sine(512, 128, 10, 1)
	_, _, err := e.Extract(sig, 12, 8)
	assert.Error(t, err)
	_, _, err = e.Extract(sig, 8, 200)
	assert.Error(t, err)
	_, _, err = e.Extract(sig[:100], 8, 12)
	assert.Error(t, err)
}

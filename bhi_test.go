package bhi

import (
	"context"
	"math"
	"testing"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/signal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func grid(n int, fs float64) []float64 {
	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i) / fs
	}
	return t
}

// fixture builds a 3 channel record: 1000 samples at 4 Hz with an
// oscillating IBI record covering the whole grid.
func fixture() Inputs {
	const (
		channels = 3
		n        = 1000
		fs       = 4.
	)
	time := grid(n, fs)
	gen := signal.NewIBIOscillator(0.8, 0.02, 0.03)
	ibi := gen.Series(time[n-1] + 5)

	csi := make([]float64, n)
	cvi := make([]float64, n)
	for i, v := range time {
		csi[i] = 2 + 0.5*math.Sin(0.2*v)
		cvi[i] = 3 + 0.5*math.Cos(0.15*v)
	}
	power := mat.NewDense(channels, n, nil)
	for ch := 0; ch < channels; ch++ {
		for i, v := range time {
			power.Set(ch, i, 4+float64(ch)+math.Sin(0.5*v+float64(ch)))
		}
	}
	return Inputs{Power: power, IBI: ibi, Time: time, CSI: csi, CVI: cvi}
}

func TestEstimateShapes(t *testing.T) {
	e := New(Params{Wind: 15, Fs: 4})
	res, err := e.Estimate(context.Background(), fixture())
	require.NoError(t, err)

	const ws = 60
	_, h2b := res.CSI2B.Dims()
	_, b2h := res.B2CSI.Dims()

	// Both families live on the same aligned grid: heart→brain loses
	// one window, brain→heart two.
	assert.Equal(t, h2b-ws, b2h)
	assert.Len(t, res.TH2B, h2b)
	assert.Len(t, res.TB2H, b2h)

	rows, _ := res.CSI2B.Dims()
	assert.Equal(t, 3, rows)
	_, cols := res.CVI2B.Dims()
	assert.Equal(t, h2b, cols)
	_, cols = res.B2CVI.Dims()
	assert.Equal(t, b2h, cols)

	// tB2H starts one warm-up window after tH2B.
	assert.Equal(t, res.TH2B[ws], res.TB2H[0])
}

func TestEstimateDeterministicUnderFanOut(t *testing.T) {
	e := New(Params{Wind: 15, Fs: 4})
	in := fixture()
	a, err := e.Estimate(context.Background(), in)
	require.NoError(t, err)
	b, err := e.Estimate(context.Background(), in)
	require.NoError(t, err)

	assert.True(t, mat.Equal(a.CSI2B, b.CSI2B))
	assert.True(t, mat.Equal(a.CVI2B, b.CVI2B))
	assert.True(t, mat.Equal(a.B2CSI, b.B2CSI))
	assert.True(t, mat.Equal(a.B2CVI, b.B2CVI))
	assert.Equal(t, a.TH2B, b.TH2B)
	assert.Equal(t, a.TB2H, b.TB2H)
}

func TestEstimateDerivesIndicesWhenAbsent(t *testing.T) {
	in := fixture()
	in.CSI = nil
	in.CVI = nil
	e := New(Params{Wind: 15, Fs: 4})
	res, err := e.Estimate(context.Background(), in)
	require.NoError(t, err)
	_, h2b := res.CSI2B.Dims()
	assert.Greater(t, h2b, 0)
}

func TestEstimateCleanHookRuns(t *testing.T) {
	in := fixture()
	e := New(Params{Wind: 15, Fs: 4})
	called := false
	e.Clean = func(p *mat.Dense) *mat.Dense {
		called = true
		return p
	}
	_, err := e.Estimate(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, called)
}

func TestEstimateRejectsShortGrid(t *testing.T) {
	in := fixture()
	in.Time = in.Time[:120] // 120 <= 2*60
	in.Power = in.Power.Slice(0, 3, 0, 120).(*mat.Dense)
	in.CSI = in.CSI[:120]
	in.CVI = in.CVI[:120]
	e := New(Params{Wind: 15, Fs: 4})
	_, err := e.Estimate(context.Background(), in)
	var verr *InputValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time", verr.Series)
}

func TestEstimateRejectsShortDerivedSpan(t *testing.T) {
	// The IBI record only covers 29 s of the 250 s grid, so after
	// restriction to the derived CSI/CVI span fewer than two windows
	// remain.
	in := fixture()
	in.CSI = nil
	in.CVI = nil
	in.IBI = signal.NewIBIOscillator(0.8, 0.02, 0.03).Series(29)
	e := New(Params{Wind: 15, Fs: 4})
	_, err := e.Estimate(context.Background(), in)
	var verr *InputValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time", verr.Series)
}

func TestEstimateRejectsCorruptInputs(t *testing.T) {
	e := New(Params{Wind: 15, Fs: 4})

	in := fixture()
	in.CSI[10] = math.NaN()
	_, err := e.Estimate(context.Background(), in)
	var verr *InputValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "CSI", verr.Series)

	in = fixture()
	in.IBI.Duration[3] = -0.1
	_, err = e.Estimate(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "IBI", verr.Series)

	in = fixture()
	in.Time[5] = in.Time[4]
	_, err = e.Estimate(context.Background(), in)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "time", verr.Series)
}

func TestEstimateSingleColumnPowerIsTransposed(t *testing.T) {
	in := fixture()
	column := mat.NewDense(len(in.Time), 1, nil)
	for i := range in.Time {
		column.Set(i, 0, in.Power.At(0, i))
	}
	in.Power = column
	e := New(Params{Wind: 15, Fs: 4})
	res, err := e.Estimate(context.Background(), in)
	require.NoError(t, err)
	rows, _ := res.CSI2B.Dims()
	assert.Equal(t, 1, rows)
}

func TestEstimateExpiredDeadlineIsPartial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := New(Params{Wind: 15, Fs: 4})
	res, err := e.Estimate(ctx, fixture())
	var perr *PartialResultError
	require.ErrorAs(t, err, &perr)
	require.NotNil(t, res)
	assert.Empty(t, perr.Completed)
	assert.Equal(t, []int{0, 1, 2}, perr.Incomplete)
}

func TestEstimateInjectedCouplingGain(t *testing.T) {
	in := fixture()
	// Channels 0 and 1 are driven by CSI through an exact one-pole,
	// unit-delay process with gains 1 and 2. The recovered exogenous
	// coefficient must match the injected gain in sign, and grow with
	// it.
	gains := []float64{1, 2}
	for ch, k := range gains {
		in.Power.Set(ch, 0, 5)
		for i := 1; i < len(in.Time); i++ {
			in.Power.Set(ch, i, 0.5*in.Power.At(ch, i-1)+k*in.CSI[i-1])
		}
	}
	res, err := New(Params{Wind: 15, Fs: 4}).Estimate(context.Background(), in)
	require.NoError(t, err)

	_, cols := res.CSI2B.Dims()
	require.Greater(t, cols, 0)
	for j := 0; j < cols; j++ {
		assert.InDelta(t, gains[0], res.CSI2B.At(0, j), 1e-6)
		assert.InDelta(t, gains[1], res.CSI2B.At(1, j), 1e-6)
	}
}

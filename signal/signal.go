// Package signal holds the time series types shared across the
// estimator and synthetic generators for producing test records.
package signal

// IBISeries is an ordered sequence of inter-beat intervals. Time[k] is
// the timestamp (seconds) of the start beat of interval k and
// Duration[k] its length in seconds. Timestamps are strictly
// increasing and durations strictly positive; the series is created
// once by beat detection and never mutated downstream.
type IBISeries struct {
	Time     []float64
	Duration []float64
}

// Len returns the number of intervals.
func (s IBISeries) Len() int {
	return len(s.Duration)
}

// Window returns the durations of all intervals whose timestamp lies
// in [t1, t2].
func (s IBISeries) Window(t1, t2 float64) []float64 {
	var res []float64
	for k, t := range s.Time {
		if t >= t1 && t <= t2 {
			res = append(res, s.Duration[k])
		}
	}
	return res
}

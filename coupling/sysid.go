package coupling

import (
	"math"

	"github.com/TH3PL4Y3R1/brain-heart-psv-sdg/gonumext"
	"gonum.org/v1/gonum/mat"
)

// varEps is the variance below which a window segment counts as
// constant: the regression cannot separate the autoregressive and
// exogenous terms on flat data.
const varEps = 1e-12

// condMax is the largest acceptable condition number of the regressor
// matrix. QR least squares happily returns a finite solution for a
// rank-deficient system, so conditioning has to be checked explicitly.
const condMax = 1e12

// ARXGain fits the single-input single-output model
//
//	y[t] = -a y[t-1] + b u[t-1]
//
// (one autoregressive term, one exogenous term, unit input delay) by
// least squares over the full extent of y and u, and returns the
// exogenous coefficient b, the direct transmission gain from input to
// output. An ill-conditioned fit, from a near-constant input or
// output segment or collinear regressors, returns NaN.
func ARXGain(y, u []float64) float64 {
	n := len(y) - 1
	if n < 2 || len(u) != len(y) {
		return math.NaN()
	}
	if gonumext.Variance(y) < varEps || gonumext.Variance(u) < varEps {
		return math.NaN()
	}
	phi := mat.NewDense(n, 2, nil)
	rhs := mat.NewVecDense(n, nil)
	for t := 1; t <= n; t++ {
		phi.Set(t-1, 0, -y[t-1])
		phi.Set(t-1, 1, u[t-1])
		rhs.SetVec(t-1, y[t])
	}
	if c := mat.Cond(phi, 2); math.IsInf(c, 0) || c > condMax {
		return math.NaN()
	}
	var theta mat.VecDense
	if err := theta.SolveVec(phi, rhs); err != nil {
		return math.NaN()
	}
	b := theta.AtVec(1)
	if math.IsInf(b, 0) {
		return math.NaN()
	}
	return b
}

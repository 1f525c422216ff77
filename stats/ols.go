package stats

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when a regression design matrix is rank deficient.
var ErrSingular = errors.New("stats: singular design matrix")

// OLSResult holds an ordinary least squares fit.
type OLSResult struct {
	Coef   []float64
	StdErr []float64
	Resid  []float64
	SSR    float64
	NObs   int
	K      int
}

// OLS regresses y on the columns of x. Each row of x is one observation.
// Coefficients are obtained from a QR factorization; standard errors from
// the inverse of X'X.
func OLS(x [][]float64, y []float64) (*OLSResult, error) {
	n := len(y)
	if n == 0 || len(x) != n {
		return nil, errors.New("stats: OLS dimension mismatch")
	}
	k := len(x[0])
	if k == 0 || n <= k {
		return nil, errors.New("stats: OLS needs more observations than regressors")
	}

	design := mat.NewDense(n, k, nil)
	for i, row := range x {
		if len(row) != k {
			return nil, errors.New("stats: OLS ragged design matrix")
		}
		design.SetRow(i, row)
	}
	target := mat.NewDense(n, 1, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	if c := qr.Cond(); math.IsInf(c, 0) || math.IsNaN(c) || c > 1e12 {
		return nil, ErrSingular
	}
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, target); err != nil {
		return nil, ErrSingular
	}

	coef := make([]float64, k)
	for j := range coef {
		coef[j] = beta.At(j, 0)
	}

	var fitted mat.Dense
	fitted.Mul(design, &beta)
	resid := make([]float64, n)
	for i := range resid {
		resid[i] = y[i] - fitted.At(i, 0)
	}
	ssr := floats.Dot(resid, resid)

	var xtx mat.SymDense
	xtx.SymOuterK(1, design.T())
	var chol mat.Cholesky
	if ok := chol.Factorize(&xtx); !ok {
		return nil, ErrSingular
	}
	var cov mat.SymDense
	if err := chol.InverseTo(&cov); err != nil {
		return nil, ErrSingular
	}
	sigma2 := ssr / float64(n-k)
	stdErr := make([]float64, k)
	for j := range stdErr {
		stdErr[j] = math.Sqrt(math.Max(cov.At(j, j)*sigma2, 0))
	}

	return &OLSResult{
		Coef:   coef,
		StdErr: stdErr,
		Resid:  resid,
		SSR:    ssr,
		NObs:   n,
		K:      k,
	}, nil
}

// TValue returns the t statistic of coefficient j.
func (r *OLSResult) TValue(j int) float64 {
	if r.StdErr[j] == 0 {
		return math.Inf(int(math.Copysign(1, r.Coef[j])))
	}
	return r.Coef[j] / r.StdErr[j]
}

// LogLik returns the Gaussian log-likelihood of the fit with the variance
// estimated as SSR/n.
func (r *OLSResult) LogLik() float64 {
	n := float64(r.NObs)
	return -n / 2 * (math.Log(2*math.Pi) + math.Log(r.SSR/n) + 1)
}

// AIC returns -2 logL + 2k.
func (r *OLSResult) AIC() float64 {
	return -2*r.LogLik() + 2*float64(r.K)
}

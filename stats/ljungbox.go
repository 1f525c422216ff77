package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // Degrees of freedom
}

// LjungBox performs the Ljung-Box portmanteau test on residuals. The null
// hypothesis is no autocorrelation up to the given lag; a small p-value
// points at structure the model left behind. fitdf is subtracted from the
// degrees of freedom (at least one remains). A constant residual sequence
// yields Q = 0 and p = 1. LjungBox returns nil for fewer than two values.
func LjungBox(residuals []float64, lags, fitdf int) *LjungBoxResult {
	n := len(residuals)
	if n < 2 || lags < 1 {
		return nil
	}
	lags = min(lags, n-1)
	dof := max(lags-fitdf, 1)

	acf := autocorrelation(residuals, lags)
	if acf == nil {
		return &LjungBoxResult{PValue: 1, Lags: lags, DOF: dof}
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n) * float64(n+2)

	return &LjungBoxResult{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(dof)}.Survival(q),
		Lags:      lags,
		DOF:       dof,
	}
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation: about 2 means none, towards 0 positive, towards 4
// negative. It is NaN when undefined.
func DurbinWatson(residuals []float64) float64 {
	if len(residuals) < 2 {
		return math.NaN()
	}
	num, den := 0.0, autoCovSum(residuals, 0)
	for i := 1; i < len(residuals); i++ {
		d := residuals[i] - residuals[i-1]
		num += d * d
	}
	if den == 0 {
		return math.NaN()
	}
	return num / den
}

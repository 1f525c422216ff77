package sarima

import (
	"time"

	"github.com/sartorproj/revcast/stats"
	"github.com/sartorproj/revcast/timeseries"
)

// Fitted is an estimated SARIMA model. It is immutable: accessors return
// copies and a refit produces a new Fitted.
type Fitted struct {
	order    Order
	seasonal SeasonalOrder
	coef     []float64
	sigma2   float64
	ic       *stats.InformationCriteria
	resid    []float64
	nObs     int
	nEff     int
	lastDate time.Time

	// Forecast origin: predicted ARMA state and covariance after the last
	// observation, the recent levels (newest first) and the differencing
	// polynomial needed to integrate back to levels.
	ss      *stateSpace
	state   []float64
	cov     [][]float64
	history []float64
	delta   []float64
}

func newFitted(o Order, s SeasonalOrder, coef []float64, res *filterResult, series *timeseries.Series) *Fitted {
	delta := differencing(o.D, s)
	y := series.Values
	history := make([]float64, len(delta))
	for i := range history {
		history[i] = y[len(y)-1-i]
	}
	k := numARMA(o, s) + 1
	return &Fitted{
		order:    o,
		seasonal: s,
		coef:     append([]float64(nil), coef...),
		sigma2:   res.sigma2,
		ic:       stats.CalculateIC(res.logLik, res.nEff, k),
		resid:    res.resid,
		nObs:     series.Len(),
		nEff:     res.nEff,
		lastDate: timeseries.Midnight(series.LastDate()),
		ss:       newStateSpace(expand(coef, o, s)),
		state:    res.a,
		cov:      res.p,
		history:  history,
		delta:    delta,
	}
}

// Order returns the non-seasonal order.
func (f *Fitted) Order() Order { return f.order }

// Seasonal returns the seasonal order.
func (f *Fitted) Seasonal() SeasonalOrder { return f.seasonal }

// Params returns the estimates in the order of ParamNames:
// AR, MA, seasonal AR, seasonal MA coefficients, then sigma2.
func (f *Fitted) Params() []float64 {
	return append(append([]float64(nil), f.coef...), f.sigma2)
}

// ParamNames labels Params, e.g. "ar.L1", "ma.S.L7", "sigma2".
func (f *Fitted) ParamNames() []string { return paramNames(f.order, f.seasonal) }

// Sigma2 returns the innovation variance.
func (f *Fitted) Sigma2() float64 { return f.sigma2 }

// LogLikelihood returns the maximized log-likelihood.
func (f *Fitted) LogLikelihood() float64 { return f.ic.LogLik }

// AIC returns -2 logL + 2k.
func (f *Fitted) AIC() float64 { return f.ic.AIC }

// AICc returns the small-sample corrected AIC.
func (f *Fitted) AICc() float64 { return f.ic.AICc }

// BIC returns -2 logL + k ln(n).
func (f *Fitted) BIC() float64 { return f.ic.BIC }

// NParams returns k, the number of estimated parameters including sigma2.
func (f *Fitted) NParams() int { return len(f.coef) + 1 }

// NObs returns the length of the series the model was fit on.
func (f *Fitted) NObs() int { return f.nObs }

// NEffective returns the number of observations in the likelihood.
func (f *Fitted) NEffective() int { return f.nEff }

// LastDate returns the last date of the fit series.
func (f *Fitted) LastDate() time.Time { return f.lastDate }

// Residuals returns the one-step-ahead prediction errors of the differenced
// series over the likelihood sample.
func (f *Fitted) Residuals() []float64 {
	return append([]float64(nil), f.resid...)
}

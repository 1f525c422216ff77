// Package sarima implements seasonal ARIMA estimation by exact Gaussian
// maximum likelihood and forecasting with confidence intervals.
package sarima

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/stats"
	"github.com/sartorproj/revcast/timeseries"
)

// Defaults for the estimator.
const (
	DefaultMaxIterations   = 100
	DefaultMinObservations = 30

	invalidPenalty = 1e10
	startBound     = 0.95

	// gradTolerance bounds the gradient of the mean negative
	// log-likelihood at a point accepted after a failed line search.
	gradTolerance      = 1e-3
	maxRestarts        = 2
	simplexEvaluations = 200
)

// Model is an unfitted SARIMA(p,d,q)(P,D,Q,s) model. It holds no
// estimation state, so one Model may be fit concurrently from many goroutines.
type Model struct {
	order    Order
	seasonal SeasonalOrder
	maxIter  int
	minObs   int
}

// Option configures a Model.
type Option func(*Model)

// WithMaxIterations bounds the optimizer iterations before the fit is
// declared non-convergent.
func WithMaxIterations(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.maxIter = n
		}
	}
}

// WithMinObservations sets the minimum series length accepted by Fit.
func WithMinObservations(n int) Option {
	return func(m *Model) {
		if n > 0 {
			m.minObs = n
		}
	}
}

// New creates an unfitted SARIMA model.
func New(order Order, seasonal SeasonalOrder, opts ...Option) *Model {
	m := &Model{
		order:    order,
		seasonal: seasonal,
		maxIter:  DefaultMaxIterations,
		minObs:   DefaultMinObservations,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Order returns the non-seasonal order.
func (m *Model) Order() Order { return m.order }

// Seasonal returns the seasonal order.
func (m *Model) Seasonal() SeasonalOrder { return m.seasonal }

// Fit estimates the model on a daily series and returns a new Fitted model.
// The series is differenced d times and seasonally differenced D times; the
// result is modelled as a zero-mean ARMA process whose coefficients maximize
// the exact Gaussian likelihood computed by a Kalman filter.
func (m *Model) Fit(series *timeseries.Series) (*Fitted, error) {
	const op = "sarima.Fit"

	if series == nil || series.Len() == 0 {
		return nil, fault.Data(op, "empty series")
	}
	if !series.IsDaily() {
		return nil, fault.Data(op, "series must have consecutive daily dates")
	}
	for _, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fault.Data(op, "series contains missing or infinite values")
		}
	}
	if err := m.order.Validate(); err != nil {
		return nil, fault.Wrap(fault.ErrModelFit, op, err, "invalid order")
	}
	if err := m.seasonal.Validate(); err != nil {
		return nil, fault.Wrap(fault.ErrModelFit, op, err, "invalid seasonal order")
	}
	n := series.Len()
	if n < m.minObs {
		return nil, fault.ModelFit(op, "insufficient observations: got %d, need at least %d", n, m.minObs)
	}

	seasonal := m.seasonal
	y := series.Values
	w := difference(y, m.order.D, seasonal)
	k := numARMA(m.order, seasonal)
	if len(w) <= k+1 {
		return nil, fault.ModelFit(op, "insufficient observations after differencing: %d for %d coefficients", len(w), k)
	}

	obj := &objective{order: m.order, seasonal: seasonal, w: w}
	params, err := m.optimize(obj)
	if err != nil {
		return nil, fault.Wrap(fault.ErrModelFit, op, err, m.order.String()+seasonal.String())
	}

	res, ok := obj.evaluate(params)
	if !ok {
		return nil, fault.ModelFit(op, "likelihood is undefined at the optimum")
	}
	return newFitted(m.order, seasonal, params, res, series), nil
}

// objective evaluates the concentrated log-likelihood for a coefficient
// vector.
type objective struct {
	order    Order
	seasonal SeasonalOrder
	w        []float64
}

func (o *objective) evaluate(params []float64) (*filterResult, bool) {
	for _, v := range params {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
	}
	ss := newStateSpace(expand(params, o.order, o.seasonal))
	return ss.filter(o.w)
}

// value is the mean negative log-likelihood; undefined points get a large
// finite penalty so line searches can back off.
func (o *objective) value(params []float64) float64 {
	res, ok := o.evaluate(params)
	if !ok {
		return invalidPenalty
	}
	return -res.logLik / float64(res.nEff)
}

// gradient fills grad with the central-difference gradient of value.
func (o *objective) gradient(grad, x []float64) {
	fd.Gradient(grad, o.value, x, &fd.Settings{Formula: fd.Central})
}

// stationaryAt reports whether x is an acceptable optimum: every component
// of the numerical gradient is below gradTolerance, or the innovation
// variance sits at its floor, where the model reproduces w exactly.
func (o *objective) stationaryAt(x []float64) bool {
	if res, ok := o.evaluate(x); ok && res.sigma2 <= sigma2Floor {
		return true
	}
	grad := make([]float64, len(x))
	o.gradient(grad, x)
	return floats.Norm(grad, math.Inf(1)) < gradTolerance
}

// start returns the lowest-valued of the raw Hannan-Rissanen estimates, the
// same estimates clamped to +/-startBound, and zeros. Ties keep the earlier
// candidate.
func (o *objective) start() []float64 {
	raw := hannanRissanen(o.w, o.order, o.seasonal)
	candidates := [][]float64{raw, clampParams(raw), make([]float64, len(raw))}
	best, bestF := candidates[0], o.value(candidates[0])
	for _, x := range candidates[1:] {
		if f := o.value(x); f < bestF {
			best, bestF = x, f
		}
	}
	return best
}

func (m *Model) optimize(obj *objective) ([]float64, error) {
	if numARMA(obj.order, obj.seasonal) == 0 {
		return []float64{}, nil
	}

	problem := optimize.Problem{Func: obj.value, Grad: obj.gradient}
	result, err := optimize.Minimize(problem, obj.start(), m.settings(), &optimize.BFGS{})
	if result == nil {
		return nil, err
	}
	// A line search that gives up away from an optimum restarts from the
	// best point with a simplex search followed by BFGS.
	for range maxRestarts {
		if result.Status != optimize.Failure || obj.stationaryAt(result.X) {
			break
		}
		result, err = m.restart(problem, result.X)
		if result == nil {
			return nil, err
		}
	}

	if limited(result.Status) {
		return nil, errNotConverged
	}
	if math.IsNaN(result.F) || result.F >= invalidPenalty {
		if err != nil {
			return nil, err
		}
		return nil, errNotConverged
	}
	if result.Status == optimize.Failure && !obj.stationaryAt(result.X) {
		return nil, errNotConverged
	}
	return result.X, nil
}

func (m *Model) settings() *optimize.Settings {
	return &optimize.Settings{
		MajorIterations:   m.maxIter,
		GradientThreshold: 1e-6,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-8,
			Relative:   1e-8,
			Iterations: 5,
		},
	}
}

func (m *Model) restart(problem optimize.Problem, x []float64) (*optimize.Result, error) {
	simplex, err := optimize.Minimize(problem, x, &optimize.Settings{
		FuncEvaluations: simplexEvaluations * (len(x) + 1),
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-10,
			Relative:   1e-10,
			Iterations: 20,
		},
	}, &optimize.NelderMead{})
	if simplex == nil {
		return nil, err
	}
	return optimize.Minimize(problem, simplex.X, m.settings(), &optimize.BFGS{})
}

func limited(status optimize.Status) bool {
	switch status {
	case optimize.IterationLimit, optimize.FunctionEvaluationLimit,
		optimize.GradientEvaluationLimit, optimize.RuntimeLimit:
		return true
	}
	return false
}

var errNotConverged = errors.New("optimizer did not converge")

func clampParams(params []float64) []float64 {
	out := make([]float64, len(params))
	for i, v := range params {
		out[i] = math.Max(-startBound, math.Min(startBound, v))
	}
	return out
}

// hannanRissanen derives starting values from a long autoregression that
// supplies innovation estimates; w is then regressed on its own AR lags and
// the lagged innovations. It falls back to an AR-only regression and finally
// to zeros.
func hannanRissanen(w []float64, o Order, s SeasonalOrder) []float64 {
	k := numARMA(o, s)
	params := make([]float64, k)

	arLags := lagSet(o.P, s.P, s.S)
	maLags := lagSet(o.Q, s.Q, s.S)

	var innov []float64
	if len(maLags) > 0 {
		innov = longARResiduals(w, max(maxLag(arLags), maxLag(maLags)))
	}

	coef := regressLags(w, arLags, maLags, innov)
	if coef == nil && len(arLags) > 0 {
		if arOnly := regressLags(w, arLags, nil, nil); arOnly != nil {
			coef = append(arOnly, make([]float64, len(maLags))...)
		}
	}
	if coef == nil {
		return params
	}

	// Reorder from [ar, sar, ma, sma] regression columns to the parameter
	// layout [ar, ma, sar, sma].
	ar, sar := coef[:o.P], coef[o.P:o.P+s.P]
	ma, sma := coef[o.P+s.P:o.P+s.P+o.Q], coef[o.P+s.P+o.Q:]
	i := 0
	for _, group := range [][]float64{ar, ma, sar, sma} {
		i += copy(params[i:], group)
	}
	return params
}

// lagSet lists lags 1..n followed by s, 2s, ..., ns.
func lagSet(n, seasonalN, period int) []int {
	lags := make([]int, 0, n+seasonalN)
	for i := 1; i <= n; i++ {
		lags = append(lags, i)
	}
	for i := 1; i <= seasonalN; i++ {
		lags = append(lags, i*period)
	}
	return lags
}

func maxLag(lags []int) int {
	m := 0
	for _, l := range lags {
		m = max(m, l)
	}
	return m
}

// longARResiduals fits AR(m) by least squares with m = max(floor(ln(n)^2),
// 2*minLag), capped at n/3, and returns residuals aligned with w (NaN
// where undefined).
func longARResiduals(w []float64, minLag int) []float64 {
	n := len(w)
	m := max(int(math.Pow(math.Log(float64(n)), 2)), 2*minLag)
	m = min(m, n/3)
	if m < 1 {
		return nil
	}
	lags := make([]int, m)
	for i := range lags {
		lags[i] = i + 1
	}
	rows, y := lagDesign(w, lags, nil, nil, m)
	res, err := stats.OLS(rows, y)
	if err != nil {
		return nil
	}
	innov := make([]float64, n)
	for i := 0; i < m; i++ {
		innov[i] = math.NaN()
	}
	copy(innov[m:], res.Resid)
	return innov
}

// regressLags regresses w_t on w_{t-l} for l in arLags and innov_{t-l} for l
// in maLags, returning nil when the regression cannot be computed.
func regressLags(w []float64, arLags, maLags []int, innov []float64) []float64 {
	if len(maLags) > 0 && innov == nil {
		return nil
	}
	start := max(maxLag(arLags), maxLag(maLags))
	for start < len(innov) && math.IsNaN(innov[max(start-maxLag(maLags), 0)]) {
		start++
	}
	rows, y := lagDesign(w, arLags, maLags, innov, start)
	if len(rows) <= len(arLags)+len(maLags)+1 {
		return nil
	}
	res, err := stats.OLS(rows, y)
	if err != nil {
		return nil
	}
	return res.Coef
}

func lagDesign(w []float64, arLags, maLags []int, innov []float64, start int) ([][]float64, []float64) {
	var rows [][]float64
	var y []float64
	for t := start; t < len(w); t++ {
		row := make([]float64, 0, len(arLags)+len(maLags))
		for _, l := range arLags {
			row = append(row, w[t-l])
		}
		for _, l := range maLags {
			row = append(row, innov[t-l])
		}
		rows = append(rows, row)
		y = append(y, w[t])
	}
	return rows, y
}

package sarima

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/timeseries"
)

func TestFitRecoversAR1(t *testing.T) {
	t.Parallel()

	series := simulate(500, process{ar: 0.6, sigma: 1, seed: 1})
	fitted, err := New(Order{P: 1}, NoSeason).Fit(series)
	require.NoError(t, err)

	params := fitted.Params()
	require.Len(t, params, 2)
	assert.InDelta(t, 0.6, params[0], 0.12)
	assert.InDelta(t, 1.0, fitted.Sigma2(), 0.2)
	assert.Equal(t, params[1], fitted.Sigma2())
	assert.Equal(t, []string{"ar.L1", "sigma2"}, fitted.ParamNames())
	assert.Equal(t, 2, fitted.NParams())
	assert.Equal(t, 500, fitted.NObs())
	assert.Equal(t, 499, fitted.NEffective())
	assert.Len(t, fitted.Residuals(), 499)
}

func TestFitRecoversMA1(t *testing.T) {
	t.Parallel()

	series := simulate(500, process{ma: 0.5, sigma: 2, seed: 2})
	fitted, err := New(Order{Q: 1}, NoSeason).Fit(series)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, fitted.Params()[0], 0.12)
	assert.InDelta(t, 4.0, fitted.Sigma2(), 0.8)
}

func TestInformationCriteria(t *testing.T) {
	t.Parallel()

	fitted, err := New(Order{P: 1}, NoSeason).Fit(simulate(300, process{ar: 0.4, sigma: 1, seed: 3}))
	require.NoError(t, err)

	ll := fitted.LogLikelihood()
	k := float64(fitted.NParams())
	n := float64(fitted.NEffective())
	assert.InDelta(t, -2*ll+2*k, fitted.AIC(), 1e-9)
	assert.InDelta(t, -2*ll+k*math.Log(n), fitted.BIC(), 1e-9)
	assert.Greater(t, fitted.AICc(), fitted.AIC())
}

func TestFitIsDeterministic(t *testing.T) {
	t.Parallel()

	series := simulate(200, process{ar: 0.3, ma: 0.2, sar: 0.2, sma: -0.4, d: 1, sd: 1, period: 7, sigma: 5, level: 1000, seed: 4})
	model := New(Order{1, 1, 1}, SeasonalOrder{1, 1, 1, 7})

	first, err := model.Fit(series)
	require.NoError(t, err)
	second, err := model.Fit(series)
	require.NoError(t, err)

	assert.Equal(t, first.AIC(), second.AIC())
	assert.Equal(t, first.BIC(), second.BIC())
	assert.Equal(t, first.Params(), second.Params())
	assert.NotSame(t, first, second)
	assert.Equal(t, []string{"ar.L1", "ma.L1", "ar.S.L7", "ma.S.L7", "sigma2"}, first.ParamNames())
}

func TestFitConstantRandomWalk(t *testing.T) {
	t.Parallel()

	series := constant(60, 100+1e-6)
	fitted, err := New(Order{0, 1, 0}, SeasonalOrder{0, 0, 0, 7}).Fit(series)
	require.NoError(t, err)
	assert.Equal(t, SeasonalOrder{0, 0, 0, 7}, fitted.Seasonal())

	fc, err := fitted.Forecast(30, 0.95)
	require.NoError(t, err)
	require.Equal(t, 30, fc.Len())
	for _, p := range fc.Points {
		assert.InDelta(t, 100, p.Mean, 1e-3)
		assert.InDelta(t, 100, p.Lower, 1e-3)
		assert.InDelta(t, 100, p.Upper, 1e-3)
	}
}

func TestFitInsufficientObservations(t *testing.T) {
	t.Parallel()

	series := simulate(10, process{sigma: 1, level: 50, seed: 5})
	fitted, err := New(Order{1, 1, 1}, SeasonalOrder{1, 1, 1, 7}).Fit(series)

	require.Error(t, err)
	assert.Nil(t, fitted)
	assert.ErrorIs(t, err, fault.ErrModelFit)
	assert.Contains(t, err.Error(), "insufficient observations")

	_, err = New(Order{5, 2, 5}, SeasonalOrder{5, 2, 5, 7}).Fit(simulate(30, process{sigma: 1, seed: 5}))
	assert.ErrorIs(t, err, fault.ErrModelFit)
	assert.Contains(t, err.Error(), "after differencing")

	_, err = New(Order{1, 1, 0}, NoSeason, WithMinObservations(5)).Fit(series)
	assert.NoError(t, err)
}

func TestFitRejectsBadInput(t *testing.T) {
	t.Parallel()

	gappy, err := timeseries.NewWithTimestamps(
		[]time.Time{timeseries.Epoch, timeseries.Epoch.AddDate(0, 0, 2)}, []float64{1, 2})
	require.NoError(t, err)

	withNaN := constant(40, 5)
	withNaN.Values[10] = math.NaN()

	tests := []struct {
		name   string
		series *timeseries.Series
		order  Order
		kind   error
	}{
		{"nil", nil, Order{1, 1, 1}, fault.ErrData},
		{"gaps", gappy, Order{1, 1, 1}, fault.ErrData},
		{"nan", withNaN, Order{1, 1, 1}, fault.ErrData},
		{"bad order", constant(40, 5), Order{-1, 0, 0}, fault.ErrModelFit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.order, NoSeason).Fit(tt.series)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}

func TestFilterWhiteNoiseLikelihood(t *testing.T) {
	t.Parallel()

	w := []float64{1, -2, 0.5, 3, -1, 0.25}
	ss := newStateSpace(expand(nil, Order{}, NoSeason))
	res, ok := ss.filter(w)
	require.True(t, ok)

	sum := 0.0
	for _, v := range w[1:] {
		sum += v * v
	}
	sigma2 := sum / 5
	assert.Equal(t, 5, res.nEff)
	assert.InDelta(t, sigma2, res.sigma2, 1e-12)
	assert.InDelta(t, -2.5*(math.Log(2*math.Pi)+math.Log(sigma2)+1), res.logLik, 1e-9)
	assert.Equal(t, w[1:], res.resid)
}

func TestFilterBurnsStatesOnBothSidesOfUnitRoot(t *testing.T) {
	t.Parallel()

	w := simulate(50, process{sigma: 1, seed: 6}).Values
	for _, phi := range []float64{0.5, 1.05} {
		ss := newStateSpace(expand([]float64{phi}, Order{P: 1}, NoSeason))
		res, ok := ss.filter(w)
		require.True(t, ok)
		assert.Equal(t, 49, res.nEff)
		assert.Len(t, res.resid, 49)
		assert.False(t, math.IsInf(res.logLik, 0))
	}

	ar2 := newStateSpace(expand([]float64{0.5, 0.2}, Order{P: 2}, NoSeason))
	res, ok := ar2.filter(w)
	require.True(t, ok)
	assert.Equal(t, 48, res.nEff)
}

func TestObjectiveIsContinuousAtUnitRoot(t *testing.T) {
	t.Parallel()

	obj := &objective{order: Order{P: 1}, seasonal: NoSeason, w: simulate(200, process{ar: 0.6, sigma: 1, seed: 8}).Values}
	below := obj.value([]float64{0.999})
	above := obj.value([]float64{1.001})
	assert.Less(t, below, invalidPenalty)
	assert.InDelta(t, below, above, 0.01)
}

func TestFitNoiselessAR2(t *testing.T) {
	t.Parallel()

	fitted, err := New(Order{P: 2}, NoSeason).Fit(noiselessAR2(120, 1.5, -0.9))
	require.NoError(t, err)

	params := fitted.Params()
	assert.InDelta(t, 1.5, params[0], 1e-3)
	assert.InDelta(t, -0.9, params[1], 1e-3)
	assert.Equal(t, 118, fitted.NEffective())
}

func TestStationaryAtRejectsSlopes(t *testing.T) {
	t.Parallel()

	obj := &objective{order: Order{P: 1}, seasonal: NoSeason, w: simulate(300, process{ar: 0.5, sigma: 1, seed: 9}).Values}
	fitted, err := New(Order{P: 1}, NoSeason).Fit(timeseries.New(obj.w))
	require.NoError(t, err)

	assert.True(t, obj.stationaryAt(fitted.Params()[:1]))
	assert.False(t, obj.stationaryAt([]float64{-0.5}))

	exact := &objective{order: Order{P: 2}, seasonal: NoSeason, w: noiselessAR2(120, 1.5, -0.9).Values}
	assert.True(t, exact.stationaryAt([]float64{1.5, -0.9}))
	assert.False(t, exact.stationaryAt([]float64{1.2759, -0.8224}))
}

func TestStartPrefersUnclampedEstimates(t *testing.T) {
	t.Parallel()

	obj := &objective{order: Order{P: 2}, seasonal: NoSeason, w: noiselessAR2(120, 1.5, -0.9).Values}
	start := obj.start()
	require.Len(t, start, 2)
	assert.InDelta(t, 1.5, start[0], 1e-6)
	assert.InDelta(t, -0.9, start[1], 1e-6)
}

func TestStartParamsAreBounded(t *testing.T) {
	t.Parallel()

	series := simulate(300, process{ar: 0.99, ma: 0.9, sigma: 1, seed: 7})
	params := clampParams(hannanRissanen(series.Values, Order{1, 0, 1}, NoSeason))
	require.Len(t, params, 2)
	for _, v := range params {
		assert.LessOrEqual(t, math.Abs(v), startBound)
	}
	assert.Greater(t, params[0], 0.5)

	assert.Equal(t, []float64{0, 0}, hannanRissanen([]float64{1, 2, 3}, Order{1, 0, 1}, NoSeason))
}

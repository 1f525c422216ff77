package sarima

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/fault"
)

func TestForecastAR1Closed(t *testing.T) {
	t.Parallel()

	series := simulate(400, process{ar: 0.7, sigma: 1, seed: 11})
	fitted, err := New(Order{P: 1}, NoSeason).Fit(series)
	require.NoError(t, err)

	phi := fitted.Params()[0]
	sigma2 := fitted.Sigma2()
	last := series.Values[series.Len()-1]

	fc, err := fitted.Forecast(10, 0.95)
	require.NoError(t, err)
	require.Equal(t, 10, fc.Len())

	variance := 0.0
	for h := 1; h <= 10; h++ {
		variance += sigma2 * math.Pow(phi, 2*float64(h-1))
		p := fc.Points[h-1]
		assert.InDelta(t, math.Pow(phi, float64(h))*last, p.Mean, 1e-8)
		assert.InDelta(t, math.Sqrt(variance), p.StdErr, 1e-8)
		assert.InDelta(t, p.Mean-1.959964*p.StdErr, p.Lower, 1e-4)
		assert.InDelta(t, p.Mean+1.959964*p.StdErr, p.Upper, 1e-4)
	}
}

func TestForecastRandomWalk(t *testing.T) {
	t.Parallel()

	series := simulate(200, process{d: 1, sigma: 2, level: 500, seed: 12})
	fitted, err := New(Order{D: 1}, NoSeason).Fit(series)
	require.NoError(t, err)

	last := series.Values[series.Len()-1]
	sigma := math.Sqrt(fitted.Sigma2())

	fc, err := fitted.Forecast(25, 0.9)
	require.NoError(t, err)
	for h, p := range fc.Points {
		assert.InDelta(t, last, p.Mean, 1e-9)
		assert.InDelta(t, sigma*math.Sqrt(float64(h+1)), p.StdErr, 1e-8)
	}
	assert.Equal(t, 0.9, fc.Confidence)
}

func TestForecastSeasonalShape(t *testing.T) {
	t.Parallel()

	series := simulate(240, process{ar: 0.3, ma: 0.2, sar: 0.2, sma: -0.4, d: 1, sd: 1, period: 7, sigma: 5, level: 1000, seed: 13})
	fitted, err := New(Order{1, 1, 1}, SeasonalOrder{1, 1, 1, 7}).Fit(series)
	require.NoError(t, err)

	fc, err := fitted.Forecast(60, 0.95)
	require.NoError(t, err)
	require.Equal(t, 60, fc.Len())

	prevWidth := 0.0
	for h, p := range fc.Points {
		assert.Equal(t, series.LastDate().AddDate(0, 0, h+1), p.Date)
		assert.LessOrEqual(t, p.Lower, p.Mean)
		assert.LessOrEqual(t, p.Mean, p.Upper)
		width := p.Upper - p.Lower
		assert.GreaterOrEqual(t, width, prevWidth)
		prevWidth = width
	}

	point, ok := fc.At(series.LastDate().AddDate(0, 0, 3))
	require.True(t, ok)
	assert.Equal(t, fc.Points[2], point)
	_, ok = fc.At(series.LastDate())
	assert.False(t, ok)
	assert.Len(t, fc.Means(), 60)
}

func TestForecastNarrowerAtLowerConfidence(t *testing.T) {
	t.Parallel()

	fitted, err := New(Order{1, 1, 0}, NoSeason).Fit(simulate(150, process{ar: 0.4, d: 1, sigma: 1, level: 10, seed: 14}))
	require.NoError(t, err)

	wide, err := fitted.Forecast(5, 0.99)
	require.NoError(t, err)
	narrow, err := fitted.Forecast(5, 0.8)
	require.NoError(t, err)
	for h := range wide.Points {
		assert.Equal(t, wide.Points[h].Mean, narrow.Points[h].Mean)
		assert.Greater(t, wide.Points[h].Upper-wide.Points[h].Lower, narrow.Points[h].Upper-narrow.Points[h].Lower)
	}
}

func TestForecastErrors(t *testing.T) {
	t.Parallel()

	var unfit *Fitted
	_, err := unfit.Forecast(10, 0.95)
	assert.ErrorIs(t, err, fault.ErrForecast)
	assert.Contains(t, err.Error(), "not been fit")

	fitted, err := New(Order{D: 1}, NoSeason).Fit(constant(40, 3))
	require.NoError(t, err)

	tests := []struct {
		name       string
		horizon    int
		confidence float64
	}{
		{"zero horizon", 0, 0.95},
		{"negative horizon", -3, 0.95},
		{"confidence one", 5, 1},
		{"confidence zero", 5, 0},
		{"confidence nan", 5, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := fitted.Forecast(tt.horizon, tt.confidence)
			assert.ErrorIs(t, err, fault.ErrForecast)
		})
	}
}

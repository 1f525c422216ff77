package arima

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/sarima"
	"github.com/sartorproj/revcast/timeseries"
)

func randomWalk(n int) *timeseries.Series {
	rng := rand.New(rand.NewPCG(17, 1))
	values := make([]float64, n)
	level := 100.0
	for i := range values {
		level += rng.NormFloat64()
		values[i] = level
	}
	return timeseries.New(values)
}

func TestFitIsNonSeasonal(t *testing.T) {
	t.Parallel()

	series := randomWalk(120)
	model := New(1, 1, 1)
	assert.Equal(t, sarima.Order{P: 1, D: 1, Q: 1}, model.Order())

	fitted, err := model.Fit(series)
	require.NoError(t, err)
	assert.Equal(t, sarima.NoSeason, fitted.Seasonal())
	assert.Equal(t, []string{"ar.L1", "ma.L1", "sigma2"}, fitted.ParamNames())

	same, err := Fit(series, sarima.Order{P: 1, D: 1, Q: 1})
	require.NoError(t, err)
	assert.Equal(t, fitted.AIC(), same.AIC())
}

func TestFitErrors(t *testing.T) {
	t.Parallel()

	_, err := New(1, 1, 1).Fit(randomWalk(10))
	assert.ErrorIs(t, err, fault.ErrModelFit)

	_, err = New(1, 1, 0, sarima.WithMinObservations(5)).Fit(randomWalk(10))
	assert.NoError(t, err)

	_, err = Fit(randomWalk(50), sarima.Order{P: 9})
	assert.ErrorIs(t, err, fault.ErrModelFit)
}

// Package stats provides the statistical tests and helpers used by the
// estimators and diagnostics.
package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/timeseries"
)

// ACF calculates the sample autocorrelation function for lags 0 to maxLag.
// It returns nil for an empty or constant series.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	return autocorrelation(series.Values, maxLag)
}

func autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	maxLag = min(maxLag, n-1)
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(x, nil)
	centered := make([]float64, n)
	for i, v := range x {
		centered[i] = v - mean
	}
	denom := autoCovSum(centered, 0)
	if denom == 0 || math.IsNaN(denom) {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := range acf {
		acf[k] = autoCovSum(centered, k) / denom
	}
	return acf
}

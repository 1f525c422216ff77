package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/timeseries"
)

// DecompositionResult represents the classical decomposition of a series.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
	Type     string // "additive" or "multiplicative"
}

// Decompose performs classical seasonal decomposition with a centered moving
// average trend. Type is "additive" (Y = T + S + R, the default) or
// "multiplicative" (Y = T * S * R). Trend and residual are NaN where the
// moving average window does not fit. Decompose returns nil when the series
// holds fewer than two full periods.
func Decompose(series *timeseries.Series, period int, decompositionType string) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}
	multiplicative := decompositionType == "multiplicative"
	if !multiplicative {
		decompositionType = "additive"
	}

	trend := centeredMovingAverage(series.Values, period)

	// Average the detrended values per position in the cycle.
	buckets := make([][]float64, period)
	for i, v := range series.Values {
		if math.IsNaN(trend[i]) {
			continue
		}
		d := v - trend[i]
		if multiplicative {
			if trend[i] == 0 {
				continue
			}
			d = v / trend[i]
		}
		buckets[i%period] = append(buckets[i%period], d)
	}
	pattern := make([]float64, period)
	for i, b := range buckets {
		if len(b) > 0 {
			pattern[i] = stat.Mean(b, nil)
		}
	}
	center := stat.Mean(pattern, nil)
	for i := range pattern {
		if multiplicative {
			if center != 0 {
				pattern[i] /= center
			}
		} else {
			pattern[i] -= center
		}
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i, v := range series.Values {
		seasonal[i] = pattern[i%period]
		switch {
		case math.IsNaN(trend[i]):
			residual[i] = math.NaN()
		case multiplicative:
			den := trend[i] * seasonal[i]
			if den == 0 {
				residual[i] = math.NaN()
			} else {
				residual[i] = v / den
			}
		default:
			residual[i] = v - trend[i] - seasonal[i]
		}
	}

	component := func(values []float64, name string) *timeseries.Series {
		return &timeseries.Series{Values: values, Timestamps: series.Timestamps, Name: name}
	}
	return &DecompositionResult{
		Original: series,
		Trend:    component(trend, "trend"),
		Seasonal: component(seasonal, "seasonal"),
		Residual: component(residual, "residual"),
		Period:   period,
		Type:     decompositionType,
	}
}

// centeredMovingAverage uses a plain window for odd periods and a 2xperiod
// window with half-weighted ends for even periods.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	half := period / 2
	for i := range trend {
		if i < half || i >= n-half {
			trend[i] = math.NaN()
			continue
		}
		sum := 0.0
		if period%2 == 0 {
			sum = 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}
	return trend
}

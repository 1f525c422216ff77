package stats

import (
	"math"
	"math/rand/v2"

	"github.com/sartorproj/revcast/timeseries"
)

func whiteNoise(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

func weeklyPattern(n int, amp float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*float64(i)/7)
	}
	return out
}

func alternating(i int) float64 {
	if i%2 == 0 {
		return 1
	}
	return -1
}

func series(values []float64) *timeseries.Series {
	return timeseries.New(values)
}

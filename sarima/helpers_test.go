package sarima

import (
	"math/rand/v2"

	"github.com/sartorproj/revcast/timeseries"
)

type process struct {
	ar, ma, sar, sma float64
	d, sd, period    int
	sigma, level     float64
	seed             uint64
}

// simulate draws n values from (1-ar B)(1-sar B^s) w_t = (1+ma B)(1+sma B^s) e_t
// and integrates w d times and seasonally sd times.
func simulate(n int, proc process) *timeseries.Series {
	rng := rand.New(rand.NewPCG(proc.seed, 99))
	s := max(proc.period, 1)
	burn := 200
	total := n + burn
	e := make([]float64, total)
	w := make([]float64, total)
	for i := range e {
		e[i] = proc.sigma * rng.NormFloat64()
	}
	at := func(x []float64, i int) float64 {
		if i < 0 {
			return 0
		}
		return x[i]
	}
	for t := range w {
		w[t] = proc.ar*at(w, t-1) + proc.sar*at(w, t-s) - proc.ar*proc.sar*at(w, t-s-1) +
			e[t] + proc.ma*at(e, t-1) + proc.sma*at(e, t-s) + proc.ma*proc.sma*at(e, t-s-1)
	}
	y := w[burn:]
	for i := 0; i < proc.sd; i++ {
		z := make([]float64, len(y))
		for t := range y {
			z[t] = y[t] + at(z, t-s)
		}
		y = z
	}
	for i := 0; i < proc.d; i++ {
		z := make([]float64, len(y))
		for t := range y {
			z[t] = y[t] + at(z, t-1)
		}
		y = z
	}
	out := make([]float64, len(y))
	for i, v := range y {
		out[i] = proc.level + v
	}
	return timeseries.New(out)
}

func constant(n int, v float64) *timeseries.Series {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return timeseries.New(values)
}

// noiselessAR2 follows y_t = phi1 y_{t-1} + phi2 y_{t-2} from y_0 = 100,
// y_1 = 80.
func noiselessAR2(n int, phi1, phi2 float64) *timeseries.Series {
	values := make([]float64, n)
	values[0], values[1] = 100, 80
	for t := 2; t < n; t++ {
		values[t] = phi1*values[t-1] + phi2*values[t-2]
	}
	return timeseries.New(values)
}

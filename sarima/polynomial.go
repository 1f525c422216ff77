package sarima

// lagPolynomials holds the expanded lag polynomials of a SARIMA model:
//
//	phi(B)Phi(B^s)     = 1 - ar[1]B - ar[2]B^2 - ...
//	theta(B)Theta(B^s) = 1 + ma[1]B + ma[2]B^2 + ...
//
// Index 0 of both slices is unused.
type lagPolynomials struct {
	ar []float64
	ma []float64
}

// splitParams splits the coefficient vector [ar, ma, sar, sma].
func splitParams(params []float64, o Order, s SeasonalOrder) (ar, ma, sar, sma []float64) {
	i := 0
	take := func(n int) []float64 {
		out := params[i : i+n]
		i += n
		return out
	}
	return take(o.P), take(o.Q), take(s.P), take(s.Q)
}

func expand(params []float64, o Order, s SeasonalOrder) lagPolynomials {
	ar, ma, sar, sma := splitParams(params, o, s)
	period := s.S

	// Multiply in the 1 - sum form for AR and the 1 + sum form for MA.
	arPoly := multiply(signed(ar, 1, -1), signed(sar, period, -1))
	maPoly := multiply(signed(ma, 1, 1), signed(sma, period, 1))

	out := lagPolynomials{
		ar: make([]float64, len(arPoly)),
		ma: make([]float64, len(maPoly)),
	}
	for k := 1; k < len(arPoly); k++ {
		out.ar[k] = -arPoly[k]
	}
	copy(out.ma, maPoly)
	out.ma[0] = 0
	return out
}

// signed builds 1 + sign*c[0]B^step + sign*c[1]B^{2 step} + ...
func signed(c []float64, step int, sign float64) []float64 {
	poly := make([]float64, len(c)*step+1)
	poly[0] = 1
	for i, v := range c {
		poly[(i+1)*step] = sign * v
	}
	return poly
}

func multiply(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// differencing returns delta[1..K] of (1-B)^d (1-B^s)^D = 1 + sum delta_k B^k.
func differencing(d int, s SeasonalOrder) []float64 {
	poly := []float64{1}
	for i := 0; i < d; i++ {
		poly = multiply(poly, []float64{1, -1})
	}
	if s.D > 0 {
		seasonal := make([]float64, s.S+1)
		seasonal[0], seasonal[s.S] = 1, -1
		for i := 0; i < s.D; i++ {
			poly = multiply(poly, seasonal)
		}
	}
	return poly[1:]
}

// difference applies (1-B)^d (1-B^s)^D to y.
func difference(y []float64, d int, s SeasonalOrder) []float64 {
	w := append([]float64(nil), y...)
	for i := 0; i < d; i++ {
		w = lagDiff(w, 1)
	}
	for i := 0; i < s.D; i++ {
		w = lagDiff(w, s.S)
	}
	return w
}

func lagDiff(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for i := range out {
		out[i] = x[i+lag] - x[i]
	}
	return out
}

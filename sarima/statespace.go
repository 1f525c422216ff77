package sarima

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	diffuseKappa = 1e6
	sigma2Floor  = 1e-12
)

// stateSpace is the Harvey representation of a zero-mean ARMA process
//
//	w_t     = Z a_t,             Z = e_1
//	a_{t+1} = T a_t + R eps_t,   eps_t ~ N(0, sigma2)
//
// T carries the expanded AR coefficients in its first column and ones on the
// superdiagonal; R = [1, ma_1, ..., ma_{r-1}].
type stateSpace struct {
	r   int
	phi []float64 // first column of T
	rv  []float64 // R
}

func newStateSpace(poly lagPolynomials) *stateSpace {
	p := len(poly.ar) - 1
	q := len(poly.ma) - 1
	r := max(p, q+1)
	ss := &stateSpace{
		r:   r,
		phi: make([]float64, r),
		rv:  make([]float64, r),
	}
	for i := 0; i < p; i++ {
		ss.phi[i] = poly.ar[i+1]
	}
	ss.rv[0] = 1
	for i := 1; i <= q; i++ {
		ss.rv[i] = poly.ma[i]
	}
	return ss
}

// transition returns T as a dense matrix.
func (ss *stateSpace) transition() *mat.Dense {
	t := mat.NewDense(ss.r, ss.r, nil)
	for i := 0; i < ss.r; i++ {
		t.Set(i, 0, ss.phi[i])
		if i+1 < ss.r {
			t.Set(i, i+1, 1)
		}
	}
	return t
}

// filterResult is the output of one pass of the Kalman filter with sigma2
// concentrated out of the likelihood.
type filterResult struct {
	logLik float64
	sigma2 float64
	nEff   int
	resid  []float64   // one-step prediction errors of the likelihood sample
	a      []float64   // predicted state a_{n+1|n}
	p      [][]float64 // predicted covariance P_{n+1|n}, scale free
}

// filter runs the Kalman recursions over w from an approximate diffuse
// prior, P_1 = kappa*I, for every coefficient vector. The first r
// observations are left out of the likelihood: the number of terms depends
// on the order alone, not on whether the AR part is stationary.
func (ss *stateSpace) filter(w []float64) (*filterResult, bool) {
	r := ss.r
	a := make([]float64, r)
	p := make([][]float64, r)
	for i := range p {
		p[i] = make([]float64, r)
		p[i][i] = diffuseKappa
	}
	burn := min(r, len(w))

	m := make([][]float64, r)
	for i := range m {
		m[i] = make([]float64, r)
	}
	res := &filterResult{resid: make([]float64, 0, len(w)-burn)}
	sumLogF, sumV2F := 0.0, 0.0

	for t, obs := range w {
		v := obs - a[0]
		f := p[0][0]
		if !(f > 0) || math.IsInf(f, 0) {
			return nil, false
		}
		if t >= burn {
			sumLogF += math.Log(f)
			sumV2F += v * v / f
			res.resid = append(res.resid, v)
		}

		// Update: a += K v, P -= K K' F with K = P e_1 / F.
		gain := v / f
		col := make([]float64, r)
		for i := 0; i < r; i++ {
			col[i] = p[i][0]
		}
		for i := 0; i < r; i++ {
			a[i] += col[i] * gain
			for j := 0; j < r; j++ {
				p[i][j] -= col[i] * col[j] / f
			}
		}

		// Predict: a = T a, P = T P T' + R R', exploiting the companion
		// structure of T.
		a0 := a[0]
		for i := 0; i < r; i++ {
			next := 0.0
			if i+1 < r {
				next = a[i+1]
			}
			a[i] = ss.phi[i]*a0 + next
		}
		for i := 0; i < r; i++ {
			for j := 0; j < r; j++ {
				below := 0.0
				if i+1 < r {
					below = p[i+1][j]
				}
				m[i][j] = ss.phi[i]*p[0][j] + below
			}
		}
		for i := 0; i < r; i++ {
			for j := 0; j < r; j++ {
				right := 0.0
				if j+1 < r {
					right = m[i][j+1]
				}
				p[i][j] = m[i][0]*ss.phi[j] + right + ss.rv[i]*ss.rv[j]
			}
		}
	}

	res.nEff = len(w) - burn
	if res.nEff <= 0 {
		return nil, false
	}
	n := float64(res.nEff)
	res.sigma2 = math.Max(sumV2F/n, sigma2Floor)
	res.logLik = -n/2*(math.Log(2*math.Pi)+math.Log(res.sigma2)+1) - sumLogF/2
	if math.IsNaN(res.logLik) || math.IsInf(res.logLik, 0) {
		return nil, false
	}
	res.a = a
	res.p = p
	return res, true
}

package sarima

import (
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/revcast/fault"
)

// DefaultConfidence is the default two-sided interval coverage.
const DefaultConfidence = 0.95

// ForecastPoint is one forecast day.
type ForecastPoint struct {
	Date   time.Time `json:"date" yaml:"date"`
	Mean   float64   `json:"mean" yaml:"mean"`
	Lower  float64   `json:"lower_bound" yaml:"lower_bound"`
	Upper  float64   `json:"upper_bound" yaml:"upper_bound"`
	StdErr float64   `json:"std_err" yaml:"std_err"`
}

// ForecastResult holds one point per step, dated on consecutive days after
// the last fitted observation.
type ForecastResult struct {
	Points     []ForecastPoint `json:"points" yaml:"points"`
	Confidence float64         `json:"confidence" yaml:"confidence"`
}

// Len returns the horizon.
func (r *ForecastResult) Len() int { return len(r.Points) }

// Means returns the point forecasts.
func (r *ForecastResult) Means() []float64 {
	out := make([]float64, len(r.Points))
	for i, p := range r.Points {
		out[i] = p.Mean
	}
	return out
}

// At returns the point dated d.
func (r *ForecastResult) At(d time.Time) (ForecastPoint, bool) {
	if len(r.Points) == 0 {
		return ForecastPoint{}, false
	}
	i := int(math.Round(d.Sub(r.Points[0].Date).Hours() / 24))
	if i < 0 || i >= len(r.Points) || !r.Points[i].Date.Equal(d) {
		return ForecastPoint{}, false
	}
	return r.Points[i], true
}

// Forecast predicts horizon days past the fitted sample with symmetric
// intervals mean +/- z*se, z being the two-sided normal quantile for
// confidence. The levels are obtained by running the ARMA state forward
// together with the last d + sD observations, so the standard error grows
// with the integrated forecast variance. Standard errors are reported as a
// running maximum so interval width never shrinks with the horizon.
func (f *Fitted) Forecast(horizon int, confidence float64) (*ForecastResult, error) {
	const op = "sarima.Forecast"
	if f == nil {
		return nil, fault.NotFit(op)
	}
	if horizon < 1 {
		return nil, fault.Forecast(op, "horizon must be positive, got %d", horizon)
	}
	if !(confidence > 0 && confidence < 1) {
		return nil, fault.Forecast(op, "confidence must be in (0, 1), got %v", confidence)
	}

	r, k := f.ss.r, len(f.delta)
	dim := r + k

	// Augmented state x = [a; y_t, ..., y_{t-k+1}] with
	// y_{t+1} = a_0 - sum delta_j y_{t+1-j}.
	z := mat.NewVecDense(dim, nil)
	z.SetVec(0, 1)
	for j, d := range f.delta {
		z.SetVec(r+j, -d)
	}

	tAug := mat.NewDense(dim, dim, nil)
	tAug.Slice(0, r, 0, r).(*mat.Dense).Copy(f.ss.transition())
	if k > 0 {
		tAug.SetRow(r, z.RawVector().Data)
		for j := 1; j < k; j++ {
			tAug.Set(r+j, r+j-1, 1)
		}
	}

	rAug := mat.NewVecDense(dim, nil)
	for i, v := range f.ss.rv {
		rAug.SetVec(i, v)
	}
	q := mat.NewDense(dim, dim, nil)
	q.Outer(f.sigma2, rAug, rAug)

	x := mat.NewVecDense(dim, nil)
	p := mat.NewDense(dim, dim, nil)
	for i := 0; i < r; i++ {
		x.SetVec(i, f.state[i])
		for j := 0; j < r; j++ {
			p.Set(i, j, f.sigma2*f.cov[i][j])
		}
	}
	for j, v := range f.history {
		x.SetVec(r+j, v)
	}

	zq := distuv.UnitNormal.Quantile((1 + confidence) / 2)
	out := &ForecastResult{
		Points:     make([]ForecastPoint, horizon),
		Confidence: confidence,
	}

	var (
		nextX  mat.VecDense
		tmp    mat.Dense
		pz     mat.VecDense
		maxStd float64
	)
	for h := 0; h < horizon; h++ {
		mean := mat.Dot(z, x)
		pz.MulVec(p, z)
		std := math.Sqrt(math.Max(mat.Dot(z, &pz), 0))
		maxStd = math.Max(maxStd, std)

		out.Points[h] = ForecastPoint{
			Date:   f.lastDate.AddDate(0, 0, h+1),
			Mean:   mean,
			Lower:  mean - zq*maxStd,
			Upper:  mean + zq*maxStd,
			StdErr: maxStd,
		}

		nextX.MulVec(tAug, x)
		x.CopyVec(&nextX)
		tmp.Mul(tAug, p)
		p.Mul(&tmp, tAug.T())
		p.Add(p, q)
	}
	return out, nil
}

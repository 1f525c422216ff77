package diagnostics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/sarima"
	"github.com/sartorproj/revcast/stats"
)

// LjungBoxLags is the lag at which residual autocorrelation is tested.
const LjungBoxLags = 10

// Parameter is the absolute size of one estimated coefficient.
type Parameter struct {
	Name       string  `json:"name" yaml:"name"`
	Value      float64 `json:"value" yaml:"value"`
	Importance float64 `json:"importance" yaml:"importance"`
}

// Report summarizes the fit quality of a model.
type Report struct {
	AIC            float64 `json:"aic" yaml:"aic"`
	BIC            float64 `json:"bic" yaml:"bic"`
	LogLikelihood  float64 `json:"log_likelihood" yaml:"log_likelihood"`
	ResidualMean   float64 `json:"residual_mean" yaml:"residual_mean"`
	ResidualStd    float64 `json:"residual_std" yaml:"residual_std"`
	LjungBoxStat   float64 `json:"ljung_box_statistic" yaml:"ljung_box_statistic"`
	LjungBoxPValue float64 `json:"ljung_box_p_value" yaml:"ljung_box_p_value"`
	DurbinWatson   float64 `json:"durbin_watson" yaml:"durbin_watson"`

	Order    sarima.Order         `json:"-" yaml:"-"`
	Seasonal sarima.SeasonalOrder `json:"-" yaml:"-"`

	Parameters []Parameter `json:"parameters" yaml:"parameters"`
}

// Compute derives the report from the in-sample residuals of m. The
// Ljung-Box test runs at lag 10 without a degrees-of-freedom correction.
func Compute(m *sarima.Fitted) (*Report, error) {
	if m == nil {
		return nil, fault.NotFit("diagnostics.Compute")
	}

	resid := m.Residuals()
	r := &Report{
		AIC:            m.AIC(),
		BIC:            m.BIC(),
		LogLikelihood:  m.LogLikelihood(),
		ResidualMean:   math.NaN(),
		ResidualStd:    math.NaN(),
		LjungBoxStat:   math.NaN(),
		LjungBoxPValue: math.NaN(),
		DurbinWatson:   stats.DurbinWatson(resid),
		Order:          m.Order(),
		Seasonal:       m.Seasonal(),
	}
	switch {
	case len(resid) > 1:
		r.ResidualMean, r.ResidualStd = stat.MeanStdDev(resid, nil)
	case len(resid) == 1:
		r.ResidualMean = resid[0]
	}
	if lb := stats.LjungBox(resid, LjungBoxLags, 0); lb != nil {
		r.LjungBoxStat = lb.Statistic
		r.LjungBoxPValue = lb.PValue
	}

	names := m.ParamNames()
	for i, v := range m.Params() {
		r.Parameters = append(r.Parameters, Parameter{Name: names[i], Value: v, Importance: math.Abs(v)})
	}
	return r, nil
}

// Importance returns |coefficient| keyed by parameter name.
func (r *Report) Importance() map[string]float64 {
	out := make(map[string]float64, len(r.Parameters))
	for _, p := range r.Parameters {
		out[p.Name] = p.Importance
	}
	return out
}

// Map returns the report as a flat map with orders given as integer slices.
func (r *Report) Map() map[string]any {
	return map[string]any{
		"aic":               r.AIC,
		"bic":               r.BIC,
		"log_likelihood":    r.LogLikelihood,
		"residual_mean":     r.ResidualMean,
		"residual_std":      r.ResidualStd,
		"ljung_box_p_value": r.LjungBoxPValue,
		"durbin_watson":     r.DurbinWatson,
		"order":             r.Order.Slice(),
		"seasonal_order":    r.Seasonal.Slice(),
	}
}

// WhiteNoise reports whether the Ljung-Box test fails to reject
// uncorrelated residuals at the given significance level.
func (r *Report) WhiteNoise(alpha float64) bool {
	return r.LjungBoxPValue > alpha
}

package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/revcast/timeseries"
)

// Significance is the level used for the stationarity decisions.
const Significance = 0.05

// ADFResult represents the result of an Augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // Critical values at 1%, 5%, 10%
	IsStationary bool
}

// ADF performs the Augmented Dickey-Fuller test for a unit root with a
// constant in the test regression. The null hypothesis is that the series
// has a unit root; it is rejected when the p-value is below 0.05.
//
// When maxLag is negative the upper bound is 12*(n/100)^(1/4) and the lag
// order is chosen by AIC over a common sample. Otherwise maxLag is used as
// given. ADF returns nil when the series is too short or the regression is
// singular.
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	x := series.Values
	n := len(x)
	if n < 6 {
		return nil
	}

	autolag := maxLag < 0
	if autolag {
		maxLag = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
		maxLag = min(maxLag, n/2-2)
		if maxLag < 0 {
			return nil
		}
	}
	if maxLag > n/2-2 {
		maxLag = max(n/2-2, 0)
	}

	dx := make([]float64, n-1)
	for i := 1; i < n; i++ {
		dx[i-1] = x[i] - x[i-1]
	}

	usedLag := maxLag
	if autolag {
		usedLag = -1
		best := math.Inf(1)
		rows := len(dx) - maxLag
		for lag := 0; lag <= maxLag; lag++ {
			res, err := OLS(adfDesign(x, dx, maxLag, lag), dx[maxLag:])
			if err != nil {
				continue
			}
			if aic := res.AIC(); aic < best {
				best, usedLag = aic, lag
			}
		}
		if usedLag < 0 || rows <= 0 {
			return nil
		}
	}

	res, err := OLS(adfDesign(x, dx, usedLag, usedLag), dx[usedLag:])
	if err != nil {
		return nil
	}
	nobs := len(dx) - usedLag
	tStat := res.TValue(1)
	if math.IsNaN(tStat) {
		return nil
	}

	pValue := mackinnonPValue(tStat)
	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         usedLag,
		NObs:         nobs,
		CriticalVals: mackinnonCrit(nobs),
		IsStationary: pValue < Significance,
	}
}

// adfDesign builds rows [1, y_{t-1}, dy_{t-1}, ..., dy_{t-lag}] for every t
// whose first trim lagged differences exist.
func adfDesign(x, dx []float64, trim, lag int) [][]float64 {
	rows := make([][]float64, 0, len(dx)-trim)
	for t := trim; t < len(dx); t++ {
		row := make([]float64, 2+lag)
		row[0] = 1
		row[1] = x[t]
		for j := 1; j <= lag; j++ {
			row[1+j] = dx[t-j]
		}
		rows = append(rows, row)
	}
	return rows
}

// MacKinnon (1994) response surface for the constant-only, single-series
// case.
var (
	adfTauMax   = 2.74
	adfTauMin   = -18.83
	adfTauStar  = -1.61
	adfSmallP   = []float64{2.1659, 1.4412, 0.038269}
	adfLargeP   = []float64{1.7339, 0.93202, -0.12745, -0.010368}
	adfCritCoef = map[string][]float64{
		"1%":  {-3.43035, -6.5393, -16.786, -79.433},
		"5%":  {-2.86154, -2.8903, -4.234, -40.040},
		"10%": {-2.56677, -1.5384, -2.809, 0},
	}
)

func mackinnonPValue(stat float64) float64 {
	switch {
	case stat > adfTauMax:
		return 1
	case stat < adfTauMin:
		return 0
	}
	coef := adfLargeP
	if stat <= adfTauStar {
		coef = adfSmallP
	}
	return distuv.UnitNormal.CDF(polyval(coef, stat))
}

// mackinnonCrit returns the MacKinnon (2010) finite-sample critical values.
func mackinnonCrit(nobs int) map[string]float64 {
	inv := 1 / float64(nobs)
	out := make(map[string]float64, len(adfCritCoef))
	for level, coef := range adfCritCoef {
		out[level] = polyval(coef, inv)
	}
	return out
}

// polyval evaluates c[0] + c[1]x + c[2]x^2 + ...
func polyval(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

var (
	kpssPValues = []float64{0.10, 0.05, 0.025, 0.01}
	kpssCritC   = []float64{0.347, 0.463, 0.574, 0.739}
	kpssCritCT  = []float64{0.119, 0.146, 0.176, 0.216}
	kpssLevels  = []string{"10%", "5%", "2.5%", "1%"}
)

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test. The null
// hypothesis is level stationarity (regression "c") or trend stationarity
// (regression "ct"); the series is considered stationary when the p-value
// exceeds 0.05. A negative nlags selects the bandwidth automatically
// (Hobijn et al., 1998). The p-value is interpolated from the KPSS table and
// therefore lies in [0.01, 0.10].
func KPSS(series *timeseries.Series, regression string, nlags int) *KPSSResult {
	x := series.Values
	n := len(x)
	if n < 3 {
		return nil
	}

	crit := kpssCritC
	resid := make([]float64, n)
	if regression == "ct" {
		crit = kpssCritCT
		design := make([][]float64, n)
		for i := range design {
			design[i] = []float64{1, float64(i + 1)}
		}
		res, err := OLS(design, x)
		if err != nil {
			return nil
		}
		copy(resid, res.Resid)
	} else {
		mean := series.Mean()
		for i, v := range x {
			resid[i] = v - mean
		}
	}

	if nlags < 0 {
		nlags = kpssAutoLag(resid)
	}
	nlags = min(nlags, n-1)

	eta, cum := 0.0, 0.0
	for _, r := range resid {
		cum += r
		eta += cum * cum
	}
	eta /= float64(n) * float64(n)

	sHat := longRunVariance(resid, nlags)
	stat := 0.0
	if sHat > 0 {
		stat = eta / sHat
	}

	pValue := interpolate(stat, crit, kpssPValues)
	criticalVals := make(map[string]float64, len(crit))
	for i, level := range kpssLevels {
		criticalVals[level] = crit[i]
	}

	return &KPSSResult{
		Statistic:    stat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: pValue > Significance,
	}
}

// kpssAutoLag implements the Hobijn, Franses and Ooms bandwidth rule.
func kpssAutoLag(resid []float64) int {
	n := len(resid)
	covLags := int(math.Pow(float64(n), 2.0/9.0))
	s0 := autoCovSum(resid, 0) / float64(n)
	s1 := 0.0
	for i := 1; i <= covLags; i++ {
		prod := autoCovSum(resid, i) / (float64(n) / 2)
		s0 += prod
		s1 += float64(i) * prod
	}
	if s0 == 0 {
		return 0
	}
	sHat := s1 / s0
	gamma := 1.1447 * math.Pow(sHat*sHat, 1.0/3.0)
	lags := int(gamma * math.Pow(float64(n), 1.0/3.0))
	return max(lags, 0)
}

// longRunVariance is the Newey-West estimator with Bartlett weights.
func longRunVariance(resid []float64, lags int) float64 {
	s := autoCovSum(resid, 0)
	for i := 1; i <= lags; i++ {
		s += 2 * autoCovSum(resid, i) * (1 - float64(i)/float64(lags+1))
	}
	return s / float64(len(resid))
}

func autoCovSum(r []float64, lag int) float64 {
	s := 0.0
	for i := lag; i < len(r); i++ {
		s += r[i] * r[i-lag]
	}
	return s
}

// interpolate is a piecewise-linear lookup of x in ascending xp, clamped to
// the end values of fp.
func interpolate(x float64, xp, fp []float64) float64 {
	if x <= xp[0] {
		return fp[0]
	}
	last := len(xp) - 1
	if x >= xp[last] {
		return fp[last]
	}
	i := sort.SearchFloat64s(xp, x)
	lo, hi := i-1, i
	frac := (x - xp[lo]) / (xp[hi] - xp[lo])
	return fp[lo] + frac*(fp[hi]-fp[lo])
}

// StationarityReport combines both tests. A test that cannot be computed
// counts as not stationary.
type StationarityReport struct {
	ADFStationary      bool
	KPSSStationary     bool
	IsStationary       bool
	ADF                *ADFResult
	KPSS               *KPSSResult
	SuggestedD         int
	SuggestedSeasonalD int
}

// AnalyzeStationarity runs ADF and KPSS on the series and suggests the
// differencing orders needed to reach stationarity. period <= 1 skips the
// seasonal suggestion.
func AnalyzeStationarity(series *timeseries.Series, period int) *StationarityReport {
	r := &StationarityReport{
		ADF:  ADF(series, -1),
		KPSS: KPSS(series, "c", -1),
	}
	r.ADFStationary = r.ADF != nil && r.ADF.IsStationary
	r.KPSSStationary = r.KPSS != nil && r.KPSS.IsStationary
	r.IsStationary = r.ADFStationary && r.KPSSStationary
	r.SuggestedD = NDiffs(series, 2, "kpss")
	if period > 1 {
		r.SuggestedSeasonalD = NSDiffs(series, period, 1)
	}
	return r
}

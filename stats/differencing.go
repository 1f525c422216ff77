package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/timeseries"
)

// NDiffs determines the number of first differences required for
// stationarity, up to maxD (default 2). testType is "kpss" (default) or "adf".
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}

	current := series
	for d := 0; d < maxD; d++ {
		if current.Len() < 10 {
			return d
		}
		var stationary bool
		if testType == "adf" {
			r := ADF(current, -1)
			stationary = r != nil && r.IsStationary
		} else {
			r := KPSS(current, "c", -1)
			stationary = r != nil && r.IsStationary
		}
		if stationary {
			return d
		}
		current = current.Diff()
	}
	return maxD
}

// NSDiffs determines the number of seasonal differences required, up to maxD
// (default 1). One difference is suggested while the seasonal strength
// F_S = max(0, 1 - Var(R)/Var(S+R)) of a classical decomposition is at least
// 0.64.
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if current.Len() < 2*period || SeasonalStrength(current, period) < 0.64 {
			return d
		}
		current = current.SeasonalDiff(period)
	}
	return maxD
}

// SeasonalStrength returns F_S for the given period, or 0 when the series is
// too short to decompose.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	decomp := Decompose(series, period, "additive")
	if decomp == nil {
		return 0
	}

	var resid, sr []float64
	for i, r := range decomp.Residual.Values {
		if math.IsNaN(r) {
			continue
		}
		resid = append(resid, r)
		sr = append(sr, decomp.Seasonal.Values[i]+r)
	}
	if len(resid) < 2 {
		return 0
	}
	varSR := stat.Variance(sr, nil)
	if varSR == 0 {
		return 0
	}
	return math.Max(0, 1-stat.Variance(resid, nil)/varSR)
}

// InformationCriteria holds AIC, AICc and BIC for a fitted model.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates all information criteria. logLik is the
// log-likelihood, nObs the number of observations contributing to it and
// nParams the number of estimated parameters, variance included.
func CalculateIC(logLik float64, nObs int, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	aicc := math.Inf(1)
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    -2*logLik + k*math.Log(n),
		LogLik: logLik,
	}
}

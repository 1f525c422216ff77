// Package stats provides the statistical tests behind stationarity analysis
// and residual diagnostics.
//
// # Stationarity Tests
//
// Both tests return nil when the series is too short or degenerate:
//
//	// Augmented Dickey-Fuller, constant-only regression, AIC lag selection.
//	// H0: the series has a unit root.
//	adf := stats.ADF(series, -1)
//
//	// KPSS with automatic bandwidth.
//	// H0: the series is level stationary.
//	kpss := stats.KPSS(series, "c", -1)
//
// AnalyzeStationarity combines them. It never fails; a test that cannot be
// computed counts as "not stationary":
//
//	report := stats.AnalyzeStationarity(series, 7)
//	fmt.Println(report.ADFStationary, report.KPSSStationary, report.IsStationary)
//	fmt.Println("suggested d:", report.SuggestedD, "D:", report.SuggestedSeasonalD)
//
// # Residual Diagnostics
//
//	lb := stats.LjungBox(residuals, 10, 0)
//	dw := stats.DurbinWatson(residuals)
//
// # Regression and Information Criteria
//
//	res, err := stats.OLS(rows, y)
//	ic := stats.CalculateIC(logLik, nObs, nParams)
//
// # Decomposition
//
//	d := stats.Decompose(series, 7, "additive")
//	strength := stats.SeasonalStrength(series, 7)
package stats

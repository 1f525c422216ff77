// Package revcast forecasts daily revenue with seasonal ARIMA models.
//
// The module is split into small packages that form one pipeline:
//
//   - timeseries: the daily series type and its CSV reader and writer
//   - prepare: cleaning (sorting, de-duplication, null and negative
//     handling, outlier capping), validation checks and summaries
//   - stats: ADF and KPSS stationarity tests, ACF, Ljung-Box,
//     Durbin-Watson, OLS, differencing advice and classical decomposition
//   - sarima: exact maximum likelihood SARIMA estimation through a Kalman
//     filter, and forecasting with confidence intervals
//   - arima, autoarima: non-seasonal fits and the AIC grid search used when
//     configured orders are invalid
//   - backtest: holdout evaluation with MAE, MSE, RMSE and MAPE
//   - diagnostics: residual checks and information criteria of a fit
//   - engine: the end-to-end run with progress stages
//   - config: Viper settings and the zap logger
//
// # Quick Start
//
//	series, err := timeseries.LoadCSV("revenue.csv", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := prepare.Prepare(series, prepare.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fitted, err := sarima.New(
//	    sarima.Order{P: 1, D: 1, Q: 1},
//	    sarima.SeasonalOrder{P: 1, D: 1, Q: 1, S: 7},
//	).Fit(res.Series)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fc, _ := fitted.Forecast(90, 0.95)
//
// The revcast command in cmd/revcast exposes the same pipeline on the
// command line.
package revcast

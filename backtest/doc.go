// Package backtest scores a SARIMA configuration on the most recent part of
// a series.
//
// The last testDays observations are withheld, an independent model is fit
// on the remainder and its forecast is compared with the withheld actuals:
//
//	res, err := backtest.Run(series, backtest.WindowFromMonths(3), backtest.DefaultOptions())
//	if err != nil {
//	    return err // fault.ErrBacktest, wrapping the fit or data failure
//	}
//	fmt.Printf("%s RMSE=%.2f MAPE=%.1f%%\n", res.Period, res.Metrics.RMSE, res.Metrics.MAPE)
//
// At least 30 training observations are required.
package backtest

// Package arima fits non-seasonal ARIMA(p,d,q) models.
//
// It is the estimation entry point of the automatic order search, which
// holds the seasonal part at (0,0,0,0):
//
//	fitted, err := arima.New(1, 1, 1).Fit(series)
//	if err != nil {
//	    return err // classified as fault.ErrModelFit or fault.ErrData
//	}
//	fmt.Printf("AIC=%.2f\n", fitted.AIC())
//
// The returned *sarima.Fitted forecasts like any seasonal model:
//
//	fc, err := fitted.Forecast(30, 0.95)
package arima

// Package sarima estimates and forecasts SARIMA(p,d,q)(P,D,Q,s) models on
// daily series.
//
// The differenced series w = (1-B)^d (1-B^s)^D y is modelled as a zero-mean
// ARMA process
//
//	phi(B) Phi(B^s) w_t = theta(B) Theta(B^s) e_t,  e_t ~ N(0, sigma2)
//
// written in state-space form. Coefficients maximize the exact Gaussian
// likelihood evaluated by a Kalman filter with sigma2 concentrated out. No
// stationarity or invertibility constraint is imposed on the coefficients.
//
// # Basic Usage
//
//	model := sarima.New(
//	    sarima.Order{P: 1, D: 1, Q: 1},
//	    sarima.SeasonalOrder{P: 1, D: 1, Q: 1, S: 7},
//	)
//	fitted, err := model.Fit(series)
//	if err != nil {
//	    return err
//	}
//	fc, err := fitted.Forecast(90, 0.95)
//	for _, p := range fc.Points {
//	    fmt.Printf("%s %.2f [%.2f, %.2f]\n", p.Date.Format("2006-01-02"), p.Mean, p.Lower, p.Upper)
//	}
//
// # Estimation
//
// The filter starts from an approximate diffuse prior for every coefficient
// vector and leaves the first r = max(p+sP, q+sQ+1) observations out of the
// likelihood, so candidates of one order always share the same sample.
//
// Starting values are the Hannan-Rissanen estimates or their copy clamped
// to +/-0.95, falling back to zeros, whichever scores best. BFGS with
// central-difference gradients refines them, bounded by WithMaxIterations
// (default 100). A line search failure is accepted only at a point with a
// gradient below 1e-3 or an exact fit; otherwise the search restarts with
// Nelder-Mead and another BFGS pass, and fails with fault.ErrModelFit if
// that does not settle. Fitting needs at least WithMinObservations
// observations (default 30). Two fits of the same series and orders give
// identical results.
//
// # Parameters
//
// Params lists coefficients in the order reported by ParamNames:
//
//	ar.L1 ... ar.Lp, ma.L1 ... ma.Lq, ar.S.L{s} ..., ma.S.L{s} ..., sigma2
package sarima

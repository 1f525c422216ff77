// Package autoarima selects a non-seasonal ARIMA order by exhaustive search.
//
// Every (p, d, q) in the bounded grid 0..MaxP x 0..MaxD x 0..MaxQ is fit
// with the seasonal part held at (0,0,0,0), and the order with the lowest
// AIC wins:
//
//	result, err := autoarima.SelectOrder(ctx, series, autoarima.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	if !result.Converged {
//	    // nothing fit; result.Order is autoarima.FallbackOrder (1,1,1)
//	}
//	fmt.Printf("ARIMA%v AIC=%.2f\n", result.Order, result.AIC)
//
// Candidate fits run concurrently (Config.Workers, defaulting to
// GOMAXPROCS). Ties resolve to the first order in ascending (p, d, q)
// enumeration, independent of scheduling.
package autoarima

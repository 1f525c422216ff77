// Package diagnostics reports residual checks and information criteria for
// a fitted SARIMA model.
//
//	report, err := diagnostics.Compute(fitted)
//	if err != nil {
//	    return err
//	}
//	if !report.WhiteNoise(0.05) {
//	    fmt.Println("residuals are autocorrelated, consider another order")
//	}
package diagnostics

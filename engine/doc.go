// Package engine wires preparation, stationarity analysis, order
// resolution, estimation, forecasting, diagnostics and backtesting into one
// run.
//
//	v, _ := config.Load("")
//	cfg, err := config.Decode(v)
//	if err != nil {
//	    return err
//	}
//	e := engine.New(cfg, logger, engine.WithProgress(func(s engine.Stage) {
//	    fmt.Println(s)
//	}))
//	res, err := e.Run(ctx, series)
//
// Invalid configured orders are replaced by the AIC-best (p,d,q) from the
// grid search combined with seasonal order (1,1,1,s).
package engine

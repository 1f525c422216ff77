// Package autoarima implements automatic ARIMA order selection.
package autoarima

import (
	"context"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/revcast/arima"
	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/sarima"
	"github.com/sartorproj/revcast/timeseries"
)

// FallbackOrder is returned when no candidate in the grid converges.
var FallbackOrder = sarima.Order{P: 1, D: 1, Q: 1}

// Config holds configuration for the order search.
type Config struct {
	MaxP      int    // Maximum AR order (default: 3)
	MaxD      int    // Maximum differencing order (default: 2)
	MaxQ      int    // Maximum MA order (default: 3)
	Criterion string // Information criterion: "aic" or "bic" (default: "aic")
	Workers   int    // Concurrent fits (default: GOMAXPROCS)

	// Estimator options applied to every candidate fit.
	Estimator []sarima.Option
	// Logger receives one debug line per candidate. Nil disables logging.
	Logger *zap.Logger
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxP:      3,
		MaxD:      2,
		MaxQ:      3,
		Criterion: "aic",
	}
}

// Candidate records the outcome of one grid point.
type Candidate struct {
	Order sarima.Order
	AIC   float64
	BIC   float64
	Err   error
}

// Result represents the outcome of the order search.
type Result struct {
	Order     sarima.Order
	Fitted    *sarima.Fitted // nil when no candidate converged
	AIC       float64
	BIC       float64
	Criterion float64

	// Converged is false when every candidate failed and Order is
	// FallbackOrder.
	Converged       bool
	ModelsEvaluated int
	ModelsFailed    int
	Candidates      []Candidate
}

// SelectOrder fits every ARIMA(p,d,q) with 0 <= p <= MaxP, 0 <= d <= MaxD
// and 0 <= q <= MaxQ and returns the order with the lowest criterion.
// Candidates that fail to fit are skipped. Fits run concurrently, but the
// winner is picked by scanning candidates in ascending (p, d, q) order with
// a strict comparison, so ties resolve to the first order enumerated.
// Cancelling ctx stops scheduling new candidates; fits already running
// complete.
func SelectOrder(ctx context.Context, series *timeseries.Series, config *Config) (*Result, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if series == nil || series.Len() == 0 {
		return nil, fault.Data("autoarima.SelectOrder", "empty series")
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := config.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	orders := grid(config)
	candidates := make([]Candidate, len(orders))
	fits := make([]*sarima.Fitted, len(orders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, order := range orders {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fitted, err := arima.Fit(series, order, config.Estimator...)
			candidates[i] = Candidate{Order: order, AIC: math.NaN(), BIC: math.NaN(), Err: err}
			if err != nil {
				logger.Debug("candidate failed", zap.Stringer("order", order), zap.Error(err))
				return nil
			}
			fits[i] = fitted
			candidates[i].AIC, candidates[i].BIC = fitted.AIC(), fitted.BIC()
			logger.Debug("candidate fitted",
				zap.Stringer("order", order),
				zap.Float64("aic", fitted.AIC()),
				zap.Float64("bic", fitted.BIC()))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := &Result{
		Order:      FallbackOrder,
		AIC:        math.NaN(),
		BIC:        math.NaN(),
		Criterion:  math.Inf(1),
		Candidates: candidates,
	}
	for i, c := range candidates {
		if c.Err != nil {
			best.ModelsFailed++
			continue
		}
		best.ModelsEvaluated++
		crit := c.AIC
		if config.Criterion == "bic" {
			crit = c.BIC
		}
		if crit < best.Criterion {
			best.Order = c.Order
			best.Fitted = fits[i]
			best.AIC, best.BIC, best.Criterion = c.AIC, c.BIC, crit
			best.Converged = true
		}
	}
	return best, nil
}

// grid enumerates orders with p outermost and q innermost.
func grid(config *Config) []sarima.Order {
	orders := make([]sarima.Order, 0, (config.MaxP+1)*(config.MaxD+1)*(config.MaxQ+1))
	for p := 0; p <= config.MaxP; p++ {
		for d := 0; d <= config.MaxD; d++ {
			for q := 0; q <= config.MaxQ; q++ {
				orders = append(orders, sarima.Order{P: p, D: d, Q: q})
			}
		}
	}
	return orders
}

package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sartorproj/revcast/autoarima"
	"github.com/sartorproj/revcast/backtest"
	"github.com/sartorproj/revcast/config"
	"github.com/sartorproj/revcast/diagnostics"
	"github.com/sartorproj/revcast/prepare"
	"github.com/sartorproj/revcast/sarima"
	"github.com/sartorproj/revcast/stats"
	"github.com/sartorproj/revcast/timeseries"
)

// Stage names a pipeline step reported to the progress callback.
type Stage string

// Pipeline stages in execution order. StageSelecting only runs when the
// configured orders are invalid; StageBacktesting only when enabled.
const (
	StagePreparing    Stage = "preparing data"
	StageStationarity Stage = "checking stationarity"
	StageSelecting    Stage = "selecting order"
	StageFitting      Stage = "fitting model"
	StageForecasting  Stage = "forecasting"
	StageDiagnosing   Stage = "diagnosing"
	StageBacktesting  Stage = "backtesting"
)

// OrderSource tells where the fitted orders came from.
type OrderSource string

const (
	SourceConfigured OrderSource = "configured"
	SourceSelected   OrderSource = "selected"
	SourceFallback   OrderSource = "fallback"
)

// Option configures an Engine.
type Option func(*Engine)

// WithProgress registers fn to be called as each stage starts. fn runs on
// the goroutine calling Run.
func WithProgress(fn func(Stage)) Option {
	return func(e *Engine) { e.progress = fn }
}

// Engine runs the forecasting pipeline for one configuration. It holds no
// per-run state and may be shared between goroutines.
type Engine struct {
	cfg      *config.Settings
	logger   *zap.Logger
	progress func(Stage)
}

// New creates an Engine. A nil logger disables logging.
func New(cfg *config.Settings, logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result collects every artefact of a run.
type Result struct {
	RunID string

	Prepared     *prepare.Result
	Validation   *prepare.ValidationReport
	Stationarity *stats.StationarityReport

	Order       sarima.Order
	Seasonal    sarima.SeasonalOrder
	OrderSource OrderSource
	// OrderErr explains why the configured orders were replaced.
	OrderErr  error
	Selection *autoarima.Result

	Model       *sarima.Fitted
	Forecast    *sarima.ForecastResult
	Diagnostics *diagnostics.Report

	// Backtest is nil when disabled or failed; BacktestErr holds the
	// failure, which does not invalidate the forecast.
	Backtest    *backtest.Result
	BacktestErr error
}

// Run prepares raw, fits the configured model, falling back to the order
// search when the configured orders are invalid, and forecasts
// DefaultForecastDays ahead. The context is checked between stages.
func (e *Engine) Run(ctx context.Context, raw *timeseries.Series) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := e.logger.With(zap.String("run_id", res.RunID))
	fc := e.cfg.Forecast

	err := e.stage(ctx, log, StagePreparing, func() error {
		res.Validation = prepare.Validate(raw, e.cfg.Prepare)
		if !res.Validation.OK() {
			log.Warn("data validation warnings",
				zap.Strings("failed", res.Validation.Failed()),
				zap.Int("passed", res.Validation.Passed()),
				zap.Int("total", res.Validation.Total()))
		}
		prepared, err := prepare.Prepare(raw, e.cfg.Prepare)
		if err != nil {
			return err
		}
		res.Prepared = prepared
		log.Info("data prepared",
			zap.Int("observations", prepared.Series.Len()),
			zap.Int("capped_outliers", prepared.CappedCount),
			zap.Float64("outlier_threshold", prepared.OutlierThreshold))
		return nil
	})
	if err != nil {
		return nil, err
	}
	series := res.Prepared.Series

	err = e.stage(ctx, log, StageStationarity, func() error {
		res.Stationarity = stats.AnalyzeStationarity(series, fc.SeasonalPeriod)
		log.Info("stationarity",
			zap.Bool("adf_stationary", res.Stationarity.ADFStationary),
			zap.Bool("kpss_stationary", res.Stationarity.KPSSStationary),
			zap.Int("suggested_d", res.Stationarity.SuggestedD),
			zap.Int("suggested_seasonal_d", res.Stationarity.SuggestedSeasonalD))
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.Order, res.Seasonal, res.OrderErr = ResolveOrders(fc.SarimaOrder, fc.SeasonalOrder)
	res.OrderSource = SourceConfigured
	if res.OrderErr != nil {
		log.Warn("configured orders are invalid, searching", zap.Error(res.OrderErr))
		err = e.stage(ctx, log, StageSelecting, func() error {
			sel, err := autoarima.SelectOrder(ctx, series, e.selectionConfig(log))
			if err != nil {
				return err
			}
			res.Selection = sel
			res.Order = sel.Order
			res.Seasonal = sarima.SeasonalOrder{P: 1, D: 1, Q: 1, S: fc.SeasonalPeriod}
			res.OrderSource = SourceSelected
			if !sel.Converged {
				res.OrderSource = SourceFallback
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	err = e.stage(ctx, log, StageFitting, func() error {
		m, err := sarima.New(res.Order, res.Seasonal, e.estimatorOptions()...).Fit(series)
		if err != nil {
			return err
		}
		res.Model = m
		log.Info("model fitted",
			zap.Stringer("order", res.Order),
			zap.Stringer("seasonal_order", res.Seasonal),
			zap.String("source", string(res.OrderSource)),
			zap.Float64("aic", m.AIC()),
			zap.Float64("bic", m.BIC()))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, log, StageForecasting, func() error {
		f, err := res.Model.Forecast(fc.DefaultForecastDays, fc.ConfidenceInterval)
		res.Forecast = f
		return err
	})
	if err != nil {
		return nil, err
	}

	err = e.stage(ctx, log, StageDiagnosing, func() error {
		d, err := diagnostics.Compute(res.Model)
		res.Diagnostics = d
		return err
	})
	if err != nil {
		return nil, err
	}

	if fc.Backtest {
		err = e.stage(ctx, log, StageBacktesting, func() error {
			bt, err := e.Backtest(raw, fc.DefaultBacktestDays, res.Order, res.Seasonal, log)
			if err != nil {
				res.BacktestErr = err
				log.Warn("backtest failed", zap.Error(err))
				return nil
			}
			res.Backtest = bt
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Backtest runs a holdout evaluation of the given orders with the engine's
// estimator and preparation settings.
func (e *Engine) Backtest(raw *timeseries.Series, testDays int, order sarima.Order, seasonal sarima.SeasonalOrder, log *zap.Logger) (*backtest.Result, error) {
	if log == nil {
		log = e.logger
	}
	return backtest.Run(raw, testDays, backtest.Options{
		Order:      order,
		Seasonal:   seasonal,
		Confidence: e.cfg.Forecast.ConfidenceInterval,
		Estimator:  e.estimatorOptions(),
		Prepare:    e.cfg.Prepare,
		MinTrain:   backtest.DefaultMinTrain,
		Logger:     log,
	})
}

func (e *Engine) stage(ctx context.Context, log *zap.Logger, s Stage, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.progress != nil {
		e.progress(s)
	}
	start := time.Now()
	err := fn()
	fields := []zap.Field{zap.String("stage", string(s)), zap.Duration("duration", time.Since(start))}
	if err != nil {
		log.Error("stage failed", append(fields, zap.Error(err))...)
		return err
	}
	log.Debug("stage completed", fields...)
	return nil
}

func (e *Engine) estimatorOptions() []sarima.Option {
	var opts []sarima.Option
	if n := e.cfg.Forecast.MaxIterations; n > 0 {
		opts = append(opts, sarima.WithMaxIterations(n))
	}
	if n := e.cfg.Forecast.MinObservations; n > 0 {
		opts = append(opts, sarima.WithMinObservations(n))
	}
	return opts
}

func (e *Engine) selectionConfig(log *zap.Logger) *autoarima.Config {
	sc := autoarima.DefaultConfig()
	sc.MaxP = e.cfg.Selection.MaxP
	sc.MaxD = e.cfg.Selection.MaxD
	sc.MaxQ = e.cfg.Selection.MaxQ
	sc.Workers = e.cfg.Selection.Workers
	sc.Estimator = e.estimatorOptions()
	sc.Logger = log
	return sc
}

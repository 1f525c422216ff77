package backtest

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/prepare"
	"github.com/sartorproj/revcast/sarima"
	"github.com/sartorproj/revcast/timeseries"
)

const (
	// DaysPerMonth converts a window given in months to days.
	DaysPerMonth = 30
	// DefaultMinTrain is the smallest accepted training window.
	DefaultMinTrain = 30

	mapeEpsilon = 1e-8
)

// WindowFromMonths returns the holdout length for a window of months.
func WindowFromMonths(months int) int {
	return months * DaysPerMonth
}

// Options configures a backtest run.
type Options struct {
	Order      sarima.Order
	Seasonal   sarima.SeasonalOrder
	Confidence float64
	Estimator  []sarima.Option
	Prepare    prepare.Options
	MinTrain   int
	Logger     *zap.Logger
}

// DefaultOptions returns SARIMA(1,1,1)(1,1,1,7) at 95% confidence.
func DefaultOptions() Options {
	return Options{
		Order:      sarima.Order{P: 1, D: 1, Q: 1},
		Seasonal:   sarima.SeasonalOrder{P: 1, D: 1, Q: 1, S: 7},
		Confidence: sarima.DefaultConfidence,
		Prepare:    prepare.DefaultOptions(),
		MinTrain:   DefaultMinTrain,
	}
}

// Metrics are accuracy measures over the aligned holdout pairs. MAPE is a
// percentage.
type Metrics struct {
	MAE   float64 `json:"mae" yaml:"mae"`
	MSE   float64 `json:"mse" yaml:"mse"`
	RMSE  float64 `json:"rmse" yaml:"rmse"`
	MAPE  float64 `json:"mape" yaml:"mape"`
	Pairs int     `json:"pairs" yaml:"pairs"`
}

// Result describes one holdout evaluation.
type Result struct {
	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
	TrainSize  int
	TestSize   int

	Order    sarima.Order
	Seasonal sarima.SeasonalOrder
	Forecast *sarima.ForecastResult
	Actual   *timeseries.Series
	Metrics  Metrics
	// Period is the holdout range as "YYYY-MM-DD to YYYY-MM-DD".
	Period string
}

// Run withholds the last testDays observations of series, fits a fresh model
// on the rest and scores its forecast of the withheld days. The series is
// prepared first. Every failure is classified as fault.ErrBacktest and keeps
// its cause.
func Run(series *timeseries.Series, testDays int, opts Options) (*Result, error) {
	const op = "backtest.Run"

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	minTrain := opts.MinTrain
	if minTrain <= 0 {
		minTrain = DefaultMinTrain
	}
	if testDays < 1 {
		return nil, fault.Backtest(op, "test window must be positive, got %d days", testDays)
	}

	prepared, err := prepare.Prepare(series, opts.Prepare)
	if err != nil {
		return nil, fault.Wrap(fault.ErrBacktest, op, err, "prepare series")
	}
	data := prepared.Series

	trainSize := data.Len() - testDays
	if trainSize < minTrain {
		return nil, fault.Backtest(op, "insufficient training data: %d days, need at least %d",
			max(trainSize, 0), minTrain)
	}
	train := data.Slice(0, trainSize)
	test := data.Slice(trainSize, data.Len())

	logger.Info("backtesting",
		zap.Int("train_days", train.Len()),
		zap.Int("test_days", test.Len()),
		zap.Stringer("order", opts.Order),
		zap.Stringer("seasonal_order", opts.Seasonal),
	)

	fitted, err := sarima.New(opts.Order, opts.Seasonal, opts.Estimator...).Fit(train)
	if err != nil {
		return nil, fault.Wrap(fault.ErrBacktest, op, err, "fit on training window")
	}
	fc, err := fitted.Forecast(test.Len(), opts.Confidence)
	if err != nil {
		return nil, fault.Wrap(fault.ErrBacktest, op, err, "forecast holdout")
	}

	actual, predicted := align(test, fc)
	if len(actual) == 0 {
		return nil, fault.Backtest(op, "no valid data points in the test window")
	}
	metrics := Score(actual, predicted)

	res := &Result{
		TrainStart: train.FirstDate(),
		TrainEnd:   train.LastDate(),
		TestStart:  test.FirstDate(),
		TestEnd:    test.LastDate(),
		TrainSize:  train.Len(),
		TestSize:   test.Len(),
		Order:      opts.Order,
		Seasonal:   opts.Seasonal,
		Forecast:   fc,
		Actual:     test,
		Metrics:    metrics,
		Period:     Period(test.FirstDate(), test.LastDate()),
	}
	logger.Info("backtest completed",
		zap.String("period", res.Period),
		zap.Float64("rmse", metrics.RMSE),
		zap.Float64("mae", metrics.MAE),
		zap.Float64("mape", metrics.MAPE),
	)
	return res, nil
}

// align pairs holdout actuals with forecasts by date, dropping pairs where
// either side is undefined.
func align(test *timeseries.Series, fc *sarima.ForecastResult) (actual, predicted []float64) {
	for i, d := range test.Timestamps {
		p, ok := fc.At(d)
		if !ok {
			continue
		}
		a := test.Values[i]
		if math.IsNaN(a) || math.IsNaN(p.Mean) {
			continue
		}
		actual = append(actual, a)
		predicted = append(predicted, p.Mean)
	}
	return actual, predicted
}

// Score computes MAE, MSE, RMSE and MAPE = mean(|a-f| / (|a| + 1e-8)) * 100.
// Both slices must have the same non-zero length.
func Score(actual, predicted []float64) Metrics {
	n := float64(len(actual))
	errs := make([]float64, len(actual))
	floats.SubTo(errs, actual, predicted)

	var abs, sq, pct float64
	for i, e := range errs {
		abs += math.Abs(e)
		sq += e * e
		pct += math.Abs(e) / (math.Abs(actual[i]) + mapeEpsilon)
	}
	mse := sq / n
	return Metrics{
		MAE:   abs / n,
		MSE:   mse,
		RMSE:  math.Sqrt(mse),
		MAPE:  pct / n * 100,
		Pairs: len(actual),
	}
}

// Period formats a date range as "YYYY-MM-DD to YYYY-MM-DD".
func Period(start, end time.Time) string {
	return fmt.Sprintf("%s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))
}

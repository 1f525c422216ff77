package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/revcast/backtest"
	"github.com/sartorproj/revcast/diagnostics"
	"github.com/sartorproj/revcast/engine"
	"github.com/sartorproj/revcast/sarima"
)

type forecastFlags struct {
	days          int
	confidence    float64
	order         string
	seasonalOrder string
	backtest      bool
	backtestDays  int
}

type pointView struct {
	Date   string  `json:"date" yaml:"date"`
	Mean   float64 `json:"forecast" yaml:"forecast"`
	Lower  float64 `json:"lower_bound" yaml:"lower_bound"`
	Upper  float64 `json:"upper_bound" yaml:"upper_bound"`
	StdErr float64 `json:"std_err" yaml:"std_err"`
}

type diagnosticsView struct {
	AIC            *float64                `json:"aic" yaml:"aic"`
	BIC            *float64                `json:"bic" yaml:"bic"`
	LogLikelihood  *float64                `json:"log_likelihood" yaml:"log_likelihood"`
	ResidualMean   *float64                `json:"residual_mean" yaml:"residual_mean"`
	ResidualStd    *float64                `json:"residual_std" yaml:"residual_std"`
	LjungBoxPValue *float64                `json:"ljung_box_p_value" yaml:"ljung_box_p_value"`
	DurbinWatson   *float64                `json:"durbin_watson" yaml:"durbin_watson"`
	Order          []int                   `json:"order" yaml:"order"`
	SeasonalOrder  []int                   `json:"seasonal_order" yaml:"seasonal_order"`
	Parameters     []diagnostics.Parameter `json:"parameters" yaml:"parameters"`
}

type backtestView struct {
	TrainStart string           `json:"train_start" yaml:"train_start"`
	TrainEnd   string           `json:"train_end" yaml:"train_end"`
	TestPeriod string           `json:"test_period" yaml:"test_period"`
	TrainSize  int              `json:"train_size" yaml:"train_size"`
	TestSize   int              `json:"test_size" yaml:"test_size"`
	Metrics    backtest.Metrics `json:"metrics" yaml:"metrics"`
	Forecast   []pointView      `json:"forecast" yaml:"forecast"`
}

type forecastView struct {
	RunID          string           `json:"run_id" yaml:"run_id"`
	Order          []int            `json:"order" yaml:"order"`
	SeasonalOrder  []int            `json:"seasonal_order" yaml:"seasonal_order"`
	OrderSource    string           `json:"order_source" yaml:"order_source"`
	CappedOutliers int              `json:"capped_outliers" yaml:"capped_outliers"`
	Confidence     float64          `json:"confidence" yaml:"confidence"`
	Forecast       []pointView      `json:"forecast" yaml:"forecast"`
	Diagnostics    *diagnosticsView `json:"diagnostics" yaml:"diagnostics"`
	Backtest       *backtestView    `json:"backtest,omitempty" yaml:"backtest,omitempty"`
	BacktestError  string           `json:"backtest_error,omitempty" yaml:"backtest_error,omitempty"`
}

func newForecastCmd(a *app) *cobra.Command {
	f := &forecastFlags{}
	cmd := &cobra.Command{
		Use:   "forecast <csv>",
		Short: "Fit the configured model and forecast future revenue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.settings
			fc := &cfg.Forecast
			flags := cmd.Flags()
			if flags.Changed("days") {
				fc.DefaultForecastDays = f.days
			}
			if flags.Changed("confidence") {
				fc.ConfidenceInterval = f.confidence
			}
			if flags.Changed("order") {
				fc.SarimaOrder = f.order
			}
			if flags.Changed("seasonal-order") {
				fc.SeasonalOrder = f.seasonalOrder
			}
			if flags.Changed("backtest") {
				fc.Backtest = f.backtest
			}
			if flags.Changed("backtest-days") {
				fc.DefaultBacktestDays = f.backtestDays
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			raw, err := a.load(args[0])
			if err != nil {
				return err
			}
			e := engine.New(&cfg, a.logger, engine.WithProgress(func(s engine.Stage) {
				a.out.infof("%s...", s)
			}))
			res, err := e.Run(cmd.Context(), raw)
			if err != nil {
				return err
			}
			if res.OrderErr != nil {
				a.out.warnf("configured orders rejected (%v); using %s%s", res.OrderErr, res.Order, res.Seasonal)
			}
			if res.BacktestErr != nil {
				a.out.warnf("backtest failed: %v", res.BacktestErr)
			}
			return a.out.emit(newForecastView(res), func(tw *tabwriter.Writer) {
				printForecast(a.out, tw, res)
			})
		},
	}
	cmd.Flags().IntVarP(&f.days, "days", "d", 0, "Forecast horizon in days (default from config)")
	cmd.Flags().Float64Var(&f.confidence, "confidence", 0, "Confidence level in (0, 1) (default from config)")
	cmd.Flags().StringVar(&f.order, "order", "", "Non-seasonal order p,d,q")
	cmd.Flags().StringVar(&f.seasonalOrder, "seasonal-order", "", "Seasonal order P,D,Q,s")
	cmd.Flags().BoolVar(&f.backtest, "backtest", false, "Also backtest the model on the most recent days")
	cmd.Flags().IntVar(&f.backtestDays, "backtest-days", 0, "Backtest window in days (default from config)")
	return cmd
}

func newForecastView(res *engine.Result) *forecastView {
	v := &forecastView{
		RunID:          res.RunID,
		Order:          res.Order.Slice(),
		SeasonalOrder:  res.Seasonal.Slice(),
		OrderSource:    string(res.OrderSource),
		CappedOutliers: res.Prepared.CappedCount,
		Confidence:     res.Forecast.Confidence,
		Forecast:       points(res.Forecast),
		Diagnostics:    newDiagnosticsView(res.Diagnostics),
	}
	if res.Backtest != nil {
		v.Backtest = newBacktestView(res.Backtest)
	}
	if res.BacktestErr != nil {
		v.BacktestError = res.BacktestErr.Error()
	}
	return v
}

func newDiagnosticsView(d *diagnostics.Report) *diagnosticsView {
	return &diagnosticsView{
		AIC:            num(d.AIC),
		BIC:            num(d.BIC),
		LogLikelihood:  num(d.LogLikelihood),
		ResidualMean:   num(d.ResidualMean),
		ResidualStd:    num(d.ResidualStd),
		LjungBoxPValue: num(d.LjungBoxPValue),
		DurbinWatson:   num(d.DurbinWatson),
		Order:          d.Order.Slice(),
		SeasonalOrder:  d.Seasonal.Slice(),
		Parameters:     d.Parameters,
	}
}

func newBacktestView(b *backtest.Result) *backtestView {
	return &backtestView{
		TrainStart: b.TrainStart.Format(time.DateOnly),
		TrainEnd:   b.TrainEnd.Format(time.DateOnly),
		TestPeriod: b.Period,
		TrainSize:  b.TrainSize,
		TestSize:   b.TestSize,
		Metrics:    b.Metrics,
		Forecast:   points(b.Forecast),
	}
}

func points(fc *sarima.ForecastResult) []pointView {
	out := make([]pointView, fc.Len())
	for i, p := range fc.Points {
		out[i] = pointView{
			Date:   p.Date.Format(time.DateOnly),
			Mean:   p.Mean,
			Lower:  p.Lower,
			Upper:  p.Upper,
			StdErr: p.StdErr,
		}
	}
	return out
}

func printForecast(p *printer, tw *tabwriter.Writer, res *engine.Result) {
	p.section(tw, fmt.Sprintf("Model SARIMA%s%s (%s)", res.Order, res.Seasonal, res.OrderSource))
	printDiagnostics(tw, res.Diagnostics)

	p.section(tw, fmt.Sprintf("Forecast (%d days, %.0f%% interval)", res.Forecast.Len(), res.Forecast.Confidence*100))
	printPoints(tw, res.Forecast)

	if res.Backtest != nil {
		p.section(tw, "Backtest "+res.Backtest.Period)
		printMetrics(tw, res.Backtest)
	}
}

func printDiagnostics(tw *tabwriter.Writer, d *diagnostics.Report) {
	fmt.Fprintf(tw, "AIC\t%s\n", cell(d.AIC))
	fmt.Fprintf(tw, "BIC\t%s\n", cell(d.BIC))
	fmt.Fprintf(tw, "Log-likelihood\t%s\n", cell(d.LogLikelihood))
	fmt.Fprintf(tw, "Residual mean\t%s\n", cell(d.ResidualMean))
	fmt.Fprintf(tw, "Residual std\t%s\n", cell(d.ResidualStd))
	fmt.Fprintf(tw, "Ljung-Box p (lag %d)\t%.4f\n", diagnostics.LjungBoxLags, d.LjungBoxPValue)
	fmt.Fprintf(tw, "Durbin-Watson\t%.3f\n", d.DurbinWatson)
	for _, prm := range d.Parameters {
		fmt.Fprintf(tw, "%s\t%.4f\n", prm.Name, prm.Value)
	}
}

func printPoints(tw *tabwriter.Writer, fc *sarima.ForecastResult) {
	fmt.Fprintln(tw, "DATE\tFORECAST\tLOWER\tUPPER")
	for _, pt := range fc.Points {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\n", pt.Date.Format(time.DateOnly), pt.Mean, pt.Lower, pt.Upper)
	}
}

func printMetrics(tw *tabwriter.Writer, b *backtest.Result) {
	fmt.Fprintf(tw, "Training\t%s to %s (%d days)\n",
		b.TrainStart.Format(time.DateOnly), b.TrainEnd.Format(time.DateOnly), b.TrainSize)
	fmt.Fprintf(tw, "Test\t%s (%d days)\n", b.Period, b.TestSize)
	fmt.Fprintf(tw, "MAE\t%.2f\n", b.Metrics.MAE)
	fmt.Fprintf(tw, "MSE\t%.2f\n", b.Metrics.MSE)
	fmt.Fprintf(tw, "RMSE\t%.2f\n", b.Metrics.RMSE)
	fmt.Fprintf(tw, "MAPE\t%.2f%%\n", b.Metrics.MAPE)
}

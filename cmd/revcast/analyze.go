package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/revcast/autoarima"
	"github.com/sartorproj/revcast/stats"
)

type candidateView struct {
	Order []int    `json:"order" yaml:"order"`
	AIC   *float64 `json:"aic" yaml:"aic"`
	BIC   *float64 `json:"bic" yaml:"bic"`
	Error string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type selectionView struct {
	Order      []int           `json:"order" yaml:"order"`
	AIC        *float64        `json:"aic" yaml:"aic"`
	Converged  bool            `json:"converged" yaml:"converged"`
	Evaluated  int             `json:"models_evaluated" yaml:"models_evaluated"`
	Failed     int             `json:"models_failed" yaml:"models_failed"`
	Candidates []candidateView `json:"candidates" yaml:"candidates"`
}

func newSelectCmd(a *app) *cobra.Command {
	var maxP, maxD, maxQ int
	cmd := &cobra.Command{
		Use:   "select <csv>",
		Short: "Search the (p,d,q) grid for the lowest-AIC ARIMA order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prepared, err := a.loadPrepared(args[0])
			if err != nil {
				return err
			}
			sc := autoarima.DefaultConfig()
			sc.MaxP, sc.MaxD, sc.MaxQ = a.settings.Selection.MaxP, a.settings.Selection.MaxD, a.settings.Selection.MaxQ
			sc.Workers = a.settings.Selection.Workers
			sc.Logger = a.logger
			flags := cmd.Flags()
			if flags.Changed("max-p") {
				sc.MaxP = maxP
			}
			if flags.Changed("max-d") {
				sc.MaxD = maxD
			}
			if flags.Changed("max-q") {
				sc.MaxQ = maxQ
			}

			res, err := autoarima.SelectOrder(cmd.Context(), prepared.Series, sc)
			if err != nil {
				return err
			}
			if !res.Converged {
				a.out.warnf("no candidate converged; falling back to ARIMA%s", res.Order)
			}

			view := &selectionView{
				Order:     res.Order.Slice(),
				AIC:       num(res.AIC),
				Converged: res.Converged,
				Evaluated: res.ModelsEvaluated,
				Failed:    res.ModelsFailed,
			}
			for _, c := range res.Candidates {
				cv := candidateView{Order: c.Order.Slice(), AIC: num(c.AIC), BIC: num(c.BIC)}
				if c.Err != nil {
					cv.Error = c.Err.Error()
				}
				view.Candidates = append(view.Candidates, cv)
			}
			return a.out.emit(view, func(tw *tabwriter.Writer) {
				a.out.section(tw, fmt.Sprintf("Selected ARIMA%s (%d fitted, %d failed)", res.Order, res.ModelsEvaluated, res.ModelsFailed))
				fmt.Fprintln(tw, "ORDER\tAIC\tBIC\tSTATUS")
				for _, c := range res.Candidates {
					status := "ok"
					if c.Err != nil {
						status = "failed"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Order, cell(c.AIC), cell(c.BIC), status)
				}
			})
		},
	}
	cmd.Flags().IntVar(&maxP, "max-p", 0, "Maximum AR order (default from config)")
	cmd.Flags().IntVar(&maxD, "max-d", 0, "Maximum differencing order (default from config)")
	cmd.Flags().IntVar(&maxQ, "max-q", 0, "Maximum MA order (default from config)")
	return cmd
}

type testView struct {
	Statistic *float64           `json:"statistic" yaml:"statistic"`
	PValue    *float64           `json:"p_value" yaml:"p_value"`
	Lags      int                `json:"lags" yaml:"lags"`
	Critical  map[string]float64 `json:"critical_values" yaml:"critical_values"`
}

type stationarityView struct {
	ADFStationary      bool      `json:"adf_stationary" yaml:"adf_stationary"`
	KPSSStationary     bool      `json:"kpss_stationary" yaml:"kpss_stationary"`
	IsStationary       bool      `json:"is_stationary" yaml:"is_stationary"`
	SuggestedD         int       `json:"suggested_d" yaml:"suggested_d"`
	SuggestedSeasonalD int       `json:"suggested_seasonal_d" yaml:"suggested_seasonal_d"`
	ADF                *testView `json:"adf,omitempty" yaml:"adf,omitempty"`
	KPSS               *testView `json:"kpss,omitempty" yaml:"kpss,omitempty"`
}

func newStationarityCmd(a *app) *cobra.Command {
	var period int
	cmd := &cobra.Command{
		Use:   "stationarity <csv>",
		Short: "Run the ADF and KPSS tests on the prepared series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prepared, err := a.loadPrepared(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("period") {
				period = a.settings.Forecast.SeasonalPeriod
			}
			r := stats.AnalyzeStationarity(prepared.Series, period)
			view := &stationarityView{
				ADFStationary:      r.ADFStationary,
				KPSSStationary:     r.KPSSStationary,
				IsStationary:       r.IsStationary,
				SuggestedD:         r.SuggestedD,
				SuggestedSeasonalD: r.SuggestedSeasonalD,
			}
			if r.ADF != nil {
				view.ADF = &testView{Statistic: num(r.ADF.Statistic), PValue: num(r.ADF.PValue), Lags: r.ADF.Lags, Critical: r.ADF.CriticalVals}
			}
			if r.KPSS != nil {
				view.KPSS = &testView{Statistic: num(r.KPSS.Statistic), PValue: num(r.KPSS.PValue), Lags: r.KPSS.Lags, Critical: r.KPSS.CriticalVals}
			}
			return a.out.emit(view, func(tw *tabwriter.Writer) {
				a.out.section(tw, "Stationarity")
				fmt.Fprintln(tw, "TEST\tSTATISTIC\tP-VALUE\tLAGS\tSTATIONARY")
				if r.ADF != nil {
					fmt.Fprintf(tw, "ADF\t%.4f\t%.4f\t%d\t%t\n", r.ADF.Statistic, r.ADF.PValue, r.ADF.Lags, r.ADFStationary)
				} else {
					fmt.Fprintln(tw, "ADF\t-\t-\t-\tfalse")
				}
				if r.KPSS != nil {
					fmt.Fprintf(tw, "KPSS\t%.4f\t%.4f\t%d\t%t\n", r.KPSS.Statistic, r.KPSS.PValue, r.KPSS.Lags, r.KPSSStationary)
				} else {
					fmt.Fprintln(tw, "KPSS\t-\t-\t-\tfalse")
				}
				fmt.Fprintf(tw, "\nStationary\t%t\n", r.IsStationary)
				fmt.Fprintf(tw, "Suggested d\t%d\n", r.SuggestedD)
				fmt.Fprintf(tw, "Suggested D\t%d\n", r.SuggestedSeasonalD)
			})
		},
	}
	cmd.Flags().IntVar(&period, "period", 7, "Seasonal period for the seasonal differencing advice")
	return cmd
}

type componentView struct {
	Date     string   `json:"date" yaml:"date"`
	Original float64  `json:"original" yaml:"original"`
	Trend    *float64 `json:"trend" yaml:"trend"`
	Seasonal *float64 `json:"seasonal" yaml:"seasonal"`
	Residual *float64 `json:"residual" yaml:"residual"`
}

func newDecomposeCmd(a *app) *cobra.Command {
	var (
		period int
		model  string
	)
	cmd := &cobra.Command{
		Use:   "decompose <csv>",
		Short: "Split the prepared series into trend, seasonal and residual parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prepared, err := a.loadPrepared(args[0])
			if err != nil {
				return err
			}
			d := stats.Decompose(prepared.Series, period, model)
			if d == nil {
				return fmt.Errorf("decomposition needs at least %d observations, got %d", 2*period, prepared.Series.Len())
			}
			rows := make([]componentView, d.Original.Len())
			for i := range rows {
				rows[i] = componentView{
					Date:     d.Original.Timestamps[i].Format(time.DateOnly),
					Original: d.Original.Values[i],
					Trend:    num(d.Trend.Values[i]),
					Seasonal: num(d.Seasonal.Values[i]),
					Residual: num(d.Residual.Values[i]),
				}
			}
			return a.out.emit(rows, func(tw *tabwriter.Writer) {
				a.out.section(tw, fmt.Sprintf("Decomposition (%s, period %d)", d.Type, d.Period))
				fmt.Fprintln(tw, "DATE\tORIGINAL\tTREND\tSEASONAL\tRESIDUAL")
				for i, r := range rows {
					fmt.Fprintf(tw, "%s\t%.2f\t%s\t%s\t%s\n", r.Date, r.Original,
						cell(d.Trend.Values[i]), cell(d.Seasonal.Values[i]), cell(d.Residual.Values[i]))
				}
			})
		},
	}
	cmd.Flags().IntVar(&period, "period", 7, "Seasonal period in days")
	cmd.Flags().StringVar(&model, "type", "additive", "Decomposition type (additive, multiplicative)")
	return cmd
}

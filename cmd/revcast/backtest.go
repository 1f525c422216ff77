package main

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/revcast/backtest"
	"github.com/sartorproj/revcast/engine"
)

func newBacktestCmd(a *app) *cobra.Command {
	var (
		months        int
		days          int
		order         string
		seasonalOrder string
	)
	cmd := &cobra.Command{
		Use:   "backtest <csv>",
		Short: "Withhold the most recent days, refit and score the forecast",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("months") && flags.Changed("days") {
				return errors.New("--months and --days are mutually exclusive")
			}
			window := a.settings.Forecast.DefaultBacktestDays
			switch {
			case flags.Changed("months"):
				window = backtest.WindowFromMonths(months)
			case flags.Changed("days"):
				window = days
			}

			rawOrder, rawSeasonal := a.settings.Forecast.SarimaOrder, a.settings.Forecast.SeasonalOrder
			if flags.Changed("order") {
				rawOrder = order
			}
			if flags.Changed("seasonal-order") {
				rawSeasonal = seasonalOrder
			}
			o, s, err := engine.ResolveOrders(rawOrder, rawSeasonal)
			if err != nil {
				return err
			}

			raw, err := a.load(args[0])
			if err != nil {
				return err
			}
			a.out.infof("backtesting SARIMA%s%s on the last %d days...", o, s, window)
			res, err := engine.New(a.settings, a.logger).Backtest(raw, window, o, s, nil)
			if err != nil {
				return err
			}
			return a.out.emit(newBacktestView(res), func(tw *tabwriter.Writer) {
				a.out.section(tw, fmt.Sprintf("Backtest SARIMA%s%s", o, s))
				printMetrics(tw, res)
				a.out.section(tw, "Holdout forecast")
				fmt.Fprintln(tw, "DATE\tACTUAL\tFORECAST\tLOWER\tUPPER")
				for i, p := range res.Forecast.Points {
					actual := "-"
					if i < res.Actual.Len() {
						actual = cell(res.Actual.Values[i])
					}
					fmt.Fprintf(tw, "%s\t%s\t%.2f\t%.2f\t%.2f\n", p.Date.Format(time.DateOnly), actual, p.Mean, p.Lower, p.Upper)
				}
			})
		},
	}
	cmd.Flags().IntVar(&months, "months", 0, "Backtest window in months of 30 days")
	cmd.Flags().IntVar(&days, "days", 0, "Backtest window in days (default from config)")
	cmd.Flags().StringVar(&order, "order", "", "Non-seasonal order p,d,q")
	cmd.Flags().StringVar(&seasonalOrder, "seasonal-order", "", "Seasonal order P,D,Q,s")
	return cmd
}

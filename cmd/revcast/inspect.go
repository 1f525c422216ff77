package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sartorproj/revcast/prepare"
	"github.com/sartorproj/revcast/timeseries"
)

type inspectView struct {
	Validation *prepare.ValidationReport `json:"validation" yaml:"validation"`
	Summary    *prepare.Summary          `json:"summary" yaml:"summary"`
}

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <csv>",
		Short: "Report data-quality checks and summary statistics of the raw series",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			raw, err := a.load(args[0])
			if err != nil {
				return err
			}
			view := &inspectView{
				Validation: prepare.Validate(raw, a.settings.Prepare),
				Summary:    prepare.Summarize(raw),
			}
			return a.out.emit(view, func(tw *tabwriter.Writer) {
				v, s := view.Validation, view.Summary
				a.out.section(tw, fmt.Sprintf("Validation (%d/%d checks passed)", v.Passed(), v.Total()))
				for _, c := range v.Checks {
					mark := "PASS"
					if !c.Passed {
						mark = "FAIL"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", mark, c.Name, c.Detail)
				}
				a.out.section(tw, "Summary")
				fmt.Fprintf(tw, "Records\t%d\n", s.TotalRecords)
				fmt.Fprintf(tw, "Date range\t%s\n", s.DateRange())
				fmt.Fprintf(tw, "Total revenue\t%.2f\n", s.TotalRevenue)
				fmt.Fprintf(tw, "Mean / median\t%.2f / %.2f\n", s.MeanRevenue, s.MedianRevenue)
				fmt.Fprintf(tw, "Min / max\t%.2f / %.2f\n", s.MinRevenue, s.MaxRevenue)
				fmt.Fprintf(tw, "Std\t%.2f\n", s.StdRevenue)
				fmt.Fprintf(tw, "Zero days\t%d\n", s.ZeroRevenueDays)
				fmt.Fprintf(tw, "Duplicates\t%d\n", s.DuplicateDates)
				fmt.Fprintf(tw, "Missing values\t%d\n", s.MissingValues)
				fmt.Fprintf(tw, "Completeness\t%.1f%%\n", s.CompletenessPct)
			})
		},
	}
}

func newPrepareCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "prepare <csv>",
		Short: "Clean the series and write it as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			res, err := a.loadPrepared(args[0])
			if err != nil {
				return err
			}
			a.out.infof("%d days; %d duplicates dropped, %d nulls filled, %d negatives clipped, %d gaps filled, %d outliers capped at %.2f",
				res.Series.Len(), res.DuplicatesDropped, res.NullsFilled, res.NegativesClipped,
				res.FilledGaps, res.CappedCount, res.OutlierThreshold)
			return timeseries.WriteCSV(a.out.stdout, res.Series)
		},
	}
}

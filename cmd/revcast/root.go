package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/sartorproj/revcast/config"
	"github.com/sartorproj/revcast/prepare"
	"github.com/sartorproj/revcast/timeseries"
)

type globalFlags struct {
	ConfigFile  string
	LogLevel    string
	LogFormat   string
	Output      string
	DateColumn  string
	ValueColumn string
}

// app carries what every subcommand needs once the root pre-run has loaded
// configuration.
type app struct {
	flags    *globalFlags
	v        *viper.Viper
	settings *config.Settings
	logger   *zap.Logger
	out      *printer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{flags: &globalFlags{}}

	cmd := &cobra.Command{
		Use:   "revcast",
		Short: "Forecast daily revenue with SARIMA models",
		Long: `revcast cleans a daily revenue series, fits a seasonal ARIMA model by
exact maximum likelihood and forecasts it with confidence intervals.

Input is a CSV file with a date column and a revenue column.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd, stdout, stderr)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.flags.ConfigFile, "config", "c", "", "Path to configuration file (default: revcast.yaml search)")
	pf.StringVar(&a.flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&a.flags.LogFormat, "log-format", "", "Log format (console, json)")
	pf.StringVarP(&a.flags.Output, "output", "o", formatTable, "Output format (table, json, yaml)")
	pf.StringVar(&a.flags.DateColumn, "date-column", "date", "CSV date column")
	pf.StringVar(&a.flags.ValueColumn, "value-column", "revenue", "CSV revenue column")

	cmd.AddCommand(
		newForecastCmd(a),
		newBacktestCmd(a),
		newSelectCmd(a),
		newStationarityCmd(a),
		newInspectCmd(a),
		newDecomposeCmd(a),
		newPrepareCmd(a),
	)
	return cmd
}

func (a *app) setup(cmd *cobra.Command, stdout, stderr io.Writer) error {
	switch a.flags.Output {
	case formatTable, formatJSON, formatYAML:
	default:
		return fmt.Errorf("invalid output format %q: must be table, json or yaml", a.flags.Output)
	}
	a.out = newPrinter(stdout, stderr, a.flags.Output)

	v, err := config.Load(a.flags.ConfigFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("log-level") {
		v.Set("logging.level", a.flags.LogLevel)
	}
	if cmd.Flags().Changed("log-format") {
		v.Set("logging.format", a.flags.LogFormat)
	}
	logger, err := config.NewLogger(v)
	if err != nil {
		return err
	}
	settings, err := config.Decode(v)
	if err != nil {
		return err
	}
	a.v, a.logger, a.settings = v, logger, settings
	return nil
}

func (a *app) load(path string) (*timeseries.Series, error) {
	opts := timeseries.DefaultCSVOptions()
	opts.DateColumn = a.flags.DateColumn
	opts.ValueColumn = a.flags.ValueColumn
	s, err := timeseries.LoadCSV(path, opts)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded series", zap.String("path", path), zap.Int("rows", s.Len()))
	return s, nil
}

func (a *app) loadPrepared(path string) (*prepare.Result, error) {
	raw, err := a.load(path)
	if err != nil {
		return nil, err
	}
	return prepare.Prepare(raw, a.settings.Prepare)
}

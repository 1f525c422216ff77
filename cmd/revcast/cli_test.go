package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/sartorproj/revcast/timeseries"
)

func writeCSV(t *testing.T, days int) string {
	t.Helper()
	rng := rand.New(rand.NewPCG(31, 4))
	profile := []float64{-40, -15, 0, 10, 25, 60, -40}
	var b strings.Builder
	b.WriteString("date,revenue\n")
	for i := 0; i < days; i++ {
		v := 1500 + profile[i%7] + 8*rng.NormFloat64()
		fmt.Fprintf(&b, "%s,%.2f\n", timeseries.Epoch.AddDate(0, 0, i).Format("2006-01-02"), v)
	}
	path := filepath.Join(t.TempDir(), "revenue.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(&stdout, &stderr)
	cmd.SetArgs(append(args, "--log-level", "error"))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestForecastJSON(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, 150)
	stdout, stderr, err := run(t, "forecast", path, "--days", "14",
		"--order", "1,1,0", "--seasonal-order", "0,1,1,7", "-o", "json")
	require.NoError(t, err, stderr)

	var view forecastView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, []int{1, 1, 0}, view.Order)
	assert.Equal(t, []int{0, 1, 1, 7}, view.SeasonalOrder)
	assert.Equal(t, "configured", view.OrderSource)
	require.Len(t, view.Forecast, 14)
	assert.Equal(t, "2000-05-30", view.Forecast[0].Date)
	for _, p := range view.Forecast {
		assert.LessOrEqual(t, p.Lower, p.Mean)
		assert.LessOrEqual(t, p.Mean, p.Upper)
	}
	require.NotNil(t, view.Diagnostics)
	assert.NotNil(t, view.Diagnostics.AIC)
	assert.Nil(t, view.Backtest)
	assert.Contains(t, stderr, "fitting model")
}

func TestForecastFallbackAndBacktestTable(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, 120)
	stdout, stderr, err := run(t, "forecast", path, "--days", "7",
		"--order", "1,x,1", "--backtest", "--backtest-days", "21")
	require.NoError(t, err, stderr)

	assert.Contains(t, stderr, "configured orders rejected")
	assert.Contains(t, stdout, "Model SARIMA")
	assert.Contains(t, stdout, "(1,1,1,7)")
	assert.Contains(t, stdout, "Backtest 2000-04-09 to 2000-04-29")
	assert.Contains(t, stdout, "RMSE")
}

func TestBacktestYAML(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, 120)
	stdout, stderr, err := run(t, "backtest", path, "--months", "1",
		"--order", "0,1,1", "--seasonal-order", "0,1,1,7", "-o", "yaml")
	require.NoError(t, err, stderr)

	var view map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, 90, view["train_size"])
	assert.Equal(t, 30, view["test_size"])
	assert.Equal(t, "2000-03-31 to 2000-04-29", view["test_period"])
	assert.Contains(t, view, "metrics")
}

func TestBacktestRejectsConflictingWindow(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "backtest", writeCSV(t, 60), "--months", "1", "--days", "10")
	assert.Error(t, err)
}

func TestSelectJSON(t *testing.T) {
	t.Parallel()

	stdout, stderr, err := run(t, "select", writeCSV(t, 90), "--max-p", "1", "--max-d", "1", "--max-q", "1", "-o", "json")
	require.NoError(t, err, stderr)

	var view selectionView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Len(t, view.Candidates, 8)
	assert.Len(t, view.Order, 3)
	assert.True(t, view.Converged)
}

func TestInspectAndStationarity(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, 60)

	stdout, stderr, err := run(t, "inspect", path)
	require.NoError(t, err, stderr)
	assert.Contains(t, stdout, "Validation (5/5 checks passed)")
	assert.Contains(t, stdout, "2000-01-01 to 2000-02-29")

	stdout, stderr, err = run(t, "stationarity", path, "-o", "json")
	require.NoError(t, err, stderr)
	var view stationarityView
	require.NoError(t, json.Unmarshal([]byte(stdout), &view))
	assert.Equal(t, view.ADFStationary && view.KPSSStationary, view.IsStationary)
}

func TestDecomposeAndPrepare(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, 28)

	stdout, stderr, err := run(t, "decompose", path, "-o", "json")
	require.NoError(t, err, stderr)
	var rows []componentView
	require.NoError(t, json.Unmarshal([]byte(stdout), &rows))
	require.Len(t, rows, 28)
	assert.Nil(t, rows[0].Trend)
	assert.NotNil(t, rows[10].Trend)

	stdout, stderr, err = run(t, "prepare", path)
	require.NoError(t, err, stderr)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Equal(t, "date,revenue", lines[0])
	assert.Len(t, lines, 29)
	assert.Contains(t, stderr, "outliers capped")
}

func TestInvalidInvocations(t *testing.T) {
	t.Parallel()

	path := writeCSV(t, 40)

	_, _, err := run(t, "inspect", path, "-o", "xml")
	assert.ErrorContains(t, err, "invalid output format")

	_, _, err = run(t, "forecast")
	assert.Error(t, err)

	_, _, err = run(t, "forecast", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, _, err = run(t, "forecast", path, "--confidence", "1.5")
	assert.ErrorContains(t, err, "confidence_interval")
}

package prepare

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/timeseries"
)

func day(i int) time.Time {
	return timeseries.Epoch.AddDate(0, 0, i)
}

func TestPrepareCleans(t *testing.T) {
	t.Parallel()

	raw, err := timeseries.NewWithTimestamps(
		[]time.Time{day(2), day(0), day(1), day(1), day(3).Add(15 * time.Hour)},
		[]float64{30, 10, math.NaN(), 99, -5},
	)
	require.NoError(t, err)
	raw.Name = "revenue"

	res, err := Prepare(raw, DefaultOptions())
	require.NoError(t, err)

	out := res.Series
	require.Equal(t, 4, out.Len())
	assert.True(t, out.Prepared)
	assert.True(t, out.IsDaily())
	assert.Equal(t, "revenue", out.Name)
	assert.Equal(t, []time.Time{day(0), day(1), day(2), day(3)}, out.Timestamps)
	assert.InDeltaSlice(t, []float64{10, 0, 30, 0}, out.Values, 2e-6)
	for _, v := range out.Values {
		assert.Greater(t, v, 0.0)
	}

	assert.Equal(t, 1, res.DuplicatesDropped)
	assert.Equal(t, 1, res.NullsFilled)
	assert.Equal(t, 1, res.NegativesClipped)
	assert.Zero(t, res.CappedCount)

	assert.True(t, math.IsNaN(raw.Values[2]), "input must not be modified")
}

func TestPrepareCapsOutliers(t *testing.T) {
	t.Parallel()

	values := make([]float64, 100)
	for i := range values {
		values[i] = 100
	}
	values[50] = 1_000_000
	res, err := Prepare(timeseries.New(values), DefaultOptions())
	require.NoError(t, err)

	threshold := 10 * (100 + 1e-6)
	assert.InDelta(t, threshold, res.OutlierThreshold, 1e-6)
	assert.Equal(t, 1, res.CappedCount)
	assert.InDelta(t, threshold, res.Series.Values[50], 1e-6)
	for _, v := range res.Series.Values {
		assert.LessOrEqual(t, v, res.OutlierThreshold)
	}
}

func TestPrepareIdempotent(t *testing.T) {
	t.Parallel()

	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(i%7) * 10
	}
	values[59] = 5000

	first, err := Prepare(timeseries.New(values), DefaultOptions())
	require.NoError(t, err)
	second, err := Prepare(first.Series, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, first.Series.Equal(second.Series))
	assert.NotSame(t, first.Series, second.Series)
	assert.Zero(t, second.CappedCount)
	assert.Zero(t, second.DuplicatesDropped)
}

func TestPrepareAfterCSVRoundTripOffsetsAgain(t *testing.T) {
	t.Parallel()

	values := make([]float64, 40)
	for i := range values {
		values[i] = float64(10 + i%5)
	}
	opts := DefaultOptions()
	first, err := Prepare(timeseries.New(values), opts)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, timeseries.WriteCSV(&buf, first.Series))
	reread, err := timeseries.ReadCSV(&buf, nil)
	require.NoError(t, err)
	assert.False(t, reread.Prepared)

	again, err := Prepare(reread, opts)
	require.NoError(t, err)
	for i, v := range again.Series.Values {
		assert.InDelta(t, first.Series.Values[i]+opts.StabilityOffset, v, 1e-12)
	}

	inMemory, err := Prepare(first.Series, opts)
	require.NoError(t, err)
	assert.Equal(t, first.Series.Values, inMemory.Series.Values)
}

func TestPrepareGaps(t *testing.T) {
	t.Parallel()

	raw, err := timeseries.NewWithTimestamps([]time.Time{day(0), day(1), day(4)}, []float64{1, 2, 3})
	require.NoError(t, err)

	_, err = Prepare(raw, DefaultOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, fault.ErrData)
	assert.Contains(t, err.Error(), "2 missing days")

	opts := DefaultOptions()
	opts.FillGaps = true
	res, err := Prepare(raw, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.FilledGaps)
	assert.Equal(t, 5, res.Series.Len())
	assert.InDeltaSlice(t, []float64{1, 2, 0, 0, 3}, res.Series.Values, 2e-6)
}

func TestPrepareRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		series *timeseries.Series
		msg    string
	}{
		{"nil", nil, "empty series"},
		{"empty", timeseries.New(nil), "empty series"},
		{"no values", &timeseries.Series{Timestamps: []time.Time{day(0)}}, "missing required value field"},
		{"infinite", timeseries.New([]float64{1, math.Inf(1)}), "infinite"},
		{"bad prepared", &timeseries.Series{Timestamps: []time.Time{day(0), day(1)}, Values: []float64{1, -1}, Prepared: true}, "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Prepare(tt.series, DefaultOptions())
			require.Error(t, err)
			assert.ErrorIs(t, err, fault.ErrData)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestQuantile(t *testing.T) {
	t.Parallel()

	values := []float64{5, 1, 4, 2, 3, math.NaN()}
	assert.InDelta(t, 4.8, Quantile(values, 0.95), 1e-12)
	assert.InDelta(t, 3, Quantile(values, 0.5), 1e-12)
	assert.Equal(t, 1.0, Quantile(values, 0))
	assert.Equal(t, 5.0, Quantile(values, 1))
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

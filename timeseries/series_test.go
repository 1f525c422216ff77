package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, 3, 4, 5}
	s := New(values)

	require.Equal(t, 5, s.Len())
	assert.Equal(t, values, s.Values)
	assert.Equal(t, Epoch, s.FirstDate())
	assert.Equal(t, Epoch.AddDate(0, 0, 4), s.LastDate())
	assert.True(t, s.IsDaily())
}

func TestNewDailyTruncatesToMidnight(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 2, 28, 17, 30, 0, 0, time.UTC)
	s := NewDaily(start, []float64{1, 2, 3})

	assert.Equal(t, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC), s.Timestamps[0])
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), s.Timestamps[1])
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), s.Timestamps[2])
}

func TestNewWithTimestampsLengthMismatch(t *testing.T) {
	t.Parallel()

	_, err := NewWithTimestamps([]time.Time{Epoch}, []float64{1, 2})
	assert.Error(t, err)
}

func TestIsDailyAndGaps(t *testing.T) {
	t.Parallel()

	ts := []time.Time{Epoch, Epoch.AddDate(0, 0, 1), Epoch.AddDate(0, 0, 4)}
	s, err := NewWithTimestamps(ts, []float64{1, 2, 3})
	require.NoError(t, err)

	assert.False(t, s.IsDaily())
	assert.Equal(t, 2, s.Gaps())
	assert.Equal(t, 0, New([]float64{1, 2, 3}).Gaps())
}

func TestMoments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		values []float64
		mean   float64
		median float64
	}{
		{"simple", []float64{1, 2, 3, 4, 5}, 3, 3},
		{"even", []float64{4, 1, 3, 2}, 2.5, 2.5},
		{"with nan", []float64{1, math.NaN(), 3}, 2, 2},
		{"empty", []float64{}, 0, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.values)
			assert.InDelta(t, tt.mean, s.Mean(), 1e-12)
			if math.IsNaN(tt.median) {
				assert.True(t, math.IsNaN(s.Median()))
			} else {
				assert.InDelta(t, tt.median, s.Median(), 1e-12)
			}
		})
	}

	s := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.InDelta(t, math.Sqrt(4.571428571428571), s.Std(), 1e-12)
}

func TestDifferencing(t *testing.T) {
	t.Parallel()

	s := New([]float64{1, 3, 6, 10, 15})

	d := s.Diff()
	assert.Equal(t, []float64{2, 3, 4, 5}, d.Values)
	assert.Equal(t, s.Timestamps[1], d.Timestamps[0])

	d2 := s.DiffN(2)
	assert.Equal(t, []float64{1, 1, 1}, d2.Values)

	assert.Equal(t, s.Values, s.DiffN(0).Values)

	weekly := New([]float64{1, 2, 3, 4, 5, 6, 7, 11, 12, 13, 14, 15, 16, 17})
	sd := weekly.SeasonalDiff(7)
	for _, v := range sd.Values {
		assert.Equal(t, 10.0, v)
	}

	assert.Equal(t, 0, New([]float64{1}).Diff().Len())
}

func TestSliceAndCopyAreIndependent(t *testing.T) {
	t.Parallel()

	s := New([]float64{1, 2, 3, 4, 5})
	s.Prepared = true

	sub := s.Slice(1, 3)
	require.Equal(t, []float64{2, 3}, sub.Values)
	assert.True(t, sub.Prepared)
	sub.Values[0] = 99
	assert.Equal(t, 2.0, s.Values[1])

	c := s.Copy()
	assert.True(t, c.Equal(s))
	c.Values[0] = 42
	assert.False(t, c.Equal(s))

	assert.Equal(t, 0, s.Slice(4, 2).Len())
	assert.Equal(t, 5, s.Slice(-3, 100).Len())
}

func TestEqualTreatsNaNAsEqual(t *testing.T) {
	t.Parallel()

	a := New([]float64{1, math.NaN()})
	b := New([]float64{1, math.NaN()})
	assert.True(t, a.Equal(b))
}

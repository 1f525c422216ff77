// Package timeseries provides the daily revenue series type and its CSV codec.
package timeseries

import (
	"errors"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Day is the sampling step of every series handled by this module.
const Day = 24 * time.Hour

// Epoch is the first date assigned by New.
var Epoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Series represents a daily time series. A NaN value marks a missing entry.
type Series struct {
	Timestamps []time.Time
	Values     []float64
	Name       string

	// Prepared is set by the preparer once the series is sorted, gap-free,
	// non-negative and offset. It is carried through Copy and Slice.
	Prepared bool
}

// New creates a daily series from values, dated consecutively from Epoch.
func New(values []float64) *Series {
	return NewDaily(Epoch, values)
}

// NewDaily creates a series whose first value falls on start and every
// following value one calendar day later.
func NewDaily(start time.Time, values []float64) *Series {
	start = Midnight(start)
	timestamps := make([]time.Time, len(values))
	for i := range timestamps {
		timestamps[i] = start.AddDate(0, 0, i)
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}
}

// NewWithTimestamps creates a series with explicit timestamps. The timestamps
// need not be sorted; the preparer takes care of ordering.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	if len(timestamps) != len(values) {
		return nil, errors.New("timestamps and values must have the same length")
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
	}, nil
}

// Midnight truncates t to the start of its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len returns the length of the series.
func (s *Series) Len() int {
	return len(s.Values)
}

// FirstDate returns the first timestamp, or the zero time for an empty series.
func (s *Series) FirstDate() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[0]
}

// LastDate returns the last timestamp, or the zero time for an empty series.
func (s *Series) LastDate() time.Time {
	if len(s.Timestamps) == 0 {
		return time.Time{}
	}
	return s.Timestamps[len(s.Timestamps)-1]
}

// IsDaily reports whether timestamps are strictly increasing calendar days
// with no gaps.
func (s *Series) IsDaily() bool {
	if len(s.Timestamps) != len(s.Values) {
		return false
	}
	for i := 1; i < len(s.Timestamps); i++ {
		if !Midnight(s.Timestamps[i-1]).AddDate(0, 0, 1).Equal(Midnight(s.Timestamps[i])) {
			return false
		}
	}
	return true
}

// Gaps returns the number of calendar days missing between the first and the
// last timestamp. The series must be sorted.
func (s *Series) Gaps() int {
	if len(s.Timestamps) < 2 {
		return 0
	}
	span := DaysBetween(s.FirstDate(), s.LastDate()) + 1
	return span - len(s.Timestamps)
}

// DaysBetween returns the number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Midnight(b).Sub(Midnight(a)).Hours() / 24))
}

// Mean calculates the arithmetic mean of the series, ignoring NaN entries.
func (s *Series) Mean() float64 {
	v := s.finite()
	if len(v) == 0 {
		return 0
	}
	return stat.Mean(v, nil)
}

// Std calculates the sample standard deviation, ignoring NaN entries.
func (s *Series) Std() float64 {
	v := s.finite()
	if len(v) < 2 {
		return 0
	}
	return stat.StdDev(v, nil)
}

// Median returns the median value of the series, ignoring NaN entries.
func (s *Series) Median() float64 {
	v := s.finite()
	if len(v) == 0 {
		return math.NaN()
	}
	sort.Float64s(v)
	n := len(v)
	if n%2 == 0 {
		return (v[n/2-1] + v[n/2]) / 2
	}
	return v[n/2]
}

func (s *Series) finite() []float64 {
	out := make([]float64, 0, len(s.Values))
	for _, v := range s.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.lagDiff(1, "_diff")
}

// DiffN applies first differencing n times.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 {
		return s.Copy()
	}
	out := s
	for i := 0; i < n; i++ {
		out = out.Diff()
	}
	return out
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	return s.lagDiff(m, "_seasonal_diff")
}

func (s *Series) lagDiff(lag int, suffix string) *Series {
	if lag <= 0 || len(s.Values) <= lag {
		return &Series{Name: s.Name + suffix}
	}
	values := make([]float64, len(s.Values)-lag)
	for i := lag; i < len(s.Values); i++ {
		values[i-lag] = s.Values[i] - s.Values[i-lag]
	}
	var timestamps []time.Time
	if len(s.Timestamps) == len(s.Values) {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[lag:])
	}
	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name + suffix,
	}
}

// Slice returns a copy of the series from start to end (exclusive).
func (s *Series) Slice(start, end int) *Series {
	start = max(start, 0)
	end = min(end, len(s.Values))
	if start >= end {
		return &Series{Name: s.Name, Prepared: s.Prepared}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if len(s.Timestamps) >= end {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Name:       s.Name,
		Prepared:   s.Prepared,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	return s.Slice(0, len(s.Values))
}

// Equal reports whether both series hold the same dates and values. NaN
// entries compare equal to each other.
func (s *Series) Equal(o *Series) bool {
	if s.Len() != o.Len() || len(s.Timestamps) != len(o.Timestamps) {
		return false
	}
	for i, v := range s.Values {
		w := o.Values[i]
		if v != w && !(math.IsNaN(v) && math.IsNaN(w)) {
			return false
		}
	}
	for i, t := range s.Timestamps {
		if !t.Equal(o.Timestamps[i]) {
			return false
		}
	}
	return true
}

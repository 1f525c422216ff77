package prepare

import (
	"math"
	"sort"
	"time"

	"github.com/sartorproj/revcast/fault"
	"github.com/sartorproj/revcast/timeseries"
)

// Options controls cleaning and the advisory validation checks.
type Options struct {
	// OutlierMultiplier and OutlierPercentile define the cap: values above
	// OutlierMultiplier times the OutlierPercentile quantile are clipped.
	OutlierMultiplier float64 `mapstructure:"outlier_multiplier"`
	OutlierPercentile float64 `mapstructure:"outlier_percentile"`
	// StabilityOffset is added to every value after clipping.
	StabilityOffset float64 `mapstructure:"stability_offset"`
	// FillGaps inserts zero-revenue days for missing dates instead of
	// rejecting the series.
	FillGaps bool `mapstructure:"fill_gaps"`

	MaxZeroRun      int     `mapstructure:"max_zero_run"`
	MinObservations int     `mapstructure:"min_observations"`
	MaxToMeanRatio  float64 `mapstructure:"max_to_mean_ratio"`
}

// DefaultOptions returns the default cleaning policy.
func DefaultOptions() Options {
	return Options{
		OutlierMultiplier: 10,
		OutlierPercentile: 0.95,
		StabilityOffset:   1e-6,
		MaxZeroRun:        7,
		MinObservations:   30,
		MaxToMeanRatio:    100,
	}
}

// Result is a prepared series plus counts of what cleaning changed.
type Result struct {
	Series            *timeseries.Series
	CappedCount       int
	OutlierThreshold  float64
	FilledGaps        int
	DuplicatesDropped int
	NegativesClipped  int
	NullsFilled       int
}

type point struct {
	t time.Time
	v float64
}

// Prepare returns a cleaned copy of s: sorted by date, one entry per day
// (first occurrence wins), nulls and negatives set to zero, offset by
// StabilityOffset and with outliers capped. The input is not modified.
//
// A series already marked Prepared is checked and returned as a copy with
// zero counts. The mark lives only in memory: a prepared series written with
// timeseries.WriteCSV and read back is raw again, and preparing it adds
// StabilityOffset a second time. Keep the Result in memory when the series
// is reused.
func Prepare(s *timeseries.Series, opts Options) (*Result, error) {
	const op = "prepare.Prepare"

	if s == nil || (len(s.Values) == 0 && len(s.Timestamps) == 0) {
		return nil, fault.Data(op, "empty series")
	}
	if len(s.Values) == 0 {
		return nil, fault.Data(op, "missing required value field")
	}
	if len(s.Timestamps) != len(s.Values) {
		return nil, fault.Data(op, "got %d dates for %d values", len(s.Timestamps), len(s.Values))
	}
	if s.Prepared {
		return reprepare(op, s)
	}

	pts := make([]point, len(s.Values))
	for i, v := range s.Values {
		if math.IsInf(v, 0) {
			return nil, fault.Data(op, "infinite value on %s", s.Timestamps[i].Format(time.DateOnly))
		}
		pts[i] = point{t: timeseries.Midnight(s.Timestamps[i]), v: v}
	}
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].t.Before(pts[j].t) })

	res := &Result{}
	uniq := pts[:0]
	for i, p := range pts {
		if i > 0 && p.t.Equal(uniq[len(uniq)-1].t) {
			res.DuplicatesDropped++
			continue
		}
		uniq = append(uniq, p)
	}
	pts = uniq

	for i := range pts {
		switch {
		case math.IsNaN(pts[i].v):
			pts[i].v = 0
			res.NullsFilled++
		case pts[i].v < 0:
			pts[i].v = 0
			res.NegativesClipped++
		}
	}

	if opts.FillGaps {
		pts, res.FilledGaps = fillGaps(pts)
	}

	timestamps := make([]time.Time, len(pts))
	values := make([]float64, len(pts))
	for i, p := range pts {
		timestamps[i] = p.t
		values[i] = p.v + opts.StabilityOffset
	}
	out := &timeseries.Series{Timestamps: timestamps, Values: values, Name: s.Name}
	if gaps := out.Gaps(); gaps > 0 {
		return nil, fault.Data(op, "series has %d missing days between %s and %s",
			gaps, out.FirstDate().Format(time.DateOnly), out.LastDate().Format(time.DateOnly))
	}

	res.OutlierThreshold = opts.OutlierMultiplier * Quantile(values, opts.OutlierPercentile)
	for i, v := range values {
		if v > res.OutlierThreshold {
			values[i] = res.OutlierThreshold
			res.CappedCount++
		}
	}

	out.Prepared = true
	res.Series = out
	return res, nil
}

func reprepare(op string, s *timeseries.Series) (*Result, error) {
	if !s.IsDaily() {
		return nil, fault.Data(op, "prepared series is not a gap-free daily index")
	}
	for _, v := range s.Values {
		if math.IsNaN(v) || v < 0 {
			return nil, fault.Data(op, "prepared series holds a missing or negative value")
		}
	}
	return &Result{Series: s.Copy()}, nil
}

func fillGaps(pts []point) ([]point, int) {
	if len(pts) < 2 {
		return pts, 0
	}
	span := timeseries.DaysBetween(pts[0].t, pts[len(pts)-1].t) + 1
	if span == len(pts) {
		return pts, 0
	}
	out := make([]point, 0, span)
	for _, p := range pts {
		if len(out) > 0 {
			for next := out[len(out)-1].t.AddDate(0, 0, 1); next.Before(p.t); next = next.AddDate(0, 0, 1) {
				out = append(out, point{t: next})
			}
		}
		out = append(out, p)
	}
	return out, span - len(pts)
}

// Quantile returns the q-quantile of values by linear interpolation
// between the closest ranks, ignoring NaN. It returns NaN for an empty
// input.
func Quantile(values []float64, q float64) float64 {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return math.NaN()
	}
	sort.Float64s(sorted)
	q = math.Max(0, math.Min(1, q))
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}

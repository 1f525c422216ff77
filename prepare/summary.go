package prepare

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/timeseries"
)

// Summary describes a raw series before cleaning.
type Summary struct {
	TotalRecords     int       `json:"total_records" yaml:"total_records"`
	Start            time.Time `json:"start" yaml:"start"`
	End              time.Time `json:"end" yaml:"end"`
	TotalRevenue     float64   `json:"total_revenue" yaml:"total_revenue"`
	MeanRevenue      float64   `json:"mean_revenue" yaml:"mean_revenue"`
	MedianRevenue    float64   `json:"median_revenue" yaml:"median_revenue"`
	MaxRevenue       float64   `json:"max_revenue" yaml:"max_revenue"`
	MinRevenue       float64   `json:"min_revenue" yaml:"min_revenue"`
	StdRevenue       float64   `json:"std_revenue" yaml:"std_revenue"`
	ZeroRevenueDays  int       `json:"zero_revenue_days" yaml:"zero_revenue_days"`
	PositiveDays     int       `json:"positive_revenue_days" yaml:"positive_revenue_days"`
	DuplicateDates   int       `json:"duplicate_dates" yaml:"duplicate_dates"`
	NegativeValues   int       `json:"negative_values" yaml:"negative_values"`
	MissingValues    int       `json:"missing_values" yaml:"missing_values"`
	CompletenessPct  float64   `json:"data_completeness" yaml:"data_completeness"`
	ExpectedDays     int       `json:"expected_days" yaml:"expected_days"`
	DistinctDays     int       `json:"distinct_days" yaml:"distinct_days"`
}

// DateRange renders the covered period as "YYYY-MM-DD to YYYY-MM-DD".
func (s *Summary) DateRange() string {
	if s.TotalRecords == 0 {
		return ""
	}
	return fmt.Sprintf("%s to %s", s.Start.Format(time.DateOnly), s.End.Format(time.DateOnly))
}

// Summarize computes descriptive statistics of s, ignoring missing values.
// Completeness is the share of calendar days in the covered range that have
// at least one record.
func Summarize(s *timeseries.Series) *Summary {
	sum := &Summary{}
	if s == nil || s.Len() == 0 {
		return sum
	}
	sum.TotalRecords = s.Len()

	seen := make(map[time.Time]struct{}, s.Len())
	for i, t := range s.Timestamps {
		day := timeseries.Midnight(t)
		if _, dup := seen[day]; dup {
			sum.DuplicateDates++
		}
		seen[day] = struct{}{}
		if i == 0 || day.Before(sum.Start) {
			sum.Start = day
		}
		if i == 0 || day.After(sum.End) {
			sum.End = day
		}
	}
	sum.DistinctDays = len(seen)
	sum.ExpectedDays = timeseries.DaysBetween(sum.Start, sum.End) + 1

	values := make([]float64, 0, s.Len())
	for _, v := range s.Values {
		switch {
		case math.IsNaN(v):
			sum.MissingValues++
			continue
		case v == 0:
			sum.ZeroRevenueDays++
		case v > 0:
			sum.PositiveDays++
		default:
			sum.NegativeValues++
		}
		values = append(values, v)
	}

	if len(values) > 0 {
		sum.TotalRevenue = floats.Sum(values)
		sum.MeanRevenue = stat.Mean(values, nil)
		sum.MaxRevenue = floats.Max(values)
		sum.MinRevenue = floats.Min(values)
		sum.MedianRevenue = s.Median()
	}
	if len(values) > 1 {
		sum.StdRevenue = stat.StdDev(values, nil)
	}
	if sum.ExpectedDays > 0 {
		sum.CompletenessPct = float64(sum.DistinctDays) / float64(sum.ExpectedDays) * 100
	}
	return sum
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

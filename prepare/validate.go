package prepare

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/revcast/timeseries"
)

// Check names reported by Validate.
const (
	CheckHasData          = "has_data"
	CheckNoNegativeValues = "no_negative_values"
	CheckSufficientData   = "sufficient_data"
	CheckNoExcessiveGaps  = "no_excessive_gaps"
	CheckReasonableValues = "reasonable_values"
)

// Check is the outcome of one validation rule.
type Check struct {
	Name   string `json:"name" yaml:"name"`
	Passed bool   `json:"passed" yaml:"passed"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// ValidationReport lists advisory data-quality checks. It never blocks
// preparation.
type ValidationReport struct {
	Checks         []Check `json:"checks" yaml:"checks"`
	LongestZeroRun int     `json:"longest_zero_run" yaml:"longest_zero_run"`
}

// Passed returns the number of passing checks.
func (r *ValidationReport) Passed() int {
	n := 0
	for _, c := range r.Checks {
		if c.Passed {
			n++
		}
	}
	return n
}

// Total returns the number of checks evaluated.
func (r *ValidationReport) Total() int { return len(r.Checks) }

// OK reports whether every check passed.
func (r *ValidationReport) OK() bool { return r.Passed() == r.Total() }

// Failed returns the names of failing checks.
func (r *ValidationReport) Failed() []string {
	var out []string
	for _, c := range r.Checks {
		if !c.Passed {
			out = append(out, c.Name)
		}
	}
	return out
}

// Validate runs the data-quality checks on a raw series. When the series is
// empty only has_data is reported.
func Validate(s *timeseries.Series, opts Options) *ValidationReport {
	report := &ValidationReport{}
	if s == nil || s.Len() == 0 {
		report.Checks = []Check{{Name: CheckHasData, Detail: "no rows"}}
		return report
	}
	report.Checks = append(report.Checks, Check{Name: CheckHasData, Passed: true})

	values := make([]float64, 0, s.Len())
	negatives := 0
	for _, v := range s.Values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 {
			negatives++
		}
		values = append(values, v)
	}

	report.Checks = append(report.Checks, Check{
		Name:   CheckNoNegativeValues,
		Passed: negatives == 0,
		Detail: plural(negatives, "negative value"),
	})

	report.Checks = append(report.Checks, Check{
		Name:   CheckSufficientData,
		Passed: s.Len() >= opts.MinObservations,
		Detail: plural(s.Len(), "day"),
	})

	report.LongestZeroRun = longestZeroRun(s.Values)
	report.Checks = append(report.Checks, Check{
		Name:   CheckNoExcessiveGaps,
		Passed: report.LongestZeroRun <= opts.MaxZeroRun,
		Detail: plural(report.LongestZeroRun, "consecutive zero day"),
	})

	reasonable := true
	if len(values) > 0 {
		reasonable = floats.Max(values) <= opts.MaxToMeanRatio*stat.Mean(values, nil)
	}
	report.Checks = append(report.Checks, Check{Name: CheckReasonableValues, Passed: reasonable})

	return report
}

func longestZeroRun(values []float64) int {
	longest, run := 0, 0
	for _, v := range values {
		if v == 0 {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

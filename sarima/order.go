package sarima

import (
	"fmt"
)

// Order bounds accepted from configuration.
const (
	MaxARMA = 5 // upper bound for p, q, P and Q
	MaxDiff = 2 // upper bound for d and D
)

// Order is the non-seasonal order (p, d, q).
type Order struct {
	P int // AR order
	D int // Differencing order
	Q int // MA order
}

// SeasonalOrder is the seasonal order (P, D, Q, s).
type SeasonalOrder struct {
	P int // Seasonal AR order
	D int // Seasonal differencing order
	Q int // Seasonal MA order
	S int // Seasonal period in days
}

// NoSeason is the seasonal order of a plain ARIMA model.
var NoSeason = SeasonalOrder{}

func (o Order) String() string {
	return fmt.Sprintf("(%d,%d,%d)", o.P, o.D, o.Q)
}

func (s SeasonalOrder) String() string {
	return fmt.Sprintf("(%d,%d,%d,%d)", s.P, s.D, s.Q, s.S)
}

// Slice returns the order as [p, d, q].
func (o Order) Slice() []int { return []int{o.P, o.D, o.Q} }

// Slice returns the order as [P, D, Q, s].
func (s SeasonalOrder) Slice() []int { return []int{s.P, s.D, s.Q, s.S} }

// Validate checks non-negativity and the configuration bounds.
func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("order %v: values must be non-negative", o)
	}
	if o.P > MaxARMA || o.Q > MaxARMA || o.D > MaxDiff {
		return fmt.Errorf("order %v: p and q must be <= %d, d <= %d", o, MaxARMA, MaxDiff)
	}
	return nil
}

// Validate checks non-negativity, the configuration bounds and that a
// period of at least 2 is given whenever a seasonal term is present.
func (s SeasonalOrder) Validate() error {
	if s.P < 0 || s.D < 0 || s.Q < 0 || s.S < 0 {
		return fmt.Errorf("seasonal order %v: values must be non-negative", s)
	}
	if s.P > MaxARMA || s.Q > MaxARMA || s.D > MaxDiff {
		return fmt.Errorf("seasonal order %v: P and Q must be <= %d, D <= %d", s, MaxARMA, MaxDiff)
	}
	if s.HasTerms() && s.S < 2 {
		return fmt.Errorf("seasonal order %v: period must be >= 2", s)
	}
	return nil
}

// HasTerms reports whether any seasonal AR, MA or differencing term is set.
func (s SeasonalOrder) HasTerms() bool {
	return s.P > 0 || s.D > 0 || s.Q > 0
}

// numARMA is the number of estimated ARMA coefficients.
func numARMA(o Order, s SeasonalOrder) int {
	return o.P + o.Q + s.P + s.Q
}

// paramNames labels the coefficient vector [ar, ma, seasonal ar, seasonal ma].
func paramNames(o Order, s SeasonalOrder) []string {
	names := make([]string, 0, numARMA(o, s)+1)
	for i := 1; i <= o.P; i++ {
		names = append(names, fmt.Sprintf("ar.L%d", i))
	}
	for i := 1; i <= o.Q; i++ {
		names = append(names, fmt.Sprintf("ma.L%d", i))
	}
	for i := 1; i <= s.P; i++ {
		names = append(names, fmt.Sprintf("ar.S.L%d", i*s.S))
	}
	for i := 1; i <= s.Q; i++ {
		names = append(names, fmt.Sprintf("ma.S.L%d", i*s.S))
	}
	return append(names, "sigma2")
}

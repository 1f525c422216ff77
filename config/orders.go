package config

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/sartorproj/revcast/sarima"
)

// ParseOrder decodes a (p, d, q) triple from a YAML list, a Go slice or a
// comma separated string such as "1,1,1".
func ParseOrder(raw any) (sarima.Order, error) {
	v, err := parseInts(raw, 3)
	if err != nil {
		return sarima.Order{}, fmt.Errorf("sarima_order: %w", err)
	}
	o := sarima.Order{P: v[0], D: v[1], Q: v[2]}
	if err := o.Validate(); err != nil {
		return sarima.Order{}, fmt.Errorf("sarima_order: %w", err)
	}
	return o, nil
}

// ParseSeasonalOrder decodes a (P, D, Q, s) quadruple the same way as
// ParseOrder.
func ParseSeasonalOrder(raw any) (sarima.SeasonalOrder, error) {
	v, err := parseInts(raw, 4)
	if err != nil {
		return sarima.SeasonalOrder{}, fmt.Errorf("seasonal_order: %w", err)
	}
	s := sarima.SeasonalOrder{P: v[0], D: v[1], Q: v[2], S: v[3]}
	if err := s.Validate(); err != nil {
		return sarima.SeasonalOrder{}, fmt.Errorf("seasonal_order: %w", err)
	}
	return s, nil
}

func parseInts(raw any, arity int) ([]int, error) {
	var items []any
	switch r := raw.(type) {
	case nil:
		return nil, errors.New("missing value")
	case string:
		for _, f := range strings.FieldsFunc(r, func(c rune) bool {
			return c == ',' || c == ' ' || c == '[' || c == ']' || c == '(' || c == ')'
		}) {
			items = append(items, f)
		}
	case []any:
		items = r
	default:
		rv := reflect.ValueOf(raw)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("not a list: %T", raw)
		}
		for i := 0; i < rv.Len(); i++ {
			items = append(items, rv.Index(i).Interface())
		}
	}
	if len(items) != arity {
		return nil, fmt.Errorf("expected %d values, got %d", arity, len(items))
	}

	out := make([]int, arity)
	for i, item := range items {
		if _, ok := item.(bool); ok {
			return nil, fmt.Errorf("value %d is a boolean", i)
		}
		f, err := cast.ToFloat64E(item)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("value %d is not an integer: %v", i, item)
		}
		if f < 0 {
			return nil, fmt.Errorf("value %d is negative: %v", i, item)
		}
		out[i] = int(f)
	}
	return out, nil
}

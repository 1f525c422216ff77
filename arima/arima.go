// Package arima provides non-seasonal ARIMA(p,d,q) estimation on top of the
// SARIMA estimator.
package arima

import (
	"github.com/sartorproj/revcast/sarima"
	"github.com/sartorproj/revcast/timeseries"
)

// Model is a non-seasonal ARIMA model.
type Model struct {
	model *sarima.Model
}

// New creates an ARIMA(p,d,q) model.
func New(p, d, q int, opts ...sarima.Option) *Model {
	return &Model{
		model: sarima.New(sarima.Order{P: p, D: d, Q: q}, sarima.NoSeason, opts...),
	}
}

// Order returns (p, d, q).
func (m *Model) Order() sarima.Order {
	return m.model.Order()
}

// Fit estimates the model on series. Errors carry the same classification
// as sarima.Model.Fit.
func (m *Model) Fit(series *timeseries.Series) (*sarima.Fitted, error) {
	return m.model.Fit(series)
}

// Fit is shorthand for New(order.P, order.D, order.Q, opts...).Fit(series).
func Fit(series *timeseries.Series, order sarima.Order, opts ...sarima.Option) (*sarima.Fitted, error) {
	return New(order.P, order.D, order.Q, opts...).Fit(series)
}

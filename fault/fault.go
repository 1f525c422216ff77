// Package fault defines the error kinds returned by the forecasting packages.
//
// Every failure carries exactly one kind so a caller can tell "no data" apart
// from "model could not converge" or "not yet fit":
//
//	if errors.Is(err, fault.ErrModelFit) {
//	    // retry with another order
//	}
package fault

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	// ErrData reports an empty, malformed or insufficient input series.
	ErrData = errors.New("data error")
	// ErrModelFit reports a failed estimation: too few observations,
	// an invalid order or an optimizer that did not converge.
	ErrModelFit = errors.New("model fit error")
	// ErrForecast reports a forecast requested with an invalid horizon or
	// confidence level, and any use of a model that has not been fit
	// (see NotFit).
	ErrForecast = errors.New("forecast error")
	// ErrBacktest reports insufficient training data or no aligned pairs.
	ErrBacktest = errors.New("backtest error")
)

// Error is a classified failure. Kind is one of the sentinel errors above.
type Error struct {
	Kind error
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind and the underlying cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newf(kind error, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Data returns an ErrData failure for op.
func Data(op, format string, args ...any) error {
	return newf(ErrData, op, format, args...)
}

// ModelFit returns an ErrModelFit failure for op.
func ModelFit(op, format string, args ...any) error {
	return newf(ErrModelFit, op, format, args...)
}

// Forecast returns an ErrForecast failure for op.
func Forecast(op, format string, args ...any) error {
	return newf(ErrForecast, op, format, args...)
}

// NotFit returns the ErrForecast failure reported whenever op needs a fitted
// model and got none.
func NotFit(op string) error {
	return newf(ErrForecast, op, "model has not been fit")
}

// Backtest returns an ErrBacktest failure for op.
func Backtest(op, format string, args ...any) error {
	return newf(ErrBacktest, op, format, args...)
}

// Wrap classifies err under kind. It returns nil when err is nil.
func Wrap(kind error, op string, err error, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

// KindOf returns the outermost kind attached to err, or nil.
func KindOf(err error) error {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	for _, k := range []error{ErrData, ErrModelFit, ErrForecast, ErrBacktest} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

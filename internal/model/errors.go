package model

import "errors"

var (
	ErrMalformedTime  = errors.New("model: malformed time")
	ErrInvalidValue   = errors.New("model: invalid measurement value")
	ErrNoPrediction   = errors.New("model: not enough measurements for a prediction")
	ErrDegenerateRate = errors.New("model: rate undefined for measurements sharing a timestamp")
)

type ErrorKind string

const (
	ErrorKindNone           ErrorKind = ""
	ErrorKindMalformedTime  ErrorKind = "MalformedTime"
	ErrorKindInvalidValue   ErrorKind = "InvalidValue"
	ErrorKindNoPrediction   ErrorKind = "NoPrediction"
	ErrorKindDegenerateRate ErrorKind = "DegenerateRate"
	ErrorKindUnknown        ErrorKind = "Unknown"
)

// Classify maps err onto the closed set of failure kinds the core can report.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorKindNone
	case errors.Is(err, ErrMalformedTime):
		return ErrorKindMalformedTime
	case errors.Is(err, ErrInvalidValue):
		return ErrorKindInvalidValue
	case errors.Is(err, ErrNoPrediction):
		return ErrorKindNoPrediction
	case errors.Is(err, ErrDegenerateRate):
		return ErrorKindDegenerateRate
	default:
		return ErrorKindUnknown
	}
}

package codec

import (
	"math"

	x448 "github.com/x448/float16"

	"github.com/23skdu/longbow-halfprec/half"
)

// Outcome describes what narrowing a value to binary16 loses.
type Outcome int

const (
	OutcomeExact Outcome = iota
	OutcomeInexact
	OutcomeOverflow
	OutcomeUnderflow
	OutcomeNaN
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExact:
		return "exact"
	case OutcomeInexact:
		return "inexact"
	case OutcomeOverflow:
		return "overflow"
	case OutcomeUnderflow:
		return "underflow"
	case OutcomeNaN:
		return "nan"
	default:
		return "unknown"
	}
}

// Classify reports the outcome of half.FromFloat32(v).
// The precision filter of x448/float16 settles most inputs without a round
// trip; the cases it leaves open are decided against our own rounding.
func Classify(v float32) Outcome {
	if math.IsNaN(float64(v)) {
		return OutcomeNaN
	}
	h := half.FromFloat32(v)
	switch x448.PrecisionFromfloat32(v) {
	case x448.PrecisionExact:
		return OutcomeExact
	case x448.PrecisionOverflow:
		return OutcomeOverflow
	case x448.PrecisionUnderflow:
		// Values in [2^-25, 2^-24) still round up to the smallest subnormal.
		if h.Abs().Bits() == 0 {
			return OutcomeUnderflow
		}
		return OutcomeInexact
	case x448.PrecisionUnknown:
		if h.Float32() == v {
			return OutcomeExact
		}
		return OutcomeInexact
	default:
		if h.IsInf() {
			return OutcomeOverflow
		}
		return OutcomeInexact
	}
}

// Classify64 reports the outcome of half.FromFloat64(v).
func Classify64(v float64) Outcome {
	if math.IsNaN(v) {
		return OutcomeNaN
	}
	h := half.FromFloat64(v)
	switch {
	case h.Float64() == v:
		return OutcomeExact
	case h.IsInf():
		return OutcomeOverflow
	case h.Abs().Bits() == 0:
		return OutcomeUnderflow
	default:
		return OutcomeInexact
	}
}

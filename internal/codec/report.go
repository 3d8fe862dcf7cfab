package codec

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/23skdu/longbow-halfprec/half"
)

// Report summarizes the precision lost narrowing a batch.
type Report struct {
	Count    int            `cbor:"count" json:"count"`
	Outcomes map[string]int `cbor:"outcomes" json:"outcomes"`
	// MaxAbsError and L2Error only cover values that stay finite.
	MaxAbsError float64 `cbor:"max_abs_error" json:"max_abs_error"`
	L2Error     float64 `cbor:"l2_error" json:"l2_error"`
}

// Merge folds o into r.
func (r *Report) Merge(o Report) {
	if r.Outcomes == nil {
		r.Outcomes = make(map[string]int)
	}
	r.Count += o.Count
	for k, n := range o.Outcomes {
		r.Outcomes[k] += n
	}
	r.MaxAbsError = math.Max(r.MaxAbsError, o.MaxAbsError)
	r.L2Error = math.Hypot(r.L2Error, o.L2Error)
}

// Analyze narrows src, classifies every value and records the outcomes in
// the narrowing metrics.
func Analyze(src []float32) ([]half.Float16, Report) {
	return analyze(src, half.FromFloat32, Classify)
}

// Analyze64 is Analyze for float64 input. Values are narrowed directly,
// never through float32.
func Analyze64(src []float64) ([]half.Float16, Report) {
	return analyze(src, half.FromFloat64, Classify64)
}

func analyze[T float32 | float64](src []T, narrow func(T) half.Float16, classify func(T) Outcome) ([]half.Float16, Report) {
	out := make([]half.Float16, 0, len(src))
	r := Report{Count: len(src), Outcomes: make(map[string]int)}

	var want, got []float64
	for _, v := range src {
		h := narrow(v)
		out = append(out, h)
		r.Outcomes[classify(v).String()]++
		if h.IsFinite() {
			want = append(want, float64(v))
			got = append(got, h.Float64())
		}
	}
	if len(want) > 0 {
		r.MaxAbsError = floats.Distance(want, got, math.Inf(1))
		r.L2Error = floats.Distance(want, got, 2)
	}

	observe(r)
	return out, r
}

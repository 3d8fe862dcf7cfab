package half

import "cmp"

// Ordering is the result of PartialCompare.
type Ordering int

const (
	OrderLess Ordering = iota - 1
	OrderEqual
	OrderGreater
	// Unordered is returned when either operand is a NaN.
	Unordered
)

func (o Ordering) String() string {
	switch o {
	case OrderLess:
		return "less"
	case OrderEqual:
		return "equal"
	case OrderGreater:
		return "greater"
	default:
		return "unordered"
	}
}

// The relations below compare raw bit patterns as unsigned integers once NaNs
// are excluded. That order matches numeric order only when both operands are
// non-negative: -0 and +0 are not equal, and negative values order by
// magnitude. TotalCompare gives the sign-aware order.

// Equal reports whether neither operand is a NaN and both have the same
// encoding.
func (f Float16) Equal(g Float16) bool {
	return !f.IsNaN() && !g.IsNaN() && f.bits == g.bits
}

// PartialCompare orders f against g.
func (f Float16) PartialCompare(g Float16) Ordering {
	switch {
	case f.IsNaN() || g.IsNaN():
		return Unordered
	case f.bits == g.bits:
		return OrderEqual
	case f.bits < g.bits:
		return OrderLess
	default:
		return OrderGreater
	}
}

func (f Float16) Less(g Float16) bool {
	return !f.IsNaN() && !g.IsNaN() && f.bits < g.bits
}

func (f Float16) LessEqual(g Float16) bool {
	return !f.IsNaN() && !g.IsNaN() && f.bits <= g.bits
}

func (f Float16) Greater(g Float16) bool {
	return !f.IsNaN() && !g.IsNaN() && f.bits > g.bits
}

func (f Float16) GreaterEqual(g Float16) bool {
	return !f.IsNaN() && !g.IsNaN() && f.bits >= g.bits
}

// TotalCompare orders f against g by the IEEE 754 totalOrder predicate and
// returns -1, 0 or +1: -NaN < -Inf < ... < -0 < +0 < ... < +Inf < +NaN.
func (f Float16) TotalCompare(g Float16) int {
	return cmp.Compare(f.totalKey(), g.totalKey())
}

func (f Float16) totalKey() uint16 {
	if f.bits&signMask16 != 0 {
		return ^f.bits
	}
	return f.bits | signMask16
}

// Package bps implements basis-point fixed-point arithmetic on unsigned amounts.
//
// Every operation is checked: overflow, underflow and division by zero come back
// as arithmetic_error domain errors instead of wrapping. The only saturating
// helper is SaturatingSub, reserved for monotonic counter deltas.
package bps

import (
	"math/bits"

	dErrors "sovereign/pkg/domain-errors"
)

// Denominator is 100% expressed in basis points.
const Denominator uint64 = 10_000

// Rate is a percentage in basis points, 0..Denominator.
type Rate uint16

// Valid reports whether the rate is within 0..10000.
func (r Rate) Valid() bool { return uint64(r) <= Denominator }

// ValidateMax returns a validation error when r exceeds max.
func (r Rate) ValidateMax(field string, max Rate) error {
	if r > max {
		return dErrors.Newf(dErrors.CodeValidation, "%s %d bps exceeds maximum %d bps", field, r, max)
	}
	return nil
}

func overflow(op string) error {
	return dErrors.Newf(dErrors.CodeArithmetic, "overflow in %s", op)
}

// Add returns a+b.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, overflow("add")
	}
	return sum, nil
}

// Sub returns a-b.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, dErrors.New(dErrors.CodeArithmetic, "underflow in sub")
	}
	return diff, nil
}

// SaturatingSub returns a-b, or 0 when b > a.
func SaturatingSub(a, b uint64) uint64 {
	if b > a {
		return 0
	}
	return a - b
}

// Mul returns a*b.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, overflow("mul")
	}
	return lo, nil
}

// Div returns floor(a/b).
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, dErrors.New(dErrors.CodeArithmetic, "division by zero")
	}
	return a / b, nil
}

// MulDiv returns floor(a*b/c) with a 128-bit intermediate product.
func MulDiv(a, b, c uint64) (uint64, error) {
	if c == 0 {
		return 0, dErrors.New(dErrors.CodeArithmetic, "division by zero")
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return 0, overflow("mul-div")
	}
	quo, _ := bits.Div64(hi, lo, c)
	return quo, nil
}

// Apply returns floor(amount*rate/10000).
func Apply(amount uint64, rate Rate) (uint64, error) {
	if !rate.Valid() {
		return 0, dErrors.Newf(dErrors.CodeArithmetic, "rate %d bps above 100%%", rate)
	}
	return MulDiv(amount, uint64(rate), Denominator)
}

// Complement returns floor(amount*(10000-rate)/10000).
func Complement(amount uint64, rate Rate) (uint64, error) {
	if !rate.Valid() {
		return 0, dErrors.Newf(dErrors.CodeArithmetic, "rate %d bps above 100%%", rate)
	}
	return MulDiv(amount, Denominator-uint64(rate), Denominator)
}

// ShareOf returns floor(part*10000/total) as a rate. part must not exceed total.
func ShareOf(part, total uint64) (Rate, error) {
	if total == 0 {
		return 0, dErrors.New(dErrors.CodeArithmetic, "division by zero")
	}
	if part > total {
		return 0, overflow("share")
	}
	v, err := MulDiv(part, Denominator, total)
	if err != nil {
		return 0, err
	}
	return Rate(v), nil
}

// Ratio returns floor(num*10000/den) without the part<=total restriction,
// capped at Denominator. Used for vote pass ratios.
func Ratio(num, den uint64) (Rate, error) {
	if den == 0 {
		return 0, dErrors.New(dErrors.CodeArithmetic, "division by zero")
	}
	v, err := MulDiv(num, Denominator, den)
	if err != nil {
		return 0, err
	}
	if v > Denominator {
		v = Denominator
	}
	return Rate(v), nil
}

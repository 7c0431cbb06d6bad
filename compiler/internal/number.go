package internal

import (
	"math"
	"strconv"
	"strings"
)

// Number is a numeric literal of SimpleLang: either an int or a float.
type Number struct {
	IsFloat bool
	Int     int64
	Float   float64
}

func IntNumber(v int64) Number {
	return Number{Int: v}
}

func FloatNumber(v float64) Number {
	return Number{IsFloat: true, Float: v}
}

func (n Number) float() float64 {
	if n.IsFloat {
		return n.Float
	}
	return float64(n.Int)
}

// String renders ints in decimal and floats in their shortest exact form, keeping a ".0"
// on integral floats so that the int/float distinction survives a round trip through text.
func (n Number) String() string {
	if !n.IsFloat {
		return strconv.FormatInt(n.Int, 10)
	}
	s := strconv.FormatFloat(n.Float, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// parseNumber converts a lexeme made of digits and dots. An optional leading '-' is accepted
// for IR listings, which may hold folded negative values.
func parseNumber(lexeme string) (Number, bool) {
	digits := strings.TrimPrefix(lexeme, "-")
	if digits == "" || strings.Count(digits, ".") > 1 {
		return Number{}, false
	}
	for i := 0; i < len(digits); i++ {
		if (digits[i] < '0' || digits[i] > '9') && digits[i] != '.' {
			return Number{}, false
		}
	}
	if strings.Contains(digits, ".") {
		if digits == "." {
			return Number{}, false
		}
		v, err := strconv.ParseFloat(lexeme, 64)
		if err != nil {
			return Number{}, false
		}
		return FloatNumber(v), true
	}
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Number{}, false
	}
	return IntNumber(v), true
}

// applyOp evaluates l op r for the four arithmetic operators. It reports false when the result
// is not representable: division by zero, int64 overflow or a non-finite float.
// Division always produces a float.
func applyOp(op OpCode, l, r Number) (Number, bool) {
	if !l.IsFloat && !r.IsFloat && op != DivideOpTP {
		return applyIntOp(op, l.Int, r.Int)
	}
	a, b := l.float(), r.float()
	var v float64
	switch op {
	case AddOpTP:
		v = a + b
	case MinusOpTP:
		v = a - b
	case MultipleOpTP:
		v = a * b
	case DivideOpTP:
		if b == 0 {
			return Number{}, false
		}
		v = a / b
	default:
		return Number{}, false
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return Number{}, false
	}
	return FloatNumber(v), true
}

func applyIntOp(op OpCode, a, b int64) (Number, bool) {
	switch op {
	case AddOpTP:
		if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
			return Number{}, false
		}
		return IntNumber(a + b), true
	case MinusOpTP:
		if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
			return Number{}, false
		}
		return IntNumber(a - b), true
	case MultipleOpTP:
		if a == 0 || b == 0 {
			return IntNumber(0), true
		}
		p := a * b
		if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return Number{}, false
		}
		return IntNumber(p), true
	}
	return Number{}, false
}

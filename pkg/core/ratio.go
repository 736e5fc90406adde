package core

import (
	"strconv"
)

// ratioKind distinguishes the three states a ratio metric can be in.
type ratioKind int

const (
	ratioDefined ratioKind = iota
	ratioUndefined
	ratioInfinite
)

// Ratio is a ratio-valued KPI with explicit zero-denominator semantics.
// It is exactly one of: a defined value, undefined ("N/A", the denominator
// does not exist or the division is meaningless), or infinite (coverage days
// with zero sales velocity). Undefined and zero are deliberately distinct so
// the presentation layer can render "N/A" and "0%" differently.
type Ratio struct {
	kind  ratioKind
	value float64
}

// DefinedRatio returns a ratio carrying v.
func DefinedRatio(v float64) Ratio {
	return Ratio{kind: ratioDefined, value: v}
}

// UndefinedRatio returns the N/A sentinel.
func UndefinedRatio() Ratio {
	return Ratio{kind: ratioUndefined}
}

// InfiniteRatio returns the unbounded sentinel.
func InfiniteRatio() Ratio {
	return Ratio{kind: ratioInfinite}
}

// IsDefined reports whether the ratio carries a finite value.
func (r Ratio) IsDefined() bool { return r.kind == ratioDefined }

// IsUndefined reports whether the ratio is the N/A sentinel.
func (r Ratio) IsUndefined() bool { return r.kind == ratioUndefined }

// IsInfinite reports whether the ratio is the unbounded sentinel.
func (r Ratio) IsInfinite() bool { return r.kind == ratioInfinite }

// Value returns the finite value and whether one exists.
func (r Ratio) Value() (float64, bool) {
	return r.value, r.kind == ratioDefined
}

// Clamp bounds a defined ratio to [lo, hi]. Sentinels pass through unchanged.
func (r Ratio) Clamp(lo, hi float64) Ratio {
	if r.kind != ratioDefined {
		return r
	}
	v := r.value
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return DefinedRatio(v)
}

// String renders the value with one decimal, or the sentinel name.
func (r Ratio) String() string {
	switch r.kind {
	case ratioUndefined:
		return "n/a"
	case ratioInfinite:
		return "inf"
	default:
		return strconv.FormatFloat(r.value, 'f', 1, 64)
	}
}

// MarshalJSON encodes a defined ratio as a number and the sentinels as the
// strings "n/a" and "inf".
func (r Ratio) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case ratioUndefined:
		return []byte(`"n/a"`), nil
	case ratioInfinite:
		return []byte(`"inf"`), nil
	default:
		return []byte(strconv.FormatFloat(r.value, 'f', -1, 64)), nil
	}
}

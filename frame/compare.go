package frame

import (
	"fmt"
	"math"
	"slices"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

type compareOptions struct {
	tolerance float64
}

// A CompareOption configures Compare and Diff.
type CompareOption func(*compareOptions)

// Tolerance makes double values equal when they differ by at most eps.
// Zero means exact comparison.
func Tolerance(eps float64) CompareOption {
	return func(o *compareOptions) {
		o.tolerance = eps
	}
}

// MismatchError describes the first difference found by Compare.
type MismatchError struct {
	// Reason is one of "frame", "columns", "types", "rows" or "value".
	Reason string
	// Column is set for "types" and "value" mismatches.
	Column string
	// Row is set for "value" mismatches.
	Row  int
	Want any
	Got  any
}

func (e *MismatchError) Error() string {
	switch e.Reason {
	case "columns":
		return fmt.Sprintf("frame mismatch: want columns %v, got %v", e.Want, e.Got)
	case "types":
		return fmt.Sprintf("frame mismatch: column %q: want type %v, got %v", e.Column, e.Want, e.Got)
	case "rows":
		return fmt.Sprintf("frame mismatch: want %v rows, got %v", e.Want, e.Got)
	case "value":
		return fmt.Sprintf("frame mismatch: column %q row %d: want %s, got %s", e.Column, e.Row, formatValue(e.Want), formatValue(e.Got))
	}

	return fmt.Sprintf("frame mismatch: want %v, got %v", e.Want, e.Got)
}

// Compare returns nil if got is structurally identical to want: same column
// names in the same order, same column types, same number of rows and same
// values in the same order. Otherwise it returns a *MismatchError.
// Two NaN doubles at the same position are considered equal.
func Compare(want, got *Frame, opts ...CompareOption) error {
	var o compareOptions
	for _, opt := range opts {
		opt(&o)
	}

	if want == nil || got == nil {
		if want == nil && got == nil {
			return nil
		}
		return &MismatchError{Reason: "frame", Want: describe(want), Got: describe(got)}
	}

	if wn, gn := want.Names(), got.Names(); !slices.Equal(wn, gn) {
		return &MismatchError{Reason: "columns", Want: wn, Got: gn}
	}

	for i, c := range want.columns {
		if gt := got.columns[i].Type; c.Type != gt {
			return &MismatchError{Reason: "types", Column: c.Name, Want: c.Type, Got: gt}
		}
	}

	if want.rows != got.rows {
		return &MismatchError{Reason: "rows", Want: want.rows, Got: got.rows}
	}

	for r := 0; r < want.rows; r++ {
		for i, c := range want.columns {
			w, g := c.Values[r], got.columns[i].Values[r]
			if !equalValue(w, g, o.tolerance) {
				return &MismatchError{Reason: "value", Column: c.Name, Row: r, Want: w, Got: g}
			}
		}
	}

	return nil
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b *Frame) bool {
	return Compare(a, b) == nil
}

// Diff returns a human-readable report of the differences between want and
// got, or an empty string if there are none.
func Diff(want, got *Frame, opts ...CompareOption) string {
	var o compareOptions
	for _, opt := range opts {
		opt(&o)
	}

	cmpOpts := []cmp.Option{cmpopts.EquateNaNs()}
	if o.tolerance > 0 {
		cmpOpts = append(cmpOpts, cmpopts.EquateApprox(0, o.tolerance))
	}

	return cmp.Diff(newView(want), newView(got), cmpOpts...)
}

// view is the comparable shape of a frame used by Diff.
type view struct {
	Columns []string
	Types   []string
	Rows    [][]any
}

func newView(f *Frame) *view {
	if f == nil {
		return nil
	}

	v := view{
		Columns: f.Names(),
		Types:   make([]string, f.Width()),
		Rows:    f.Rows(),
	}
	for i, t := range f.Types() {
		v.Types[i] = t.String()
	}
	return &v
}

func equalValue(a, b any, tolerance float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	af, aok := a.(float64)
	bf, bok := b.(float64)
	if aok && bok {
		if math.IsNaN(af) || math.IsNaN(bf) {
			return math.IsNaN(af) && math.IsNaN(bf)
		}
		if tolerance > 0 {
			return math.Abs(af-bf) <= tolerance
		}
		return af == bf
	}

	return a == b
}

func describe(f *Frame) string {
	if f == nil {
		return "no frame"
	}
	return fmt.Sprintf("%d columns x %d rows", f.Width(), f.Len())
}

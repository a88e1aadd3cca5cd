package frame

import (
	"github.com/cockroachdb/errors"
)

type mergeOptions struct {
	leftSuffix  string
	rightSuffix string
}

// A MergeOption configures Merge.
type MergeOption func(*mergeOptions)

// Suffixes sets the suffixes appended to non-key columns present on both sides.
// Defaults to "_x" and "_y".
func Suffixes(left, right string) MergeOption {
	return func(o *mergeOptions) {
		o.leftSuffix = left
		o.rightSuffix = right
	}
}

// Merge returns the inner join of left and right on the column named on.
//
// The result holds every column of left followed by every column of right
// except the key. Rows are ordered by left row, then by right row.
// Null keys never match.
func Merge(left, right *Frame, on string, opts ...MergeOption) (*Frame, error) {
	o := mergeOptions{
		leftSuffix:  "_x",
		rightSuffix: "_y",
	}
	for _, opt := range opts {
		opt(&o)
	}

	li := left.index(on)
	if li < 0 {
		return nil, errors.Wrapf(ErrColumnNotFound, "left frame has no key column %q", on)
	}
	ri := right.index(on)
	if ri < 0 {
		return nil, errors.Wrapf(ErrColumnNotFound, "right frame has no key column %q", on)
	}

	lk, rk := left.columns[li], right.columns[ri]
	if lk.Type != rk.Type && lk.Type != TypeNull && rk.Type != TypeNull {
		return nil, errors.Wrapf(ErrTypeMismatch, "cannot merge %s key with %s key on %q", lk.Type, rk.Type, on)
	}

	// right rows by key, in right order
	index := make(map[any][]int, rk.Len())
	for j, v := range rk.Values {
		if v == nil {
			continue
		}
		index[v] = append(index[v], j)
	}

	shared := make(map[string]bool)
	for i, c := range right.columns {
		if i != ri && left.index(c.Name) >= 0 && c.Name != on {
			shared[c.Name] = true
		}
	}

	var cols []Column
	for _, c := range left.columns {
		name := c.Name
		if shared[name] {
			name += o.leftSuffix
		}
		cols = append(cols, Column{Name: name, Type: c.Type})
	}
	rightCols := make([]int, 0, right.Width()-1)
	for j, c := range right.columns {
		if j == ri {
			continue
		}
		name := c.Name
		if shared[name] {
			name += o.rightSuffix
		}
		cols = append(cols, Column{Name: name, Type: c.Type})
		rightCols = append(rightCols, j)
	}

	for i, v := range lk.Values {
		if v == nil {
			continue
		}

		for _, j := range index[v] {
			for k, c := range left.columns {
				cols[k].Values = append(cols[k].Values, c.Values[i])
			}
			for k, rc := range rightCols {
				pos := left.Width() + k
				cols[pos].Values = append(cols[pos].Values, right.columns[rc].Values[j])
			}
		}
	}

	return New(cols...)
}

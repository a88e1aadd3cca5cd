package frame

import (
	"slices"

	"github.com/cockroachdb/errors"
)

// Builder creates a frame row by row.
// Columns declared with TypeAny take the type of their first non-nil value.
// An inferred bigint column becomes a double column when a float arrives.
type Builder struct {
	names    []string
	types    []Type
	declared []bool
	values   [][]any
	rows     int
}

// NewBuilder returns a builder for the given columns. If types is nil, every
// column is inferred.
func NewBuilder(names []string, types []Type) (*Builder, error) {
	if types == nil {
		types = make([]Type, len(names))
	}
	if len(types) != len(names) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d names for %d types", len(names), len(types))
	}

	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", n)
		}
		seen[n] = struct{}{}
	}

	b := Builder{
		names:    slices.Clone(names),
		types:    slices.Clone(types),
		declared: make([]bool, len(names)),
		values:   make([][]any, len(names)),
	}
	for i, t := range types {
		b.declared[i] = t != TypeAny
	}
	return &b, nil
}

// Append adds a row. It must contain one value per column.
// A rejected row leaves the builder unchanged.
func (b *Builder) Append(values ...any) error {
	if len(values) != len(b.names) {
		return errors.Wrapf(ErrLengthMismatch, "row has %d values, expected %d", len(values), len(b.names))
	}

	types := slices.Clone(b.types)
	row := make([]any, len(values))
	for i, v := range values {
		if v != nil && !b.declared[i] {
			vt, err := TypeOf(v)
			if err != nil {
				return errors.Wrapf(err, "column %q row %d", b.names[i], b.rows)
			}

			switch {
			case types[i] == TypeAny:
				types[i] = vt
			case types[i] == TypeBigint && vt == TypeDouble:
				types[i] = TypeDouble
			}
		}

		nv, err := normalize(types[i], v)
		if err != nil {
			return errors.Wrapf(err, "column %q row %d", b.names[i], b.rows)
		}
		row[i] = nv
	}

	for i, t := range types {
		if t == TypeDouble && b.types[i] == TypeBigint {
			for j, v := range b.values[i] {
				if v != nil {
					b.values[i][j] = float64(v.(int64))
				}
			}
		}
		b.values[i] = append(b.values[i], row[i])
	}
	b.types = types
	b.rows++
	return nil
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int {
	return b.rows
}

// Frame returns the frame built so far. Columns that are still untyped
// become TypeNull.
func (b *Builder) Frame() *Frame {
	f := Frame{
		columns: make([]Column, len(b.names)),
		rows:    b.rows,
	}

	for i, n := range b.names {
		t := b.types[i]
		if t == TypeAny {
			t = TypeNull
		}
		vs := make([]any, b.rows)
		copy(vs, b.values[i])
		f.columns[i] = Column{Name: n, Type: t, Values: vs}
	}

	return &f
}

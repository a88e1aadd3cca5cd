// Package frame implements an in-memory, column-oriented table of typed values.
//
// A Frame is what a query returns and what a test expects: an ordered list of
// named, typed columns of equal length. Frames are immutable once built; every
// operation returns a new Frame.
package frame

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Column is a named list of values sharing the same type.
type Column struct {
	Name   string
	Type   Type
	Values []any
}

// NewColumn creates a column of type t, converting each value to the canonical
// representation of t. If t is TypeAny, the type is inferred from the first
// non-nil value. A column without any non-nil value has type TypeNull.
func NewColumn(name string, t Type, values ...any) (Column, error) {
	if t == TypeAny {
		t = TypeNull
		for _, v := range values {
			if v == nil {
				continue
			}
			vt, err := TypeOf(v)
			if err != nil {
				return Column{}, errors.Wrapf(err, "column %q", name)
			}
			t = vt
			break
		}
	}

	c := Column{
		Name:   name,
		Type:   t,
		Values: make([]any, len(values)),
	}

	for i, v := range values {
		if t == TypeNull && v != nil {
			return Column{}, errors.Wrapf(ErrTypeMismatch, "column %q row %d: cannot use %v (%T) as null", name, i, v, v)
		}

		nv, err := normalize(t, v)
		if err != nil {
			return Column{}, errors.Wrapf(err, "column %q row %d", name, i)
		}
		c.Values[i] = nv
	}

	return c, nil
}

// Bigint creates a bigint column.
func Bigint(name string, values ...int64) Column {
	c := Column{Name: name, Type: TypeBigint, Values: make([]any, len(values))}
	for i, v := range values {
		c.Values[i] = v
	}
	return c
}

// Double creates a double column.
func Double(name string, values ...float64) Column {
	c := Column{Name: name, Type: TypeDouble, Values: make([]any, len(values))}
	for i, v := range values {
		c.Values[i] = v
	}
	return c
}

// Text creates a text column.
func Text(name string, values ...string) Column {
	c := Column{Name: name, Type: TypeText, Values: make([]any, len(values))}
	for i, v := range values {
		c.Values[i] = v
	}
	return c
}

// Boolean creates a boolean column.
func Boolean(name string, values ...bool) Column {
	c := Column{Name: name, Type: TypeBoolean, Values: make([]any, len(values))}
	for i, v := range values {
		c.Values[i] = v
	}
	return c
}

// Len returns the number of values of the column.
func (c Column) Len() int {
	return len(c.Values)
}

func (c Column) clone() Column {
	vs := make([]any, len(c.Values))
	copy(vs, c.Values)
	return Column{Name: c.Name, Type: c.Type, Values: vs}
}

// Frame is an ordered set of columns of equal length.
type Frame struct {
	columns []Column
	rows    int
}

// New creates a frame from the given columns. Column names must be unique and
// every column must have the same number of values. Values are validated
// and normalized against the type of their column.
func New(columns ...Column) (*Frame, error) {
	f := Frame{
		columns: make([]Column, 0, len(columns)),
	}

	seen := make(map[string]struct{}, len(columns))
	for i, c := range columns {
		if _, ok := seen[c.Name]; ok {
			return nil, errors.Wrapf(ErrDuplicateColumn, "%q", c.Name)
		}
		seen[c.Name] = struct{}{}

		if i == 0 {
			f.rows = c.Len()
		} else if c.Len() != f.rows {
			return nil, errors.Wrapf(ErrLengthMismatch, "column %q has %d values, expected %d", c.Name, c.Len(), f.rows)
		}

		nc, err := NewColumn(c.Name, c.Type, c.Values...)
		if err != nil {
			return nil, err
		}
		f.columns = append(f.columns, nc)
	}

	return &f, nil
}

// MustNew calls New and panics on error.
func MustNew(columns ...Column) *Frame {
	f, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return f.rows
}

// Width returns the number of columns.
func (f *Frame) Width() int {
	return len(f.columns)
}

// Names returns the column names, in order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.columns))
	for i, c := range f.columns {
		names[i] = c.Name
	}
	return names
}

// Types returns the column types, in order.
func (f *Frame) Types() []Type {
	types := make([]Type, len(f.columns))
	for i, c := range f.columns {
		types[i] = c.Type
	}
	return types
}

// Column returns a copy of the column with the given name.
func (f *Frame) Column(name string) (Column, error) {
	i := f.index(name)
	if i < 0 {
		return Column{}, errors.Wrapf(ErrColumnNotFound, "%q", name)
	}
	return f.columns[i].clone(), nil
}

// Columns returns a copy of every column.
func (f *Frame) Columns() []Column {
	cols := make([]Column, len(f.columns))
	for i, c := range f.columns {
		cols[i] = c.clone()
	}
	return cols
}

// Row returns the values of the i-th row. It panics if i is out of range.
func (f *Frame) Row(i int) []any {
	if i < 0 || i >= f.rows {
		panic(errors.Newf("row %d out of range [0, %d)", i, f.rows))
	}

	r := make([]any, len(f.columns))
	for j, c := range f.columns {
		r[j] = c.Values[i]
	}
	return r
}

// Rows returns every row of the frame.
func (f *Frame) Rows() [][]any {
	rows := make([][]any, f.rows)
	for i := range rows {
		rows[i] = f.Row(i)
	}
	return rows
}

// Select returns a frame with only the given columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		i := f.index(name)
		if i < 0 {
			return nil, errors.Wrapf(ErrColumnNotFound, "cannot select %q, available columns: %s", name, strings.Join(f.Names(), ", "))
		}
		cols = append(cols, f.columns[i])
	}

	return New(cols...)
}

func (f *Frame) index(name string) int {
	for i := range f.columns {
		if f.columns[i].Name == name {
			return i
		}
	}
	return -1
}

package frame

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrColumnNotFound is returned when looking up a column that doesn't exist.
	ErrColumnNotFound = errors.New("column not found")
	// ErrDuplicateColumn is returned when two columns of a frame share a name.
	ErrDuplicateColumn = errors.New("duplicate column")
	// ErrLengthMismatch is returned when the columns of a frame don't have the same length.
	ErrLengthMismatch = errors.New("columns length mismatch")
	// ErrTypeMismatch is returned when a value doesn't fit the type of its column.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrUnsupportedType is returned for Go values that have no column type.
	ErrUnsupportedType = errors.New("unsupported type")
)

// Type represents the type of a column.
type Type uint8

// List of supported types.
const (
	// TypeAny denotes a column whose type is not known yet.
	TypeAny Type = iota
	TypeNull
	TypeBoolean
	TypeBigint
	TypeDouble
	TypeText
)

func (t Type) String() string {
	switch t {
	case TypeAny:
		return "any"
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeBigint:
		return "bigint"
	case TypeDouble:
		return "double"
	case TypeText:
		return "text"
	}

	panic(fmt.Sprintf("unsupported type %#v", t))
}

// ParseType returns the type named s. Common SQL and Go aliases are accepted.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "":
		return TypeAny, nil
	case "null":
		return TypeNull, nil
	case "boolean", "bool":
		return TypeBoolean, nil
	case "bigint", "int", "integer", "int64", "smallint":
		return TypeBigint, nil
	case "double", "float", "float64", "real", "numeric", "decimal":
		return TypeDouble, nil
	case "text", "string", "varchar", "char":
		return TypeText, nil
	}

	return TypeAny, errors.Wrapf(ErrUnsupportedType, "unknown type name %q", s)
}

// TypeOf returns the column type of the Go value v.
func TypeOf(v any) (Type, error) {
	switch v.(type) {
	case nil:
		return TypeNull, nil
	case bool:
		return TypeBoolean, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeBigint, nil
	case float32, float64:
		return TypeDouble, nil
	case string, []byte:
		return TypeText, nil
	}

	return TypeAny, errors.Wrapf(ErrUnsupportedType, "%T", v)
}

// normalize converts v to the canonical Go representation of t:
// int64 for bigint, float64 for double, string for text and bool for boolean.
// Nil is a valid value for every type.
func normalize(t Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}

	if t == TypeAny {
		vt, err := TypeOf(v)
		if err != nil {
			return nil, err
		}
		t = vt
	}

	switch t {
	case TypeBoolean:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case TypeBigint:
		if i, ok := toInt64(v); ok {
			return i, nil
		}
	case TypeDouble:
		switch x := v.(type) {
		case float64:
			return x, nil
		case float32:
			return float64(x), nil
		}
		if i, ok := toInt64(v); ok {
			return float64(i), nil
		}
	case TypeText:
		switch x := v.(type) {
		case string:
			return x, nil
		case []byte:
			return string(x), nil
		}
	}

	return nil, errors.Wrapf(ErrTypeMismatch, "cannot use %v (%T) as %s", v, v, t)
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return uintToInt64(uint64(x))
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return uintToInt64(x)
	}

	return 0, false
}

func uintToInt64(x uint64) (int64, bool) {
	if x > math.MaxInt64 {
		return 0, false
	}
	return int64(x), true
}

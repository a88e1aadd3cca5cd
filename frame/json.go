package frame

import (
	"encoding/json"
	"math"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

type jsonColumn struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Values []any  `json:"values"`
}

// MarshalJSON encodes the frame column by column:
//
//	{"columns": [{"name": "id", "type": "bigint", "values": [1, 2]}]}
//
// NaN and infinite doubles have no JSON number form and are written as the
// strings "NaN", "Infinity" and "-Infinity".
func (f *Frame) MarshalJSON() ([]byte, error) {
	doc := struct {
		Columns []jsonColumn `json:"columns"`
	}{
		Columns: make([]jsonColumn, len(f.columns)),
	}

	for i, c := range f.columns {
		values := c.Values
		if c.Type == TypeDouble {
			values = make([]any, len(c.Values))
			for j, v := range c.Values {
				values[j] = encodeDouble(v)
			}
		}
		if values == nil {
			values = []any{}
		}
		doc.Columns[i] = jsonColumn{Name: c.Name, Type: c.Type.String(), Values: values}
	}

	return json.Marshal(doc)
}

// UnmarshalJSON decodes a frame encoded by MarshalJSON.
// A column without a type is inferred from its values.
func (f *Frame) UnmarshalJSON(data []byte) error {
	var cols []Column
	var cerr error

	_, err := jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if cerr != nil {
			return
		}
		if err != nil {
			cerr = err
			return
		}
		if dataType != jsonparser.Object {
			cerr = errors.Newf("column %d: expected an object, got %s", len(cols), dataType)
			return
		}

		c, err := parseJSONColumn(value)
		if err != nil {
			cerr = errors.Wrapf(err, "column %d", len(cols))
			return
		}
		cols = append(cols, c)
	}, "columns")
	if err != nil {
		return errors.Wrap(err, "cannot decode frame")
	}
	if cerr != nil {
		return errors.Wrap(cerr, "cannot decode frame")
	}

	nf, err := New(cols...)
	if err != nil {
		return err
	}

	*f = *nf
	return nil
}

func parseJSONColumn(data []byte) (Column, error) {
	name, err := jsonparser.GetString(data, "name")
	if err != nil {
		return Column{}, errors.Wrap(err, "missing name")
	}

	t := TypeAny
	rawType, err := jsonparser.GetString(data, "type")
	switch {
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
	case err != nil:
		return Column{}, err
	default:
		t, err = ParseType(rawType)
		if err != nil {
			return Column{}, err
		}
	}

	var values []any
	var verr error
	_, err = jsonparser.ArrayEach(data, func(value []byte, dataType jsonparser.ValueType, _ int, err error) {
		if verr != nil {
			return
		}
		if err != nil {
			verr = err
			return
		}

		v, err := parseJSONValue(dataType, value)
		if err != nil {
			verr = errors.Wrapf(err, "row %d", len(values))
			return
		}
		values = append(values, v)
	}, "values")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return Column{}, err
	}
	if verr != nil {
		return Column{}, verr
	}

	if t == TypeDouble {
		for i, v := range values {
			values[i] = decodeDouble(v)
		}
	}

	return NewColumn(name, t, values...)
}

func encodeDouble(v any) any {
	x, ok := v.(float64)
	if !ok {
		return v
	}

	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "Infinity"
	case math.IsInf(x, -1):
		return "-Infinity"
	}
	return x
}

func decodeDouble(v any) any {
	switch v {
	case "NaN":
		return math.NaN()
	case "Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	return v
}

func parseJSONValue(dataType jsonparser.ValueType, data []byte) (any, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(data)
	case jsonparser.Number:
		i, err := jsonparser.ParseInt(data)
		if err != nil {
			// not an integer or too big to fit in an int64
			return jsonparser.ParseFloat(data)
		}
		return i, nil
	case jsonparser.String:
		return jsonparser.ParseString(data)
	default:
		return nil, errors.Wrapf(ErrUnsupportedType, "JSON %s", dataType)
	}
}

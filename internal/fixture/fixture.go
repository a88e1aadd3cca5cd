// Package fixture decodes fixture files into frames.
//
// A fixture lists the columns of a frame in order:
//
//	columns:
//	  - name: id
//	    type: bigint
//	    values: [1, 2, 3]
//
// The same layout is accepted in JSON. The type may be omitted, in which
// case it is inferred from the values.
package fixture

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned when the extension of a fixture file
// is neither YAML nor JSON.
var ErrUnknownFormat = errors.New("unknown fixture format")

type document struct {
	Columns []column `yaml:"columns"`
}

type column struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Values []any  `yaml:"values"`
}

// Load reads the fixture stored at path. The format is chosen by extension.
func Load(path string) (*frame.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read fixture %q", path)
	}

	var f *frame.Frame
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		f, err = DecodeYAML(data)
	case ".json":
		f, err = DecodeJSON(data)
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "invalid fixture %q", path)
	}

	return f, nil
}

// DecodeYAML decodes a YAML fixture.
func DecodeYAML(data []byte) (*frame.Frame, error) {
	var doc document

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithStack(err)
	}

	cols := make([]frame.Column, 0, len(doc.Columns))
	for i, c := range doc.Columns {
		if c.Name == "" {
			return nil, errors.Newf("column %d: missing name", i)
		}

		t, err := frame.ParseType(c.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", c.Name)
		}

		col, err := frame.NewColumn(c.Name, t, c.Values...)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}

	return frame.New(cols...)
}

// DecodeJSON decodes a JSON fixture.
func DecodeJSON(data []byte) (*frame.Frame, error) {
	var f frame.Frame
	if err := f.UnmarshalJSON(data); err != nil {
		return nil, err
	}

	return &f, nil
}

package querier

import (
	"database/sql"
	"strings"
	"time"

	"github.com/chaisql/sqlfixture/frame"
	"github.com/cockroachdb/errors"
)

// Scan reads every row into a frame. Column types come from the database
// type names reported by the driver. Columns with an unknown type name take
// the type of their values. Timestamps are turned into RFC 3339 text.
func Scan(rows *sql.Rows) (*frame.Frame, error) {
	cts, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.Wrap(err, "cannot read column types")
	}

	names := make([]string, len(cts))
	types := make([]frame.Type, len(cts))
	for i, ct := range cts {
		names[i] = ct.Name()
		types[i] = typeFromDatabase(ct.DatabaseTypeName())
	}

	b, err := frame.NewBuilder(names, types)
	if err != nil {
		return nil, err
	}

	values := make([]any, len(cts))
	ptrs := make([]any, len(cts))
	for rows.Next() {
		for i := range values {
			values[i] = nil
			ptrs[i] = &values[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return nil, errors.Wrapf(err, "cannot scan row %d", b.Len())
		}

		for i, v := range values {
			if t, ok := v.(time.Time); ok {
				values[i] = t.Format(time.RFC3339Nano)
			}
		}

		if err := b.Append(values...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	return b.Frame(), nil
}

// typeFromDatabase maps the database type name of a column to a frame type.
// Ambiguous names, like BOOLEAN which some drivers report for integer
// values, map to TypeAny.
func typeFromDatabase(name string) frame.Type {
	name = strings.ToUpper(strings.TrimSpace(name))
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}

	switch name {
	case "INTEGER", "INT", "BIGINT", "SMALLINT", "TINYINT", "MEDIUMINT",
		"INT2", "INT4", "INT8", "SERIAL", "BIGSERIAL":
		return frame.TypeBigint
	case "REAL", "DOUBLE", "DOUBLE PRECISION", "FLOAT", "FLOAT4", "FLOAT8":
		return frame.TypeDouble
	case "TEXT", "VARCHAR", "CHAR", "CHARACTER", "CHARACTER VARYING", "BPCHAR", "NAME", "CLOB", "NVARCHAR", "NCHAR":
		return frame.TypeText
	}

	return frame.TypeAny
}

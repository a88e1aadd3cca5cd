package queryfile

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
)

// Validate parses the query and returns the parse error, if any.
// The parser follows the MySQL dialect.
func Validate(query string) error {
	_, err := parse(query)
	return err
}

// Tables returns the names of the tables referenced by the query,
// in order of appearance and without duplicates.
func Tables(query string) ([]string, error) {
	stmt, err := parse(query)
	if err != nil {
		return nil, err
	}

	var tables []string
	seen := make(map[string]bool)
	add := func(t sqlparser.TableName) {
		name := t.Name.String()
		if name == "" || strings.EqualFold(name, "dual") || seen[name] {
			return
		}
		seen[name] = true
		tables = append(tables, name)
	}

	// column qualifiers are TableName nodes too, only look at table expressions
	err = sqlparser.Walk(func(node sqlparser.SQLNode) (bool, error) {
		switch n := node.(type) {
		case *sqlparser.AliasedTableExpr:
			if t, ok := n.Expr.(sqlparser.TableName); ok {
				add(t)
			}
		case *sqlparser.Insert:
			add(n.Table)
		}
		return true, nil
	}, stmt)
	if err != nil {
		return nil, err
	}

	return tables, nil
}

func parse(query string) (sqlparser.Statement, error) {
	q := strings.TrimSuffix(strings.TrimSpace(query), ";")
	if strings.TrimSpace(q) == "" {
		return nil, ErrEmptyQuery
	}

	stmt, err := sqlparser.Parse(q)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse query")
	}
	return stmt, nil
}

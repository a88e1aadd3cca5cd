package dbutil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/chaisql/sqlfixture/internal/runner"
	"github.com/chaisql/sqlfixture/querier"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

// Output formats of ExecQuery.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// ExecQuery runs query and writes the result to w, as a table or as JSON.
func ExecQuery(ctx context.Context, q querier.Querier, query, format string, w io.Writer) error {
	if format != FormatTable && format != FormatJSON {
		return errors.Newf("unknown format %q", format)
	}

	f, err := q.Query(ctx, query)
	if err != nil {
		return err
	}

	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	}

	_, err = fmt.Fprintln(w, f.String())
	return err
}

// PrintReport writes one line per case followed by a summary.
func PrintReport(w io.Writer, r *runner.Report) error {
	for i := range r.Results {
		res := &r.Results[i]

		var err error
		if res.Passed() {
			_, err = fmt.Fprintf(w, "%s %s (%v)\n", passStyle.Render("PASS"), res.Case.Name, res.Duration)
		} else {
			_, err = fmt.Fprintf(w, "%s %s: %v\n", failStyle.Render("FAIL"), res.Case.Name, res.Err)
		}
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "%d passed, %d failed\n", r.Passed(), r.Failed())
	return err
}

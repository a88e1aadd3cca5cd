package frame

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// String renders the frame as a table, one line per row.
func (f *Frame) String() string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(f.Names()...)

	for i := 0; i < f.rows; i++ {
		cells := make([]string, len(f.columns))
		for j, c := range f.columns {
			cells[j] = formatValue(c.Values[i])
		}
		t.Row(cells...)
	}

	return t.String()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	}

	return fmt.Sprint(v)
}

// Package queryfile loads SQL statements stored in files.
//
// A query file holds a single statement. It is read as a whole and trimmed of
// surrounding whitespace; the resulting string is passed as is to the database.
package queryfile

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound is returned when a query file doesn't exist.
	ErrNotFound = errors.New("query file not found")
	// ErrEmptyQuery is returned by Validate for a blank query.
	ErrEmptyQuery = errors.New("empty query")
)

// NotFoundError is returned when a query file doesn't exist. It matches ErrNotFound.
type NotFoundError struct {
	Name string
	// Suggestions lists existing query files with a similar name.
	Suggestions []string
	Err         error
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("query file %q not found", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(", did you mean %s?", quoteAll(e.Suggestions))
	}
	return msg
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Load reads the query stored in the file at path.
// Loading the same file twice returns the same string.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", readError(path, err)
	}

	return strings.TrimSpace(string(data)), nil
}

// LoadFS reads the query stored in the named file of fsys.
func LoadFS(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", readError(name, err)
	}

	return strings.TrimSpace(string(data)), nil
}

func readError(name string, err error) error {
	if os.IsNotExist(err) {
		return &NotFoundError{Name: name, Err: err}
	}

	return errors.Wrapf(err, "cannot read query file %q", name)
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, " or ")
}

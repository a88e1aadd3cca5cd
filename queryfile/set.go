package queryfile

import (
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/cockroachdb/errors"
)

// Set is a directory of query files.
type Set struct {
	fsys fs.FS
}

// Dir returns the set of query files stored under the directory dir.
func Dir(dir string) *Set {
	return &Set{fsys: os.DirFS(dir)}
}

// FS returns the set of query files stored in fsys.
func FS(fsys fs.FS) *Set {
	return &Set{fsys: fsys}
}

// Load reads the named query. The ".sql" extension is added if name has none.
// If the file doesn't exist, the returned *NotFoundError lists the closest names.
func (s *Set) Load(name string) (string, error) {
	if path.Ext(name) == "" {
		name += ".sql"
	}

	q, err := LoadFS(s.fsys, name)
	if err == nil {
		return q, nil
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		names, lerr := s.Names()
		if lerr == nil {
			nf.Suggestions = suggest(name, names)
		}
	}

	return "", err
}

// Names returns the path of every ".sql" file of the set, in lexical order.
func (s *Set) Names() ([]string, error) {
	var names []string

	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".sql" {
			names = append(names, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot list query files")
	}

	// WalkDir is lexical per directory only: "a/x.sql" comes before "a.sql"
	slices.Sort(names)
	return names, nil
}

func suggest(name string, names []string) []string {
	var suggestions []string
	for _, n := range names {
		if shouldSuggest(n, name) {
			suggestions = append(suggestions, n)
		}
	}
	return suggestions
}

func shouldSuggest(name, in string) bool {
	// input should be at least half the name size to get a suggestion.
	d := levenshtein.ComputeDistance(strings.TrimSuffix(name, ".sql"), strings.TrimSuffix(in, ".sql"))
	return d < len(strings.TrimSuffix(name, ".sql"))/2
}

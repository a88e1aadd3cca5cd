package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chaisql/sqlfixture/internal/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	t.Setenv(config.EnvDriver, "")
	t.Setenv(config.EnvDSN, "")
	t.Setenv(config.EnvLogLevel, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const suite = `
database:
  driver: sqlite
  dsn: "file:suite?mode=memory"
queries: queries
seeds:
  - table: books
    fixture: testdata/books.yaml
cases:
  - name: books
    query: books_query
    expected: testdata/books.yaml
  - name: prices
    query: prices
    expected: /abs/prices.json
    tolerance: 0.001
`

func TestLoad(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "sqlfixture.yaml", suite)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	want := &config.Config{
		Database: config.Database{Driver: "sqlite", DSN: "file:suite?mode=memory"},
		Queries:  filepath.Join(dir, "queries"),
		LogLevel: "info",
		Seeds: []config.Seed{
			{Table: "books", Fixture: filepath.Join(dir, "testdata/books.yaml")},
		},
		Cases: []config.Case{
			{Name: "books", Query: "books_query", Expected: filepath.Join(dir, "testdata/books.yaml")},
			{Name: "prices", Query: "prices", Expected: "/abs/prices.json", Tolerance: 0.001},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "sqlfixture.yaml", "cases: []\n")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, ":memory:", cfg.Database.DSN)
	require.Equal(t, filepath.Join(dir, "queries"), cfg.Queries)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadEnv(t *testing.T) {
	t.Run("dotenv", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		path := writeFile(t, dir, "sqlfixture.yaml", suite)
		writeFile(t, dir, ".env", "SQLFIXTURE_DRIVER=pgx\nSQLFIXTURE_DSN=postgres://localhost/books\nLOG_LEVEL=debug\n")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, config.Database{Driver: "pgx", DSN: "postgres://localhost/books"}, cfg.Database)
		require.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("environment wins over dotenv", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(config.EnvDSN, "postgres://db/library")
		dir := t.TempDir()
		path := writeFile(t, dir, "sqlfixture.yaml", suite)
		writeFile(t, dir, ".env", "SQLFIXTURE_DRIVER=postgres\nSQLFIXTURE_DSN=postgres://localhost/books\n")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		require.Equal(t, config.Database{Driver: "postgres", DSN: "postgres://db/library"}, cfg.Database)
	})
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	dir := t.TempDir()
	path := writeFile(t, dir, "sqlfixture.yaml", "cases: [")
	_, err = config.Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.DefaultConfig()
		cfg.Cases = []config.Case{{Name: "books", Query: "books_query", Expected: "books.yaml"}}
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"no driver", func(c *config.Config) { c.Database.Driver = "" }},
		{"no dsn", func(c *config.Config) { c.Database.DSN = " " }},
		{"seed without fixture", func(c *config.Config) { c.Seeds = []config.Seed{{Table: "books"}} }},
		{"case without name", func(c *config.Config) { c.Cases[0].Name = "" }},
		{"case without query", func(c *config.Config) { c.Cases[0].Query = "" }},
		{"case without expected", func(c *config.Config) { c.Cases[0].Expected = "" }},
		{"negative tolerance", func(c *config.Config) { c.Cases[0].Tolerance = -1 }},
		{"duplicate case", func(c *config.Config) { c.Cases = append(c.Cases, c.Cases[0]) }},
	}

	require.NoError(t, valid().Validate())

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := valid()
			test.mutate(cfg)
			require.ErrorIs(t, cfg.Validate(), config.ErrInvalid)
		})
	}
}

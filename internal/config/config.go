// Package config loads the description of a query suite: the database to
// run against, the tables to seed and the cases to check.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables overriding the config file.
const (
	EnvDriver   = "SQLFIXTURE_DRIVER"
	EnvDSN      = "SQLFIXTURE_DSN"
	EnvLogLevel = "LOG_LEVEL"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config describes a suite: where to run it, what to seed and what to check.
type Config struct {
	Database Database `yaml:"database"`
	// Queries is the directory holding the query files.
	Queries  string `yaml:"queries"`
	LogLevel string `yaml:"log_level"`
	Seeds    []Seed `yaml:"seeds"`
	Cases    []Case `yaml:"cases"`
}

// Database is the database/sql driver name and data source name.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Seed creates Table from the rows of Fixture before the cases run.
type Seed struct {
	Table   string `yaml:"table"`
	Fixture string `yaml:"fixture"`
}

// Case runs the query file named Query and compares the result with the
// Expected fixture.
type Case struct {
	Name      string  `yaml:"name"`
	Query     string  `yaml:"query"`
	Expected  string  `yaml:"expected"`
	Tolerance float64 `yaml:"tolerance"`
}

// DefaultConfig returns a config targeting an in-memory SQLite database,
// with queries read from the "queries" directory.
func DefaultConfig() *Config {
	return &Config{
		Database: Database{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
		Queries:  "queries",
		LogLevel: "info",
	}
}

// Load reads the config file at path. A .env file in the same directory
// is read when present. Environment variables take precedence over
// the .env file, which takes precedence over the config file.
// Relative paths are resolved against the directory of the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", path)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}

	dir := filepath.Dir(path)

	env, err := readDotEnv(filepath.Join(dir, ".env"))
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(env)
	cfg.resolve(dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func readDotEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "cannot read %q", path)
	}
	return env, nil
}

func (c *Config) applyEnv(dotenv map[string]string) {
	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(EnvDriver); ok {
		c.Database.Driver = v
	}
	if v, ok := lookup(EnvDSN); ok {
		c.Database.DSN = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
}

func (c *Config) resolve(dir string) {
	c.Queries = join(dir, c.Queries)
	for i := range c.Seeds {
		c.Seeds[i].Fixture = join(dir, c.Seeds[i].Fixture)
	}
	for i := range c.Cases {
		c.Cases[i].Expected = join(dir, c.Cases[i].Expected)
	}
}

func join(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Validate checks that the config describes a runnable suite.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Driver) == "" {
		return errors.Wrap(ErrInvalid, "database driver is required")
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.Wrap(ErrInvalid, "database dsn is required")
	}

	for i, s := range c.Seeds {
		if s.Table == "" || s.Fixture == "" {
			return errors.Wrapf(ErrInvalid, "seed %d: table and fixture are required", i)
		}
	}

	names := make(map[string]struct{}, len(c.Cases))
	for i, cs := range c.Cases {
		if cs.Name == "" {
			return errors.Wrapf(ErrInvalid, "case %d: name is required", i)
		}
		if cs.Query == "" {
			return errors.Wrapf(ErrInvalid, "case %q: query is required", cs.Name)
		}
		if cs.Expected == "" {
			return errors.Wrapf(ErrInvalid, "case %q: expected is required", cs.Name)
		}
		if cs.Tolerance < 0 {
			return errors.Wrapf(ErrInvalid, "case %q: tolerance must not be negative", cs.Name)
		}
		if _, ok := names[cs.Name]; ok {
			return errors.Wrapf(ErrInvalid, "duplicate case %q", cs.Name)
		}
		names[cs.Name] = struct{}{}
	}

	return nil
}

// Package config loads the settings of a corpus run from YAML.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/hack-pad/hackpadfs"
	"gopkg.in/yaml.v2"

	"github.com/cubedhuang/toki-pona-data-processing/pkg/gate"
	"github.com/cubedhuang/toki-pona-data-processing/pkg/parser"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("config: invalid")

// Config is the root of the YAML document.
type Config struct {
	Parser   Parser       `yaml:"parser"`
	Gate     gate.Options `yaml:"gate"`
	Pipeline Pipeline     `yaml:"pipeline"`
	Store    Store        `yaml:"store"`
	Server   Server       `yaml:"server"`
}

// Parser bounds the work spent on one sentence.
type Parser struct {
	MaxTrees int           `yaml:"max_trees"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Pipeline configures batch runs.
type Pipeline struct {
	Workers        int `yaml:"workers"`
	ReportMinTotal int `yaml:"report_min_total"`
	ProgressEvery  int `yaml:"progress_every"`
	TrendWindow    int `yaml:"trend_window"`
}

// Store selects the count database.
type Store struct {
	// "sqlite" or "memory"
	Driver string `yaml:"driver"`
	// SQLite data source; ":memory:" keeps the database in memory
	Path string `yaml:"path"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TopTrees       int      `yaml:"top_trees"`
}

// Default returns the settings used for the corpus run.
func Default() Config {
	return Config{
		Parser: Parser{
			MaxTrees: parser.DefaultMaxTrees,
			Timeout:  parser.DefaultTimeout,
		},
		Gate: gate.DefaultOptions(),
		Pipeline: Pipeline{
			Workers:        4,
			ReportMinTotal: 30,
			ProgressEvery:  1000,
			TrendWindow:    1000,
		},
		Store: Store{
			Driver: "sqlite",
			Path:   ":memory:",
		},
		Server: Server{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
			TopTrees:       5,
		},
	}
}

// Load reads path from fsys on top of the defaults. Keys missing from the
// file keep their default values.
func Load(fsys hackpadfs.FS, path string) (Config, error) {
	cfg := Default()
	data, err := hackpadfs.ReadFile(fsys, path)
	if err != nil {
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values no run could use.
func (c Config) Validate() error {
	switch {
	case c.Parser.MaxTrees <= 0:
		return fmt.Errorf("%w: parser.max_trees must be positive", ErrInvalid)
	case c.Parser.Timeout <= 0:
		return fmt.Errorf("%w: parser.timeout must be positive", ErrInvalid)
	case c.Gate.PassingScore < 0 || c.Gate.PassingScore > 1:
		return fmt.Errorf("%w: gate.passing_score must be within [0, 1]", ErrInvalid)
	case c.Gate.MessageMinimum < 0 || c.Gate.MessageMinimum > 1:
		return fmt.Errorf("%w: gate.message_minimum must be within [0, 1]", ErrInvalid)
	case c.Gate.ShortMessageMinimum < 0 || c.Gate.ShortMessageMinimum > 1:
		return fmt.Errorf("%w: gate.short_message_minimum must be within [0, 1]", ErrInvalid)
	case c.Gate.ShortSentence < 0:
		return fmt.Errorf("%w: gate.short_sentence must not be negative", ErrInvalid)
	case c.Pipeline.Workers <= 0:
		return fmt.Errorf("%w: pipeline.workers must be positive", ErrInvalid)
	case c.Pipeline.ReportMinTotal < 0:
		return fmt.Errorf("%w: pipeline.report_min_total must not be negative", ErrInvalid)
	case c.Store.Driver != "sqlite" && c.Store.Driver != "memory":
		return fmt.Errorf("%w: unknown store.driver %q", ErrInvalid, c.Store.Driver)
	case c.Server.TopTrees <= 0:
		return fmt.Errorf("%w: server.top_trees must be positive", ErrInvalid)
	}
	if _, err := gate.ScorerByName(c.Gate.Scorer); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Package config loads graphclone settings from a CUE file.
//
// The file is unified with a closed #Config definition, so unknown fields and
// out-of-range values are reported with their source position:
//
//	unsupported: "reject"
//	max_depth:   64
//	log_level:   "debug"
//	workers:     8
package config

import (
	"fmt"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/graphclone/internal/clone"
)

const schema = `
#Config: {
	unsupported: *"share" | "reject"
	max_depth:   int & >=0 | *0
	log_level:   *"info" | "debug" | "warn" | "error"
	workers:     int & >=1 | *4
}

config: #Config
`

// Config holds the settings shared by all commands.
type Config struct {
	Unsupported string `json:"unsupported"`
	MaxDepth    int    `json:"max_depth"`
	LogLevel    string `json:"log_level"`
	Workers     int    `json:"workers"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Unsupported: "share",
		MaxDepth:    0,
		LogLevel:    "info",
		Workers:     4,
	}
}

// Load reads and validates a CUE config file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(path, data)
}

// Parse validates CUE source against the schema and applies defaults.
// filename is only used in error positions.
func Parse(filename string, data []byte) (Config, error) {
	ctx := cuecontext.New()

	root := ctx.CompileString(schema, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return Config{}, fmt.Errorf("config schema: %w", err)
	}

	file := ctx.CompileBytes(data, cue.Filename(filename))
	if err := file.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}

	v := root.FillPath(cue.ParsePath("config"), file).LookupPath(cue.ParsePath("config"))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// ClonerOptions translates the settings into clone options.
func (c Config) ClonerOptions(logger *slog.Logger) ([]clone.Option, error) {
	policy, err := clone.ParsePolicy(c.Unsupported)
	if err != nil {
		return nil, err
	}
	opts := []clone.Option{
		clone.WithUnsupported(policy),
		clone.WithMaxDepth(c.MaxDepth),
	}
	if logger != nil {
		opts = append(opts, clone.WithLogger(logger))
	}
	return opts, nil
}

// Error is a config problem with its position in the source file.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// formatCUEError keeps the first error and its position.
func formatCUEError(err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &Error{Message: first.Error(), Pos: positions[0]}
	}
	return &Error{Message: first.Error()}
}

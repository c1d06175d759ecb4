// Package logging builds the zerolog logger shared by all binaries.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger at the given level; in dev the output is
// pretty-printed instead.
func New(level, env string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(lvl).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(lvl).With().Timestamp().Logger()
}

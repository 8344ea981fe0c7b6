package shared

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// SetupLogger configures zerolog at the named level, with pretty console
// output or JSON lines
func SetupLogger(level string, jsonOutput bool) (zerolog.Logger, error) {
	return newLogger(os.Stderr, level, jsonOutput)
}

func newLogger(w io.Writer, level string, jsonOutput bool) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if jsonOutput {
		zerolog.TimeFieldFormat = time.RFC3339Nano
	} else {
		w = zerolog.ConsoleWriter{Out: w}
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger(), nil
}

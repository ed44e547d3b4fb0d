// Package logger provides the structured zerolog logger shared by all
// landisc commands.
package logger

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Init returns a console logger at the given level. Unknown or empty
// level strings fall back to info, matching the config default.
func Init(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	w := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger points the global logger at a human-readable console writer.
// Diagnostics go to stderr by default so that stdout only carries the
// tool's own report lines.
func InitLogger(out io.Writer) {
	if out == nil {
		out = os.Stderr
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.TimeOnly,
		FormatLevel: func(i any) string {
			s, _ := i.(string)
			return colorizeLevel(s)
		},
		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprintf("> %s", i)
		},
	}

	log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

// SetLogLevel sets the global logging level.
func SetLogLevel(level string) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Invalid log level '%s'. Using 'info' level.", level)
		return
	}

	zerolog.SetGlobalLevel(logLevel)
}

// LevelFor maps the command line verbosity switches to a level name.
func LevelFor(debug, quiet bool) string {
	switch {
	case debug:
		return zerolog.LevelDebugValue
	case quiet:
		return zerolog.LevelWarnValue
	default:
		return zerolog.LevelInfoValue
	}
}

func colorizeLevel(level string) string {
	switch strings.ToLower(level) {
	case "debug":
		return "\033[36mDBG\033[0m" // Cyan
	case "info":
		return "\033[32mINF\033[0m" // Green
	case "warn":
		return "\033[33mWRN\033[0m" // Yellow
	case "error":
		return "\033[31mERR\033[0m" // Red
	case "fatal":
		return "\033[35mFTL\033[0m" // Magenta
	case "panic":
		return "\033[41mPNC\033[0m" // Red background
	default:
		return level
	}
}

package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	// Log is the global logger instance
	Log zerolog.Logger
)

func init() {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339Nano

	use(New(os.Stdout, "console"))
}

// use installs l as both Log and the zerolog/log global so packages logging
// through either end up on the same writer.
func use(l zerolog.Logger) {
	Log = l
	log.Logger = l
}

// New builds a logger writing to out. Format "json" emits raw JSON lines,
// anything else uses the colored console writer.
func New(out io.Writer, format string) zerolog.Logger {
	w := out
	if !strings.EqualFold(format, "json") {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: "2006-01-02 15:04:05",
		}
	}

	return zerolog.New(w).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Configure replaces the global loggers with ones writing to stdout in the
// given format and level.
func Configure(format, level string) {
	ConfigureOutput(os.Stdout, format, level)
}

// ConfigureOutput is Configure with an explicit writer.
func ConfigureOutput(out io.Writer, format, level string) {
	use(New(out, format))
	SetLevel(level)
}

// SetLevel sets the log level
func SetLevel(levelStr string) {
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		Log.Warn().Str("level", levelStr).Msg("invalid log level, defaulting to info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	use(Log.Level(level))
}

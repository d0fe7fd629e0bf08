package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger sets up the global zerolog logger. Production gets JSON lines,
// everything else a human-readable console writer.
func InitLogger(production bool, level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	var out io.Writer = os.Stdout
	if !production {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

// LogError is a helper to log an error with zerolog.
func LogError(err error, message string) {
	if err != nil {
		log.Error().Err(err).Msg(message)
	}
}

// LogInfo is a helper to log an informational message.
func LogInfo(message string, fields ...map[string]interface{}) {
	event := log.Info()
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(message)
}

func LogWarn(message string, fields ...map[string]interface{}) {
	event := log.Warn()
	for _, f := range fields {
		event = event.Fields(f)
	}
	event.Msg(message)
}

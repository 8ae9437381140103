package logger

import (
	"io"
	"os"
	"strings"

	kitlog "github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

type Config struct {
	Service string
	Version string
	Level   string
	// Output defaults to os.Stderr
	Output io.Writer
}

// New creates a new structured logger using go-kit/log
func New(config Config) kitlog.Logger {
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(out))
	logger = level.NewFilter(logger, levelOption(config.Level))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC)
	logger = kitlog.With(logger, "caller", kitlog.DefaultCaller)
	logger = kitlog.With(logger, "service", config.Service, "version", config.Version)
	return logger
}

func levelOption(name string) level.Option {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return level.AllowDebug()
	case "warn", "warning":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	case "none", "off":
		return level.AllowNone()
	default:
		return level.AllowInfo()
	}
}

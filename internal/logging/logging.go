package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"
)

// LevelEnv overrides the configured log level.
const LevelEnv = "CRITIC_LOG_LEVEL"

// New creates a named logger writing to out (stdout when nil).
func New(name, level string, out io.Writer) hclog.Logger {
	if out == nil {
		out = os.Stdout
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:        name,
		DisableTime: true,
		Output:      out,
		Level:       determineLevel(level),
	})
}

// determineLevel prefers the environment variable over the configured value.
func determineLevel(configured string) hclog.Level {
	if env := os.Getenv(LevelEnv); env != "" {
		return ParseLevel(env)
	}
	return ParseLevel(configured)
}

// ParseLevel converts a level name to an hclog.Level, defaulting to INFO.
func ParseLevel(s string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN", "WARNING":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	case "OFF":
		return hclog.Off
	default:
		return hclog.Info
	}
}

// restyAdapter forwards resty's printf-style logging to an hclog.Logger.
type restyAdapter struct {
	logger hclog.Logger
}

// RestyLogger adapts logger to resty's Logger interface.
func RestyLogger(logger hclog.Logger) resty.Logger {
	return &restyAdapter{logger: logger}
}

func (a *restyAdapter) Errorf(format string, v ...interface{}) {
	a.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (a *restyAdapter) Warnf(format string, v ...interface{}) {
	a.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (a *restyAdapter) Debugf(format string, v ...interface{}) {
	a.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Package logger wraps a process-wide charmbracelet logger that writes to a
// rotating file under the config directory. All helpers are no-ops until Init
// has been called, so library code and tests can log unconditionally.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/vitatrack/vitatrack/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	logPath string
)

type Config struct {
	// Level is one of debug, info, warn or error. Empty picks a default
	// from Debug and Stderr.
	Level     string
	Debug     bool
	ConfigDir string
	// Stderr mirrors log output to stderr, as the dev server does.
	Stderr bool
}

func (c Config) level() (log.Level, error) {
	if c.Debug {
		return log.DebugLevel, nil
	}
	if c.Level != "" {
		lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(c.Level)))
		if err != nil {
			return 0, fmt.Errorf("invalid log level %q: %w", c.Level, err)
		}
		return lvl, nil
	}
	if c.Stderr {
		return log.InfoLevel, nil
	}
	return log.WarnLevel, nil
}

// Init installs the global logger. The log file is rotated at 10MB and kept
// for four weeks.
func Init(cfg Config) error {
	level, err := cfg.level()
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	path := filepath.Join(logDir, constants.AppName+".log")
	fileWriter := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}

	var writer io.Writer = fileWriter
	if cfg.Debug || cfg.Stderr {
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	logPath = path
	return nil
}

// Path returns the current log file, or "" before Init.
func Path() string {
	if Logger == nil {
		return ""
	}
	return logPath
}

// With returns a child logger carrying keyvals on every entry. Before Init
// it returns a logger that discards everything.
func With(keyvals ...any) *log.Logger {
	if Logger == nil {
		return log.New(io.Discard)
	}
	return Logger.With(keyvals...)
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

// Package logger writes a rotated log file under the config directory and,
// for debug runs and the bot, mirrors it to stderr.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/codemon-ai/make-meeting-room/internal/constants"
)

const (
	dirName    = "logs"
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 28
)

var (
	// Logger is the global logger instance. Nil until Init.
	Logger *log.Logger

	file    string
	discard = log.New(io.Discard)
)

type Config struct {
	Debug     bool
	ConfigDir string
	// Service mirrors Info and above to stderr; used by long-running commands.
	Service bool
}

func (c Config) level() log.Level {
	switch {
	case c.Debug:
		return log.DebugLevel
	case c.Service:
		return log.InfoLevel
	}
	return log.WarnLevel
}

func (c Config) output(w io.Writer) io.Writer {
	if c.Debug || c.Service {
		return io.MultiWriter(os.Stderr, w)
	}
	return w
}

// Init replaces the global logger.
func Init(cfg Config) error {
	dir := filepath.Join(cfg.ConfigDir, dirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, constants.AppName+".log")

	rotated := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}

	Logger = log.NewWithOptions(cfg.output(rotated), log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           cfg.level(),
		Prefix:          constants.AppName,
	})
	file = path
	return nil
}

// File returns the active log file, or "" before Init.
func File() string {
	if Logger == nil {
		return ""
	}
	return file
}

// With returns a logger that adds keyvals to every line. Before Init the
// returned logger discards everything.
func With(keyvals ...interface{}) *log.Logger {
	if Logger == nil {
		return discard
	}
	return Logger.With(keyvals...)
}

// ForBooking tags lines with the room and date of one reservation attempt.
func ForBooking(room, date string) *log.Logger {
	return With("room", room, "date", date)
}

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}

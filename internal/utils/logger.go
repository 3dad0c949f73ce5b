package utils

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

type Logger struct {
	l *log.Logger
}

func NewLogger(w io.Writer, level string) *Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	return &Logger{
		l: log.NewWithOptions(w, log.Options{
			Prefix: "vsixinstall",
			Level:  lvl,
		}),
	}
}

// NopLogger drops everything.
func NopLogger() *Logger {
	return NewLogger(io.Discard, "fatal")
}

func (l *Logger) LogError(format string, args ...interface{}) {
	l.l.Errorf(format, args...)
}

func (l *Logger) LogWarning(format string, args ...interface{}) {
	l.l.Warnf(format, args...)
}

func (l *Logger) LogInfo(format string, args ...interface{}) {
	l.l.Infof(format, args...)
}

func (l *Logger) LogDebug(format string, args ...interface{}) {
	l.l.Debugf(format, args...)
}

func (l *Logger) LogPageAttempt(url string) {
	l.l.Info("Trying marketplace page", "url", url)
}

func (l *Logger) LogPageFailure(url string, status int, err error) {
	if err != nil {
		l.l.Warn("Failed to fetch page", "url", url, "error", err)
		return
	}
	l.l.Warn("Failed to fetch page", "url", url, "status", status)
}

func (l *Logger) LogExtraction(strategy, downloadURL string) {
	l.l.Info("Found VSIX URL", "via", strategy, "url", downloadURL)
}

func (l *Logger) LogExtractionMiss(url string) {
	l.l.Warn("No VSIX URL on page", "url", url)
}

func (l *Logger) LogHTTPRequest(method, url string, status int, duration time.Duration) {
	l.l.Debug("HTTP request", "method", method, "url", url, "status", status, "duration", duration)
}

func (l *Logger) LogFileOperation(operation, filePath string, bytes int64, err error) {
	if err != nil {
		l.l.Error("File operation failed", "operation", operation, "path", filePath, "error", err)
		return
	}
	l.l.Info("File operation", "operation", operation, "path", filePath, "size", humanize.Bytes(uint64(bytes)))
}

func (l *Logger) LogCommand(name string, args []string) {
	l.l.Debug("Running command", "name", name, "args", args)
}

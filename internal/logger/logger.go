// Package logger wraps charmbracelet/log with publishing-specific helpers.
package logger

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging.
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at info level.
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level.
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *Logger) *Logger {
	if l == nil {
		return Discard()
	}
	return l
}

// PublishStarted logs the start of a publishing run.
func (l *Logger) PublishStarted(sourceDir, targetDir string) {
	l.Info("publish started",
		"source", sourceDir,
		"target", targetDir)
}

// PublishCompleted logs the end of a publishing run.
func (l *Logger) PublishCompleted(rendered, skipped, failed int, duration time.Duration) {
	l.Info("publish completed",
		"rendered", rendered,
		"skipped", skipped,
		"failed", failed,
		"duration", duration.Round(time.Millisecond))
}

// DocumentRendered logs a document written to the target tree.
func (l *Logger) DocumentRendered(source, dest string) {
	l.Debug("document rendered",
		"source", source,
		"dest", dest)
}

// DocumentSkipped logs a document rejected by a filter.
func (l *Logger) DocumentSkipped(file, reason string) {
	l.Debug("document skipped",
		"file", file,
		"reason", reason)
}

// DocumentFailed logs a document that could not be processed.
func (l *Logger) DocumentFailed(file string, err error) {
	l.Error("document failed",
		"file", file,
		"error", err)
}

// LinkResolved logs the outcome of a single link resolution.
func (l *Logger) LinkResolved(link, currentDir, outcome, path string) {
	l.Debug("link resolved",
		"link", link,
		"from", currentDir,
		"outcome", outcome,
		"path", path)
}

// MediaReferenced logs a media file referenced by a document.
func (l *Logger) MediaReferenced(document, media string) {
	l.Debug("media referenced",
		"document", document,
		"media", media)
}

// MediaCopied logs a media asset copied into the target tree.
func (l *Logger) MediaCopied(source, dest string) {
	l.Debug("media copied",
		"source", source,
		"dest", dest)
}

// ConfigLoaded logs the configuration file in effect.
func (l *Logger) ConfigLoaded(path string) {
	l.Debug("config loaded", "path", path)
}

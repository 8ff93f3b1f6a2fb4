package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation defaults.
const (
	defaultFileMaxSizeMB  = 10
	defaultFileMaxBackups = 3
	defaultFileMaxAgeDays = 30
)

// Options configures NewLogger.
type Options struct {
	// Writer receives log output. Defaults to os.Stderr.
	Writer io.Writer

	// Verbose lowers the level from Warn to Debug.
	Verbose bool

	// JSON switches the handler from text to JSON.
	JSON bool

	// FilePath, when set, also writes every line to a rotating log file.
	FilePath string

	// FileMaxSizeMB is the size in megabytes at which the file rotates.
	FileMaxSizeMB int

	// FileMaxBackups is the number of rotated files to keep.
	FileMaxBackups int

	// FileMaxAgeDays is how long rotated files are kept.
	FileMaxAgeDays int
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLogger creates a secure slog.Logger from opts. The returned closer
// releases the log file, if any, and must be closed by the caller.
func NewLogger(opts Options) (*slog.Logger, io.Closer, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	var closer io.Closer = nopCloser{}
	if opts.FilePath != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    orDefault(opts.FileMaxSizeMB, defaultFileMaxSizeMB),
			MaxBackups: orDefault(opts.FileMaxBackups, defaultFileMaxBackups),
			MaxAge:     orDefault(opts.FileMaxAgeDays, defaultFileMaxAgeDays),
		}
		// Fail early on an unwritable path rather than on the first log line.
		if _, err := lj.Write(nil); err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(w, lj)
		closer = lj
	}

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var inner slog.Handler
	if opts.JSON {
		inner = slog.NewJSONHandler(w, handlerOpts)
	} else {
		inner = slog.NewTextHandler(w, handlerOpts)
	}

	return slog.New(NewSecureHandler(inner)), closer, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

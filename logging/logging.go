// Package logging prints the tagged console lines used across aboutdesc
// and optionally mirrors them as JSON to a log file.
//
// Console output goes to stderr:
//
//	[INFO] Found 12 about.xml files
//	[OK] Mods/Foo/About/About.xml
//	[WARN] ...
//	[ERROR] ...
//
// Colors come from fatih/color, which disables itself for NO_COLOR and
// non-terminal output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

type tag struct {
	label string
	c     *color.Color
}

var (
	debugTag   = tag{"[DEBUG]", color.New(color.FgCyan)}
	infoTag    = tag{"[INFO]", color.New(color.FgBlue)}
	successTag = tag{"[OK]", color.New(color.FgGreen)}
	warnTag    = tag{"[WARN]", color.New(color.FgYellow, color.Bold)}
	errorTag   = tag{"[ERROR]", color.New(color.FgRed)}
)

// Options configures a Logger.
type Options struct {
	// Verbose enables Debug lines on the console and in the file.
	Verbose bool
	// File, if set, receives one JSON object per line.
	File string
	// Out overrides the console writer (default os.Stderr).
	Out io.Writer
}

// Logger is safe for use from multiple goroutines.
type Logger struct {
	mu      sync.Mutex
	out     io.Writer
	verbose bool

	file *os.File
	zl   zerolog.Logger
}

// New builds a Logger. The caller must Close it to flush the log file.
func New(opts Options) (*Logger, error) {
	l := &Logger{
		out:     opts.Out,
		verbose: opts.Verbose,
		zl:      zerolog.Nop(),
	}
	if l.out == nil {
		l.out = os.Stderr
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		level := zerolog.InfoLevel
		if opts.Verbose {
			level = zerolog.DebugLevel
		}
		l.file = f
		l.zl = zerolog.New(f).Level(level).With().Timestamp().Logger()
	}
	return l, nil
}

// Verbose reports whether Debug output is enabled.
func (l *Logger) Verbose() bool { return l.verbose }

func (l *Logger) emit(t tag, level zerolog.Level, kind, format string, args []any) {
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, t.c.Sprint(t.label)+" "+msg)
	ev := l.zl.WithLevel(level)
	if kind != "" {
		ev = ev.Str("kind", kind)
	}
	ev.Msg(msg)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.emit(debugTag, zerolog.DebugLevel, "", format, args)
}

func (l *Logger) Info(format string, args ...any) {
	l.emit(infoTag, zerolog.InfoLevel, "", format, args)
}

// Success is logged at info level with kind=success in the file.
func (l *Logger) Success(format string, args ...any) {
	l.emit(successTag, zerolog.InfoLevel, "success", format, args)
}

func (l *Logger) Warning(format string, args ...any) {
	l.emit(warnTag, zerolog.WarnLevel, "", format, args)
}

func (l *Logger) Error(format string, args ...any) {
	l.emit(errorTag, zerolog.ErrorLevel, "", format, args)
}

// Writer returns the console writer.
func (l *Logger) Writer() io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.out
}

// SetOutput replaces the console writer and returns the previous one.
func (l *Logger) SetOutput(w io.Writer) io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.out
	l.out = w
	return prev
}

// Close flushes and closes the log file. It is safe to call more than once.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Sync()
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	l.zl = zerolog.Nop()
	return err
}

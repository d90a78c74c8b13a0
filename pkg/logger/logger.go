package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

type LogLevel int

const (
	LevelInfo LogLevel = iota
	LevelDebug
	LevelTrace
)

// Logger keeps printf-style call sites on top of hclog. Debug output needs
// verbose mode, Trace output needs LevelTrace.
type Logger struct {
	hc        hclog.Logger
	opts      hclog.LoggerOptions
	level     LogLevel
	isVerbose bool
	exit      func(int)
}

type Option func(*Logger)

func WithOutput(w io.Writer) Option {
	return func(l *Logger) {
		l.opts.Output = w
	}
}

func WithName(name string) Option {
	return func(l *Logger) {
		l.opts.Name = name
	}
}

// WithPrefix is kept for call sites that pass a bracketed tag like
// "[resize] ".
func WithPrefix(prefix string) Option {
	return func(l *Logger) {
		l.opts.Name = trimTag(prefix)
	}
}

func WithoutTime() Option {
	return func(l *Logger) {
		l.opts.DisableTime = true
	}
}

func WithExitFunc(exit func(int)) Option {
	return func(l *Logger) {
		l.exit = exit
	}
}

func New(options ...Option) *Logger {
	l := &Logger{
		opts: hclog.LoggerOptions{
			Output: os.Stdout,
			Level:  hclog.Trace,
		},
		level: LevelInfo,
		exit:  os.Exit,
	}

	for _, opt := range options {
		opt(l)
	}

	l.hc = hclog.New(&l.opts)
	return l
}

// Named returns a child logger sharing output and verbosity.
func (l *Logger) Named(name string) *Logger {
	child := *l
	child.hc = l.hc.Named(name)
	return &child
}

func (l *Logger) SetVerbose(verbose bool) {
	l.isVerbose = verbose
}

func (l *Logger) IsVerbose() bool {
	return l.isVerbose
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.hc.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(format string, args ...interface{}) {
	if l.isVerbose || l.level >= LevelDebug {
		l.hc.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Trace(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		l.hc.Trace(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.hc.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.hc.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Fatal(format string, args ...interface{}) {
	l.hc.Error("FATAL: " + fmt.Sprintf(format, args...))
	l.exit(1)
}

func trimTag(prefix string) string {
	name := []rune(prefix)
	for len(name) > 0 && (name[len(name)-1] == ' ' || name[len(name)-1] == ']') {
		name = name[:len(name)-1]
	}
	for len(name) > 0 && name[0] == '[' {
		name = name[1:]
	}
	return string(name)
}

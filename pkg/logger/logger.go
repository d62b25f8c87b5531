// Package logger provides leveled, per-component logging for the simulator
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	// DEBUG level for per-tick detail such as individual attacks
	DEBUG LogLevel = iota
	// INFO level for session lifecycle and deploys
	INFO
	// WARN level for rejected or dropped commands
	WARN
	// ERROR level for failed operations
	ERROR
	// FATAL level for errors that terminate the program
	FATAL
)

var levelNames = map[LogLevel]string{
	DEBUG: "DEBUG",
	INFO:  "INFO",
	WARN:  "WARN",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

// String returns the string representation of a LogLevel
func (l LogLevel) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseLevel converts a level name such as "debug" or "WARN" into a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for level, levelName := range levelNames {
		if levelName == upper {
			return level, nil
		}
	}
	return INFO, fmt.Errorf("unknown log level %q", name)
}

// Logger writes messages for one component at or above a minimum level
type Logger struct {
	mu        sync.Mutex
	level     LogLevel
	component string
	out       *log.Logger
	console   io.Writer
	logFile   *os.File
	exit      func(int)
}

// New creates a Logger for the named component writing to stdout
func New(level LogLevel, component string) *Logger {
	return &Logger{
		level:     level,
		component: component,
		out:       log.New(os.Stdout, "", 0),
		console:   os.Stdout,
		exit:      os.Exit,
	}
}

// SetOutput replaces the console destination. A nil writer disables console output.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.console = w
	l.rewire()
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Level returns the current minimum level
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetFile mirrors output into the given file. An empty name closes the current file.
func (l *Logger) SetFile(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}

	if filename != "" {
		f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", filename, err)
		}
		l.logFile = f
	}

	l.rewire()
	return nil
}

// rewire points the underlying log.Logger at the enabled destinations. Callers hold l.mu.
func (l *Logger) rewire() {
	var writers []io.Writer
	if l.console != nil {
		writers = append(writers, l.console)
	}
	if l.logFile != nil {
		writers = append(writers, l.logFile)
	}

	switch len(writers) {
	case 0:
		l.out.SetOutput(io.Discard)
	case 1:
		l.out.SetOutput(writers[0])
	default:
		l.out.SetOutput(io.MultiWriter(writers...))
	}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	if level < l.level {
		l.mu.Unlock()
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.Printf("[%s] [%s] %s: %s", timestamp, level, l.component, fmt.Sprintf(format, args...))
	exit := l.exit
	l.mu.Unlock()

	if level == FATAL {
		exit(1)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(DEBUG, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log(INFO, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(WARN, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log(ERROR, format, args...)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.log(FATAL, format, args...)
}

// Component loggers
var (
	Game   = New(INFO, "GAME")
	Sim    = New(INFO, "SIM")
	Config = New(INFO, "CONFIG")
	Stream = New(INFO, "STREAM")
	CLI    = New(INFO, "CLI")
)

func all() []*Logger {
	return []*Logger{Game, Sim, Config, Stream, CLI}
}

// InitializeFileLogging mirrors every component logger into a dated file under directory
func InitializeFileLogging(directory string) error {
	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile := filepath.Join(directory, fmt.Sprintf("tcr-sim_%s.log", time.Now().Format("2006-01-02")))
	for _, l := range all() {
		if err := l.SetFile(logFile); err != nil {
			return err
		}
	}
	return nil
}

// SetGlobalLogLevel sets the level of every component logger
func SetGlobalLogLevel(level LogLevel) {
	for _, l := range all() {
		l.SetLevel(level)
	}
}

// SetGlobalOutput redirects the console output of every component logger
func SetGlobalOutput(w io.Writer) {
	for _, l := range all() {
		l.SetOutput(w)
	}
}

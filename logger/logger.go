// Package logger provides the structured logging used by the SimpleLang tools.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var (
	defaultLogger *slog.Logger
	// logFile is the file opened for Config.LogFile, owned until the next Init or Close.
	logFile *os.File
)

type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a flag value such as "debug" or "WARN" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("logger: unknown level %q", s)
}

type Config struct {
	Level     LogLevel
	Format    string // "text" or "json"
	Output    io.Writer
	AddSource bool
	LogFile   string
}

func DefaultConfig() Config {
	return Config{
		Level:  LevelWarn,
		Format: "text",
		Output: os.Stderr,
	}
}

// Init replaces the package logger. Output is ignored when LogFile is set. A file opened by an
// earlier Init is closed once the new output is ready; on error the previous logger stays.
func Init(cfg Config) error {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	var file *os.File
	if cfg.LogFile != "" {
		var err error
		file, err = os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		output = file
	}

	opts := &slog.HandlerOptions{
		Level:     toSlogLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	defaultLogger = slog.New(handler)
	previous := logFile
	logFile = file
	if previous != nil {
		return previous.Close()
	}
	return nil
}

// Close drops the package logger and closes its log file, if any.
func Close() error {
	defaultLogger = nil
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func toSlogLevel(level LogLevel) slog.Level {
	switch level {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Debug(msg, args...)
	}
}

func Info(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Info(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Warn(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if defaultLogger != nil {
		defaultLogger.Error(msg, args...)
	}
}

// With returns a logger carrying the given attributes.
func With(args ...any) *slog.Logger {
	if defaultLogger != nil {
		return defaultLogger.With(args...)
	}
	return slog.Default().With(args...)
}

// Compiler-specific helpers

func LogPhase(phase string) {
	Debug("Starting compilation phase", "phase", phase)
}

func LogPhaseComplete(phase string, errorCount int) {
	Debug("Completed compilation phase", "phase", phase, "errors", errorCount)
}

func LogLexing(tokenCount int, symbolCount int) {
	Debug("Lexing complete", "tokens", tokenCount, "symbols", symbolCount)
}

func LogCodeGen(instructionCount int) {
	Debug("Code generation complete", "instructions", instructionCount)
}

func LogOptimization(pass string, changeCount int) {
	Info("Optimization pass complete", "pass", pass, "changes", changeCount)
}

func LogCompilerComplete(success bool, duration time.Duration) {
	if success {
		Info("Compilation successful", "duration", duration.String())
	} else {
		Warn("Compilation failed", "duration", duration.String())
	}
}

func LogRequest(method, path string, status int, duration time.Duration) {
	Info("Request served", "method", method, "path", path, "status", status, "duration", duration.String())
}

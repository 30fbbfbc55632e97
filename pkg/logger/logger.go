package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Logger represents a simple logger interface
type Logger interface {
	Debug(msg string, keyvals ...interface{})
	Info(msg string, keyvals ...interface{})
	Warn(msg string, keyvals ...interface{})
	Error(msg string, keyvals ...interface{})
	// With returns a logger that prepends keyvals to every entry
	With(keyvals ...interface{}) Logger
}

type logLevel int

const (
	debugLevel logLevel = iota
	infoLevel
	warnLevel
	errorLevel
	offLevel
)

type simpleLogger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	level       logLevel
	fields      []interface{}
}

func parseLevel(level string) logLevel {
	switch strings.ToLower(level) {
	case "debug":
		return debugLevel
	case "info":
		return infoLevel
	case "warn", "warning":
		return warnLevel
	case "error":
		return errorLevel
	case "off", "none":
		return offLevel
	default:
		return infoLevel
	}
}

// NewLogger creates a new logger with the specified level
func NewLogger(level string) Logger {
	return New(level, os.Stdout, os.Stderr)
}

// New creates a logger writing debug/info/warn entries to out and errors to errOut
func New(level string, out, errOut io.Writer) Logger {
	return &simpleLogger{
		debugLogger: log.New(out, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile),
		infoLogger:  log.New(out, "INFO: ", log.Ldate|log.Ltime),
		warnLogger:  log.New(out, "WARN: ", log.Ldate|log.Ltime),
		errorLogger: log.New(errOut, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile),
		level:       parseLevel(level),
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() Logger {
	return New("off", io.Discard, io.Discard)
}

func (l *simpleLogger) Debug(msg string, keyvals ...interface{}) {
	if l.level <= debugLevel {
		l.debugLogger.Output(2, l.format(msg, keyvals))
	}
}

func (l *simpleLogger) Info(msg string, keyvals ...interface{}) {
	if l.level <= infoLevel {
		l.infoLogger.Println(l.format(msg, keyvals))
	}
}

func (l *simpleLogger) Warn(msg string, keyvals ...interface{}) {
	if l.level <= warnLevel {
		l.warnLogger.Println(l.format(msg, keyvals))
	}
}

func (l *simpleLogger) Error(msg string, keyvals ...interface{}) {
	if l.level <= errorLevel {
		l.errorLogger.Output(2, l.format(msg, keyvals))
	}
}

func (l *simpleLogger) With(keyvals ...interface{}) Logger {
	child := *l
	child.fields = make([]interface{}, 0, len(l.fields)+len(keyvals))
	child.fields = append(child.fields, l.fields...)
	child.fields = append(child.fields, keyvals...)
	return &child
}

func (l *simpleLogger) format(msg string, keyvals []interface{}) string {
	if len(l.fields) == 0 {
		return formatMsg(msg, keyvals...)
	}
	all := make([]interface{}, 0, len(l.fields)+len(keyvals))
	all = append(all, l.fields...)
	all = append(all, keyvals...)
	return formatMsg(msg, all...)
}

func formatMsg(msg string, keyvals ...interface{}) string {
	if len(keyvals) == 0 {
		return msg
	}

	var b strings.Builder
	b.WriteString(msg)

	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		value := "missing"

		if i+1 < len(keyvals) {
			value = fmt.Sprintf("%v", keyvals[i+1])
		}

		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString("=")
		b.WriteString(value)
	}

	return b.String()
}

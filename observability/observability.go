package observability

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Logger is the logging interface used throughout the badge pipeline.
// Warnings reported through it are informational: a Warn call never
// aborts a run.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a typed key/value pair attached to a log entry.
type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Level selects the minimum severity a TextLogger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// TextLogger writes "LEVEL msg key=value ..." lines to an io.Writer.
// It is safe for concurrent use.
type TextLogger struct {
	mu    *sync.Mutex // shared with every With-derived child
	w     io.Writer
	min   Level
	bound []Field
}

// NewTextLogger returns a TextLogger emitting entries at or above min.
func NewTextLogger(w io.Writer, min Level) *TextLogger {
	return &TextLogger{mu: new(sync.Mutex), w: w, min: min}
}

func (l *TextLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, "DEBUG", msg, fields) }
func (l *TextLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, "INFO", msg, fields) }
func (l *TextLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, "WARN", msg, fields) }
func (l *TextLogger) Error(msg string, fields ...Field) { l.log(LevelError, "ERROR", msg, fields) }

func (l *TextLogger) With(fields ...Field) Logger {
	child := &TextLogger{mu: l.mu, w: l.w, min: l.min}
	child.bound = append(append([]Field(nil), l.bound...), fields...)
	return child
}

func (l *TextLogger) log(lv Level, tag, msg string, fields []Field) {
	if lv < l.min {
		return
	}
	var b strings.Builder
	b.WriteString(tag)
	b.WriteByte(' ')
	b.WriteString(msg)
	for _, f := range l.bound {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	for _, f := range fields {
		fmt.Fprintf(&b, " %s=%v", f.Key(), f.Value())
	}
	b.WriteByte('\n')
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, b.String())
}

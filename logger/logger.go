package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
	FormatPretty  = "pretty"
)

// Trace correlation keys added by WithContext.
const (
	FieldTraceID = "trace_id"
	FieldSpanID  = "span_id"
)

// Logger is a zerolog logger that remembers which service it was built for.
// Every With* method returns a copy; the receiver is never changed.
type Logger struct {
	logger  zerolog.Logger
	service string
}

var globalLogger *Logger

// Init builds the process-wide logger from cfg after applying its defaults.
func Init(cfg *Config) {
	cfg.ApplyDefaults()
	name := cfg.ServiceName
	if name == "" {
		name = "default"
	}
	globalLogger = New(cfg, name)
}

// GetGlobalLogger returns the logger set by Init, or a console logger at info
// level when Init has not run.
func GetGlobalLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewDefault("default")
	}
	return globalLogger
}

// New writes to the stream named by cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	out := io.Writer(os.Stdout)
	if strings.EqualFold(cfg.Output, "stderr") {
		out = os.Stderr
	}
	return NewWithWriter(cfg, serviceName, out)
}

// NewWithWriter writes to w. An unknown or empty level means info, and any
// format other than json is rendered for the console.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.EqualFold(cfg.Format, FormatJSON) {
		zl = zerolog.New(w)
	} else {
		zl = zerolog.New(consoleWriter(w, cfg.NoColor))
	}

	zc := zl.Level(level).With()
	if cfg.Timestamp {
		zc = zc.Timestamp()
	}
	if cfg.Caller {
		zc = zc.Caller()
	}
	if serviceName != "" && serviceName != "default" {
		zc = zc.Str("service", serviceName)
	}
	return &Logger{logger: zc.Logger(), service: serviceName}
}

// NewDefault is a timestamped console logger at info level on stdout.
func NewDefault(serviceName string) *Logger {
	return New(&Config{Level: "info", Format: FormatConsole, Output: "stdout", Timestamp: true}, serviceName)
}

// NewNop discards everything.
func NewNop() *Logger {
	return &Logger{logger: zerolog.Nop(), service: "nop"}
}

func (l *Logger) derive(zc zerolog.Context) *Logger {
	return &Logger{logger: zc.Logger(), service: l.service}
}

// WithContext adds the trace and span IDs of the span active in ctx. Without
// a valid span the receiver is returned as is.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return l
	}
	return l.derive(l.logger.With().
		Str(FieldTraceID, sc.TraceID().String()).
		Str(FieldSpanID, sc.SpanID().String()))
}

// WithComponent tags every entry with FieldComponent.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.logger.With().Str(FieldComponent, name))
}

func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return l.derive(l.logger.With().Fields(fields))
}

func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.logger.With().Err(err))
}

func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	emit(l.logger.Error(), msg, fields)
}

// emit is a no-op for events below the logger level, which zerolog hands
// out as nil.
func emit(ev *zerolog.Event, msg string, fields []map[string]interface{}) {
	if ev == nil {
		return
	}
	for _, f := range fields {
		ev = ev.Fields(f)
	}
	ev.Msg(msg)
}

var levelTags = map[string]struct{ tag, color string }{
	"trace": {"[TRC]", "36"},
	"debug": {"[DBG]", "36"},
	"info":  {"[INF]", "32"},
	"warn":  {"[WRN]", "33"},
	"error": {"[ERR]", "31"},
	"fatal": {"[FTL]", "35"},
}

func consoleWriter(w io.Writer, noColor bool) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
		NoColor:    noColor,
		FormatLevel: func(i interface{}) string {
			lvl := fmt.Sprint(i)
			t, ok := levelTags[lvl]
			if !ok {
				return "[" + strings.ToUpper(lvl) + "]"
			}
			if noColor {
				return t.tag
			}
			return "\033[" + t.color + "m" + t.tag + "\033[0m"
		},
		FormatFieldName: func(i interface{}) string { return fmt.Sprint(i) + ":" },
		FormatFieldValue: func(i interface{}) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	}
}

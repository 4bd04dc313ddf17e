// Package goredact masks credentials, tokens and other sensitive content in
// structured data and free text, and provides a zap-based logger that runs
// every payload through it before writing.
//
// Basic usage:
//
//	clean, err := goredact.SanitizeAny(map[string]any{"password": "hunter2"})
//	// clean == map[string]any{"password": "h***2"}
//
//	line, _ := goredact.RedactText("GET /api?token=secretvalue&id=5")
//	// line == "GET /api?token=***&id=5"
//
//	logger := goredact.New(goredact.WithServiceName("my-service"))
//	logger.Info("trace-001", "handler", goredact.MessageTypeEvent, "request received", payload)
package goredact

import (
	"encoding/json"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// globalLog is the package logger behind the package-level log functions.
	globalLog atomic.Pointer[Logger]
	// once ensures New() only configures the global logger once.
	once sync.Once
)

func init() {
	globalLog.Store(setupLog())
}

// Logger wraps zap.Logger and sanitizes messages, errors and data payloads
// before they are encoded.
type Logger struct {
	logger    *zap.Logger
	config    *Config
	sanitizer *Sanitizer
}

// New configures the global logger exactly once and returns it.
// Subsequent calls return the existing global logger.
func New(opts ...Option) *Logger {
	once.Do(func() {
		globalLog.Store(setupLog(opts...))
	})
	return globalLog.Load()
}

// NewLogger returns a standalone logger; the global logger is left untouched.
func NewLogger(opts ...Option) *Logger {
	return setupLog(opts...)
}

func setupLog(opts ...Option) *Logger {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "time"
	encoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	encoderConfig.CallerKey = "source"
	encoderConfig.FunctionKey = "function"
	encoderConfig.StacktraceKey = "stack_trace"
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(cfg.Output),
		cfg.Level,
	)

	logger := zap.New(
		core,
		zap.AddStacktrace(zapcore.FatalLevel),
	).With(zap.String("application_name", cfg.ServiceName))

	rules := DefaultRules()
	rules.MaxDepth = cfg.Redaction.MaxDepth
	sanitizer, err := NewSanitizer(rules)
	if err != nil {
		sanitizer = std
	}

	return &Logger{
		logger:    logger,
		config:    cfg,
		sanitizer: sanitizer,
	}
}

// NewTraceID returns a random identifier for correlating log entries.
func NewTraceID() string {
	return uuid.NewString()
}

// Sanitizer returns the sanitizer applied to log payloads.
func (l *Logger) Sanitizer() *Sanitizer {
	return l.sanitizer
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.logger.Sync()
}

// Severity level constants for Cloud Logging compatibility.
const (
	severityDebug    = "DEBUG"
	severityInfo     = "INFO"
	severityWarning  = "WARNING"
	severityError    = "ERROR"
	severityCritical = "CRITICAL"
)

// fieldPool reuses zap.Field slices.
// trace_id, module, msg_type, severity, data, error = 6 fields max.
var fieldPool = sync.Pool{
	New: func() any { return make([]zap.Field, 0, 6) },
}

func getFields() []zap.Field {
	return fieldPool.Get().([]zap.Field)[:0]
}

func putFields(f []zap.Field) {
	fieldPool.Put(f[:0])
}

// message redacts a log message. A message that cannot be sanitized is
// replaced by UnsafePayload.
func (l *Logger) message(msg string) string {
	if !l.config.Redaction.Enabled {
		return msg
	}
	out, err := l.sanitizer.RedactText(msg)
	if err != nil {
		return UnsafePayload
	}
	return out
}

func (l *Logger) errorField(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	if !l.config.Redaction.Enabled {
		return zap.Error(err)
	}
	return zap.String("error", l.message(err.Error()))
}

// dataField sanitizes v and encodes the result in key order.
//
// Behavior:
//   - nil → zap.Skip()
//   - redaction disabled → zap.Any()
//   - sanitize failure → UnsafePayload, never the raw value
//   - mappings and sequences → zap.Object() / zap.Array()
func (l *Logger) dataField(key string, v any) zap.Field {
	if v == nil {
		return zap.Skip()
	}
	if !l.config.Redaction.Enabled {
		return zap.Any(key, v)
	}
	clean, err := l.sanitizer.sanitizeAny(v)
	if err != nil {
		return zap.String(key, UnsafePayload)
	}
	return valueField(key, clean)
}

func valueField(key string, v Value) zap.Field {
	switch t := v.(type) {
	case Mapping:
		return zap.Object(key, valueObject(t))
	case Sequence:
		return zap.Array(key, valueArray(t))
	case String:
		return zap.String(key, string(t))
	case Bool:
		return zap.Bool(key, bool(t))
	case Number:
		if i, err := strconv.ParseInt(string(t), 10, 64); err == nil {
			return zap.Int64(key, i)
		}
		if isNumberLiteral(string(t)) {
			return zap.Reflect(key, json.Number(t))
		}
		return zap.String(key, string(t))
	}
	return zap.Skip()
}

// Fatal logs a critical error and terminates the process.
func (l *Logger) Fatal(traceID string, module string, err error) {
	fields := getFields()
	defer putFields(fields)

	logger := l.logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	fields = append(fields,
		zap.String("trace_id", traceID),
		zap.String("module", module),
		l.errorField(err),
		zap.String("severity", severityCritical),
	)
	logger.Log(zapcore.FatalLevel, "fatal error occurred", fields...)
}

// Fatal logs a critical error using the global logger and terminates the process.
func Fatal(traceID string, module string, err error) {
	globalLog.Load().Fatal(traceID, module, err)
}

// Error logs an error event.
func (l *Logger) Error(traceID string, module string, err error) {
	fields := getFields()
	defer putFields(fields)

	logger := l.logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	fields = append(fields,
		zap.String("trace_id", traceID),
		zap.String("module", module),
		l.errorField(err),
		zap.String("severity", severityError),
	)
	logger.Log(zapcore.ErrorLevel, "error occurred", fields...)
}

// Error logs an error event using the global logger.
func Error(traceID string, module string, err error) {
	globalLog.Load().Error(traceID, module, err)
}

// Warning logs a warning-level message with optional context data.
func (l *Logger) Warning(traceID string, module string, msg string, data any) {
	fields := getFields()
	defer putFields(fields)

	logger := l.logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	fields = append(fields,
		zap.String("trace_id", traceID),
		zap.String("module", module),
		zap.String("severity", severityWarning),
	)
	if data != nil {
		fields = append(fields, l.dataField("data", data))
	}
	logger.Log(zapcore.WarnLevel, l.message(msg), fields...)
}

// Warning logs a warning-level message using the global logger.
func Warning(traceID string, module string, msg string, data any) {
	globalLog.Load().Warning(traceID, module, msg, data)
}

// Info logs an informational message with a specified message type.
func (l *Logger) Info(traceID string, module string, msgType MsgType, msg string, data any) {
	fields := getFields()
	defer putFields(fields)

	fields = append(fields,
		zap.String("trace_id", traceID),
		zap.String("module", module),
		zap.String("msg_type", string(msgType)),
		zap.String("severity", severityInfo),
	)
	if data != nil {
		fields = append(fields, l.dataField("data", data))
	}
	l.logger.Log(zapcore.InfoLevel, l.message(msg), fields...)
}

// Info logs an informational message using the global logger.
func Info(traceID string, module string, msgType MsgType, msg string, data any) {
	globalLog.Load().Info(traceID, module, msgType, msg, data)
}

// Debug logs a debug-level message with a specified message type.
func (l *Logger) Debug(traceID string, module string, msgType MsgType, msg string, data any) {
	fields := getFields()
	defer putFields(fields)

	logger := l.logger.WithOptions(zap.AddCaller(), zap.AddCallerSkip(1))
	fields = append(fields,
		zap.String("trace_id", traceID),
		zap.String("module", module),
		zap.String("msg_type", string(msgType)),
		zap.String("severity", severityDebug),
	)
	if data != nil {
		fields = append(fields, l.dataField("data", data))
	}
	logger.Log(zapcore.DebugLevel, l.message(msg), fields...)
}

// Debug logs a debug-level message using the global logger.
func Debug(traceID string, module string, msgType MsgType, msg string, data any) {
	globalLog.Load().Debug(traceID, module, msgType, msg, data)
}

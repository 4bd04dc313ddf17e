package goredact

import (
	"io"
	"os"

	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration options.
type Config struct {
	// ServiceName is included in all log entries as "application_name".
	ServiceName string

	// Level is the minimum log level that will be output.
	// Default: zapcore.InfoLevel
	Level zapcore.Level

	// Output is the writer where logs will be written.
	// Default: os.Stdout
	Output io.Writer

	// Redaction controls how payloads are sanitized before they are logged.
	Redaction RedactionConfig
}

// RedactionConfig controls payload sanitizing.
type RedactionConfig struct {
	// Enabled runs messages, errors and data through the sanitizer.
	// Default: true
	Enabled bool

	// MaxDepth bounds the nesting the sanitizer accepts. Payloads nested
	// deeper are logged as UnsafePayload.
	// Default: DefaultMaxDepth
	MaxDepth int
}

// Option configures a Logger.
type Option func(*Config)

// WithServiceName sets the service name for the logger.
//
// Example:
//
//	logger := goredact.New(goredact.WithServiceName("my-service"))
func WithServiceName(name string) Option {
	return func(c *Config) {
		c.ServiceName = name
	}
}

// WithOutput sets the output writer for logs.
func WithOutput(w io.Writer) Option {
	return func(c *Config) {
		c.Output = w
	}
}

// WithDebug switches the minimum level between debug and info.
func WithDebug(debug bool) Option {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}
	return func(c *Config) {
		c.Level = level
	}
}

// WithRedaction enables or disables payload sanitizing.
// Disabling it logs payloads verbatim and should be limited to local debugging.
func WithRedaction(enabled bool) Option {
	return func(c *Config) {
		c.Redaction.Enabled = enabled
	}
}

// WithMaxDepth sets the sanitizer depth limit. Non-positive values are ignored.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		if depth > 0 {
			c.Redaction.MaxDepth = depth
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		ServiceName: "unknown",
		Level:       zapcore.InfoLevel,
		Output:      os.Stdout,
		Redaction: RedactionConfig{
			Enabled:  true,
			MaxDepth: DefaultMaxDepth,
		},
	}
}

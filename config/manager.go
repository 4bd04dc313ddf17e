// Package config loads layered YAML configuration with environment overrides
// and exposes a sanitized view of it for logging.
//
// Loading order, last writer wins:
//
//	config.yaml → config_<TEST_ENV>.yaml → environment variables → defaults for missing keys
package config

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/muhammadluth/goredact"
	"github.com/pkg/errors"
	"github.com/sethvargo/go-envconfig"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const module = "config"

// defaultEnv selects no environment-specific file.
const defaultEnv = "default"

// defaults fill keys that no file or variable provided.
var defaults = map[string]any{
	"timeout":          30,
	"max_retries":      3,
	"log_level":        "INFO",
	"verify_ssl":       true,
	"pool_connections": 10,
	"pool_maxsize":     20,
}

// envOverrides are the variables that override file configuration.
// Values stay strings here; typed keys are converted in applyEnv.
type envOverrides struct {
	Env        string  `env:"TEST_ENV, default=default"`
	BaseURL    *string `env:"BASE_URL, noinit"`
	Username   *string `env:"USERNAME, noinit"`
	Password   *string `env:"PASSWORD, noinit"`
	Captcha    *string `env:"CAPTCHA, noinit"`
	Timeout    *string `env:"TIMEOUT, noinit"`
	MaxRetries *string `env:"MAX_RETRIES, noinit"`
	LogLevel   *string `env:"LOG_LEVEL, noinit"`
	Debug      *string `env:"DEBUG, noinit"`
}

type valueKind uint8

const (
	kindString valueKind = iota
	kindInt
	kindBool
)

// Manager holds the merged configuration. It is safe for concurrent use.
type Manager struct {
	mu   sync.RWMutex
	env  string
	data map[string]any

	dir       string
	lookuper  envconfig.Lookuper
	logger    *goredact.Logger
	sanitizer *goredact.Sanitizer
}

// Option configures a Manager.
type Option func(*Manager)

// WithDir sets the directory holding config.yaml. Default: "config".
func WithDir(dir string) Option {
	return func(m *Manager) {
		m.dir = dir
	}
}

// WithLookuper replaces the process environment as the source of overrides.
func WithLookuper(l envconfig.Lookuper) Option {
	return func(m *Manager) {
		m.lookuper = l
	}
}

// WithLogger sets the logger used for load diagnostics. Default: the global goredact logger.
func WithLogger(l *goredact.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithSanitizer sets the sanitizer behind SafeConfig and Audit.
func WithSanitizer(s *goredact.Sanitizer) Option {
	return func(m *Manager) {
		m.sanitizer = s
	}
}

// Load builds a Manager and performs the first load.
func Load(ctx context.Context, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:       "config",
		lookuper:  envconfig.OsLookuper(),
		logger:    goredact.New(),
		sanitizer: goredact.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.Reload(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// Reload rereads files and environment and replaces the current configuration.
// On failure the previous configuration is kept.
func (m *Manager) Reload(ctx context.Context) error {
	traceID := goredact.NewTraceID()

	var env envOverrides
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: m.lookuper,
	}); err != nil {
		return newError("", "failed to read environment", err)
	}
	if env.Env == "" {
		env.Env = defaultEnv
	}
	m.logger.Info(traceID, module, goredact.MessageTypeEvent, "loading configuration", map[string]any{"env": env.Env})

	mainFile := filepath.Join(m.dir, "config.yaml")
	data, err := readYAML(mainFile)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		m.logger.Warning(traceID, module, "main config file not found", map[string]any{"file": mainFile})
		data = map[string]any{}
	case err != nil:
		return newError("", "failed to load "+mainFile, err)
	}

	if env.Env != defaultEnv {
		envFile := filepath.Join(m.dir, "config_"+env.Env+".yaml")
		envData, err := readYAML(envFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return newError("", "failed to load "+envFile, err)
		default:
			for k, v := range envData {
				data[k] = v
			}
			m.logger.Info(traceID, module, goredact.MessageTypeEvent, "environment config merged", map[string]any{"file": envFile})
		}
	}

	m.applyEnv(traceID, env, data)

	for _, issue := range Audit(data, m.sanitizer) {
		m.logger.Warning(traceID, module, "security warning", issue)
	}

	for k, v := range defaults {
		if _, ok := data[k]; !ok {
			data[k] = v
		}
	}

	m.mu.Lock()
	m.env = env.Env
	m.data = data
	m.mu.Unlock()

	safe, err := m.SafeConfig()
	if err != nil {
		m.logger.Warning(traceID, module, "configuration loaded but too deeply nested to log", nil)
		return nil
	}
	m.logger.Info(traceID, module, goredact.MessageTypeEvent, "configuration loaded", safe)
	return nil
}

func readYAML(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if data == nil {
		data = map[string]any{}
	}
	return data, nil
}

func (m *Manager) applyEnv(traceID string, env envOverrides, data map[string]any) {
	overrides := []struct {
		name  string
		key   string
		value *string
		kind  valueKind
	}{
		{"BASE_URL", "base_url", env.BaseURL, kindString},
		{"USERNAME", "username", env.Username, kindString},
		{"PASSWORD", "password", env.Password, kindString},
		{"CAPTCHA", "captcha", env.Captcha, kindString},
		{"TIMEOUT", "timeout", env.Timeout, kindInt},
		{"MAX_RETRIES", "max_retries", env.MaxRetries, kindInt},
		{"LOG_LEVEL", "log_level", env.LogLevel, kindString},
		{"DEBUG", "debug", env.Debug, kindBool},
	}

	var applied []string
	for _, o := range overrides {
		if o.value == nil || *o.value == "" {
			continue
		}
		switch o.kind {
		case kindInt:
			n, err := strconv.Atoi(strings.TrimSpace(*o.value))
			if err != nil {
				m.logger.Warning(traceID, module, "invalid environment value ignored", map[string]any{"variable": o.name})
				continue
			}
			data[o.key] = n
		case kindBool:
			switch strings.ToLower(strings.TrimSpace(*o.value)) {
			case "true", "1", "yes", "on":
				data[o.key] = true
			default:
				data[o.key] = false
			}
		default:
			data[o.key] = *o.value
		}
		applied = append(applied, o.key)
	}
	if len(applied) > 0 {
		m.logger.Info(traceID, module, goredact.MessageTypeEvent, "environment overrides applied", applied)
	}
}

// Env returns the environment selected at the last load.
func (m *Manager) Env() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.env
}

// Get returns the value at a dotted key such as "database.host", or def
// when any segment is missing.
func (m *Manager) Get(key string, def any) any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var cur any = m.data
	for _, part := range strings.Split(key, ".") {
		next, ok := child(cur, part)
		if !ok {
			return def
		}
		cur = next
	}
	return cur
}

func child(node any, key string) (any, bool) {
	switch t := node.(type) {
	case map[string]any:
		v, ok := t[key]
		return v, ok
	case map[any]any:
		v, ok := t[key]
		return v, ok
	}
	return nil, false
}

// Set stores value at a dotted key, creating intermediate maps as needed.
// It fails when an intermediate segment holds a non-map value.
func (m *Manager) Set(key string, value any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		m.data = map[string]any{}
	}
	parts := strings.Split(key, ".")
	cur := m.data
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok {
			created := map[string]any{}
			cur[part] = created
			cur = created
			continue
		}
		nested, ok := next.(map[string]any)
		if !ok {
			return newError(key, "cannot set value below a non-map entry "+part, nil)
		}
		cur = nested
	}
	cur[parts[len(parts)-1]] = value
	return nil
}

// ValidateRequired reports every key in keys that has no value.
// The returned error combines one *Error per missing key.
func (m *Manager) ValidateRequired(keys ...string) error {
	var err error
	var missing []string
	for _, key := range keys {
		if m.Get(key, nil) == nil {
			missing = append(missing, key)
			err = multierr.Append(err, newError(key, "missing required configuration", nil))
		}
	}
	if err != nil {
		m.logger.Warning(goredact.NewTraceID(), module, "missing required configuration", missing)
	}
	return err
}

// SafeConfig returns a sanitized deep copy of the configuration, suitable for logging.
// Numbers come back as json.Number.
func (m *Manager) SafeConfig() (map[string]any, error) {
	m.mu.RLock()
	clean, err := m.sanitizer.SanitizeAny(m.data)
	m.mu.RUnlock()
	if err != nil {
		return nil, errors.Wrap(err, "sanitize configuration")
	}
	out, _ := clean.(map[string]any)
	if out == nil {
		out = map[string]any{}
	}
	return out, nil
}

// Audit returns the plaintext-secret issues of the current configuration.
func (m *Manager) Audit() []Issue {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Audit(m.data, m.sanitizer)
}

// APIConfig is the client-facing subset of the configuration.
type APIConfig struct {
	BaseURL         string `json:"base_url"`
	Timeout         int    `json:"timeout"`
	MaxRetries      int    `json:"max_retries"`
	VerifySSL       bool   `json:"verify_ssl"`
	PoolConnections int    `json:"pool_connections"`
	PoolMaxSize     int    `json:"pool_maxsize"`
}

// API returns the API settings with their defaults applied.
func (m *Manager) API() APIConfig {
	return APIConfig{
		BaseURL:         stringValue(m.Get("base_url", ""), ""),
		Timeout:         intValue(m.Get("timeout", 30), 30),
		MaxRetries:      intValue(m.Get("max_retries", 3), 3),
		VerifySSL:       boolValue(m.Get("verify_ssl", true), true),
		PoolConnections: intValue(m.Get("pool_connections", 10), 10),
		PoolMaxSize:     intValue(m.Get("pool_maxsize", 20), 20),
	}
}

// AuthConfig holds login credentials. Logging it through goredact masks
// the password and captcha fields.
type AuthConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Captcha  string `json:"captcha"`
}

// Auth returns the credential settings.
func (m *Manager) Auth() AuthConfig {
	return AuthConfig{
		Username: stringValue(m.Get("username", ""), ""),
		Password: stringValue(m.Get("password", ""), ""),
		Captcha:  stringValue(m.Get("captcha", ""), ""),
	}
}

func stringValue(v any, def string) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return def
	}
	return fmt.Sprint(v)
}

func intValue(v any, def int) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return def
}

func boolValue(v any, def bool) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	}
	return def
}

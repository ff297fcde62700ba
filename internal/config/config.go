package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/vango-dev/ticketdesk/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "ticketdesk.jsonc"

	// DefaultAddress is the default listen address.
	DefaultAddress = "localhost:3000"

	// DefaultTitle is the default page heading.
	DefaultTitle = "Tickets"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"

	// DefaultNamespace is the Prometheus metrics namespace.
	DefaultNamespace = "ticketdesk"
)

// UI variants.
const (
	VariantClassic  = "classic"
	VariantThreaded = "threaded"
)

// Event binding policies.
const (
	PolicyGeneric   = "generic"
	PolicyAllowList = "allowlist"
)

// Config represents the complete ticketdesk.jsonc configuration.
type Config struct {
	// Server contains HTTP listener settings.
	Server ServerConfig `json:"server"`

	// Session contains per-connection settings.
	Session SessionConfig `json:"session"`

	// UI contains view settings.
	UI UIConfig `json:"ui"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string `json:"address,omitempty"`

	// ReadHeaderTimeout bounds reading request headers (e.g., "10s").
	ReadHeaderTimeout string `json:"readHeaderTimeout,omitempty"`

	// ShutdownTimeout bounds graceful shutdown (e.g., "15s").
	ShutdownTimeout string `json:"shutdownTimeout,omitempty"`

	// AllowedOrigins lists origins allowed to open the WebSocket.
	// Empty means same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty"`
}

// SessionConfig contains per-connection settings.
type SessionConfig struct {
	// MaxSessions caps concurrent WebSocket sessions.
	MaxSessions int `json:"maxSessions,omitempty"`

	// ReadTimeout closes a session that sends nothing for this long.
	ReadTimeout string `json:"readTimeout,omitempty"`

	// MaxMessageBytes caps a single incoming WebSocket message.
	MaxMessageBytes int64 `json:"maxMessageBytes,omitempty"`
}

// UIConfig contains view settings.
type UIConfig struct {
	// Title is the page heading and document title.
	Title string `json:"title,omitempty"`

	// Variant selects the layout: "classic" or "threaded".
	Variant string `json:"variant,omitempty"`

	// EventPolicy selects the listener binding policy: "generic" or "allowlist".
	EventPolicy string `json:"eventPolicy,omitempty"`

	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics and records event metrics.
	Enabled bool `json:"enabled"`

	// Path is the HTTP path for the metrics handler.
	Path string `json:"path,omitempty"`

	// Namespace prefixes every metric name.
	Namespace string `json:"namespace,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	c.applyDefaults()
	return c
}

// Load reads configuration from ticketdesk.jsonc in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
// Comments and trailing commas are allowed.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("T141").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'ticketdesk init' to write a default configuration")
		}
		return nil, errors.New("T120").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// LoadOrDefault loads path if it exists and returns defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if errors.Code(err) == "T141" {
		return New(), nil
	}
	return cfg, err
}

// Parse decodes JSONC data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{Metrics: MetricsConfig{Enabled: true}}
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, errors.New("T120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that the file is valid JSON; comments and trailing commas are allowed")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("T120").Wrap(err)
	}

	var b strings.Builder
	b.WriteString("// ticketdesk configuration. Comments and trailing commas are allowed.\n")
	b.Write(data)
	b.WriteString("\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return errors.New("T120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = DefaultAddress
	}
	if c.Server.ReadHeaderTimeout == "" {
		c.Server.ReadHeaderTimeout = "10s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "15s"
	}

	if c.Session.MaxSessions == 0 {
		c.Session.MaxSessions = 1000
	}
	if c.Session.ReadTimeout == "" {
		c.Session.ReadTimeout = "60s"
	}
	if c.Session.MaxMessageBytes == 0 {
		c.Session.MaxMessageBytes = 64 * 1024
	}

	if c.UI.Title == "" {
		c.UI.Title = DefaultTitle
	}
	if c.UI.Variant == "" {
		c.UI.Variant = VariantClassic
	}
	if c.UI.EventPolicy == "" {
		c.UI.EventPolicy = PolicyGeneric
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, port, err := net.SplitHostPort(c.Server.Address); err != nil || port == "" {
		return errors.New("T121").
			WithDetail("server.address " + `"` + c.Server.Address + `"` + " is not host:port")
	}
	for name, value := range map[string]string{
		"server.readHeaderTimeout": c.Server.ReadHeaderTimeout,
		"server.shutdownTimeout":   c.Server.ShutdownTimeout,
		"session.readTimeout":      c.Session.ReadTimeout,
	} {
		if d, err := time.ParseDuration(value); err != nil || d <= 0 {
			return errors.New("T124").
				WithDetail(name + ` = "` + value + `" is not a positive duration`)
		}
	}
	if c.Session.MaxSessions < 0 || c.Session.MaxMessageBytes < 0 {
		return errors.New("T126")
	}
	switch c.UI.Variant {
	case VariantClassic, VariantThreaded:
	default:
		return errors.New("T122").
			WithSuggestion(`Set ui.variant to "classic" or "threaded"`)
	}
	switch c.UI.EventPolicy {
	case PolicyGeneric, PolicyAllowList:
	default:
		return errors.New("T123").
			WithSuggestion(`Set ui.eventPolicy to "generic" or "allowlist"`)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New("T125")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("T125")
	}
	return nil
}

// ReadHeaderTimeout returns server.readHeaderTimeout as a duration.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return mustDuration(c.Server.ReadHeaderTimeout, 10*time.Second)
}

// ShutdownTimeout returns server.shutdownTimeout as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout, 15*time.Second)
}

// SessionReadTimeout returns session.readTimeout as a duration.
func (c *Config) SessionReadTimeout() time.Duration {
	return mustDuration(c.Session.ReadTimeout, 60*time.Second)
}

func mustDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

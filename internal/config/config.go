package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"gopkg.in/yaml.v3"

	"github.com/wbweb-dev/wbweb/internal/errors"
	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/negotiate"
	"github.com/wbweb-dev/wbweb/pkg/render"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "wbweb.json"

	// DefaultPort is the default server port.
	DefaultPort = 8080

	// DefaultHost is the default server host.
	DefaultHost = "localhost"

	// DefaultPagesDir is the default directory of page trees.
	DefaultPagesDir = "pages"

	// DefaultMetricsPath is the default Prometheus endpoint.
	DefaultMetricsPath = "/metrics"

	// MaxRenderDepth is the largest accepted render.maxDepth.
	MaxRenderDepth = 10000
)

// configFileNames are tried in order by Load and Exists.
var configFileNames = []string{ConfigFileName, "wbweb.yaml", "wbweb.yml"}

// Sanitize policies for raw markup nodes.
const (
	SanitizeNone   = "none"
	SanitizeUGC    = "ugc"
	SanitizeStrict = "strict"
)

// Config represents the complete wbweb configuration.
type Config struct {
	// Name is the site name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`

	// Render contains renderer configuration.
	Render RenderConfig `json:"render" yaml:"render"`

	// Negotiation lists the recognized media types.
	Negotiation NegotiationConfig `json:"negotiation" yaml:"negotiation"`

	// Server contains the demo server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Publish contains S3 publishing defaults.
	Publish PublishConfig `json:"publish" yaml:"publish"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RenderConfig contains renderer settings.
type RenderConfig struct {
	// MaxDepth bounds tree depth (default: 512).
	MaxDepth int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty"`

	// VoidElements renders HTML void elements without closing tags.
	VoidElements bool `json:"voidElements,omitempty" yaml:"voidElements,omitempty"`

	// Sanitize is the policy for raw markup: none, ugc or strict.
	Sanitize string `json:"sanitize,omitempty" yaml:"sanitize,omitempty"`
}

// NegotiationConfig contains the media types recognized per strategy.
// Empty lists keep the built-in defaults.
type NegotiationConfig struct {
	Structured []string `json:"structured,omitempty" yaml:"structured,omitempty"`
	Markup     []string `json:"markup,omitempty" yaml:"markup,omitempty"`
	Raw        []string `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// ServerConfig contains demo server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty"`

	// PagesDir holds the page trees served under /pages/{name}.
	PagesDir string `json:"pagesDir,omitempty" yaml:"pagesDir,omitempty"`

	// ReadTimeout is the request read timeout (e.g., "10s").
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty"`

	// WriteTimeout is the response write timeout (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty"`
}

// PublishConfig contains S3 publishing defaults.
type PublishConfig struct {
	Bucket       string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region       string `json:"region,omitempty" yaml:"region,omitempty"`
	CacheControl string `json:"cacheControl,omitempty" yaml:"cacheControl,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		LogLevel: "info",
		Render: RenderConfig{
			MaxDepth: hiccup.DefaultMaxDepth,
			Sanitize: SanitizeNone,
		},
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			PagesDir:     DefaultPagesDir,
			ReadTimeout:  "10s",
			WriteTimeout: "10s",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Path:      DefaultMetricsPath,
			Namespace: "wbweb",
		},
		Tracing: TracingConfig{
			TracerName: "wbweb",
		},
	}
}

// Load reads configuration from the specified directory. It looks for
// wbweb.json, then wbweb.yaml and wbweb.yml.
func Load(dir string) (*Config, error) {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("C002").
		WithDetail("No wbweb.json or wbweb.yaml found in " + dir)
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, anything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("C002").
				WithFile(path).
				WithDetail("No configuration file at " + path)
		}
		return nil, errors.New("C003").WithFile(path).Wrap(err)
	}

	cfg := New()
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("C003").
			WithFile(path).
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// extension asks for it.
func (c *Config) SaveTo(path string) error {
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("C003").WithFile(path).Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C003").WithFile(path).Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	// Render
	if c.Render.MaxDepth == 0 {
		c.Render.MaxDepth = hiccup.DefaultMaxDepth
	}
	if c.Render.Sanitize == "" {
		c.Render.Sanitize = SanitizeNone
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.PagesDir == "" {
		c.Server.PagesDir = DefaultPagesDir
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "10s"
	}

	// Metrics
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "wbweb"
	}

	// Tracing
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = "wbweb"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("C001").
			WithFile(c.configPath).
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Render.MaxDepth < 0 || c.Render.MaxDepth > MaxRenderDepth {
		return errors.New("C001").
			WithFile(c.configPath).
			WithDetail(fmt.Sprintf("render.maxDepth must be between 0 and %d", MaxRenderDepth))
	}
	switch c.Render.Sanitize {
	case "", SanitizeNone, SanitizeUGC, SanitizeStrict:
	default:
		return errors.New("C001").
			WithFile(c.configPath).
			WithDetail("render.sanitize must be one of none, ugc, strict; got " + strconv.Quote(c.Render.Sanitize))
	}
	if _, ok := parseLevel(c.LogLevel); !ok {
		return errors.New("C001").
			WithFile(c.configPath).
			WithDetail("logLevel must be one of debug, info, warn, error; got " + strconv.Quote(c.LogLevel))
	}
	for name, v := range map[string]string{
		"server.readTimeout":  c.Server.ReadTimeout,
		"server.writeTimeout": c.Server.WriteTimeout,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return errors.New("C001").
				WithFile(c.configPath).
				WithDetail(name + " is not a valid duration: " + strconv.Quote(v))
		}
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return errors.New("C001").
			WithFile(c.configPath).
			WithDetail("metrics.path must start with /")
	}
	return nil
}

// RendererConfig returns the renderer configuration.
func (c *Config) RendererConfig() render.Config {
	rc := render.Config{
		MaxDepth:     c.Render.MaxDepth,
		VoidElements: c.Render.VoidElements,
	}
	switch c.Render.Sanitize {
	case SanitizeUGC:
		rc.RawPolicy = bluemonday.UGCPolicy()
	case SanitizeStrict:
		rc.RawPolicy = bluemonday.StrictPolicy()
	}
	return rc
}

// MediaTypes returns the negotiation media types, falling back to the
// defaults per strategy.
func (c *Config) MediaTypes() negotiate.MediaTypes {
	mt := negotiate.DefaultMediaTypes()
	if len(c.Negotiation.Structured) > 0 {
		mt.Structured = c.Negotiation.Structured
	}
	if len(c.Negotiation.Markup) > 0 {
		mt.Markup = c.Negotiation.Markup
	}
	if len(c.Negotiation.Raw) > 0 {
		mt.Raw = c.Negotiation.Raw
	}
	return mt
}

// SlogLevel returns the configured log level. Unknown levels map to info.
func (c *Config) SlogLevel() slog.Level {
	level, _ := parseLevel(c.LogLevel)
	return level
}

// Address returns the address string for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// PagesPath returns the absolute path to the pages directory.
func (c *Config) PagesPath() string {
	if filepath.IsAbs(c.Server.PagesDir) {
		return c.Server.PagesDir
	}
	return filepath.Join(c.Dir(), c.Server.PagesDir)
}

// ReadTimeout returns the server read timeout.
func (c *Config) ReadTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.ReadTimeout)
	return d
}

// WriteTimeout returns the server write timeout.
func (c *Config) WriteTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Server.WriteTimeout)
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range configFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the directory that holds
// a configuration file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("C002").
				WithDetail("No wbweb.json or wbweb.yaml found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its closest parent that has one.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func parseLevel(s string) (slog.Level, bool) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Package config holds the settings of the structwsf tools. Nothing in the
// codec reads it; the binaries build a Config once and hand the pieces it
// yields to the components that need them.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/structwsf/linked"
	"github.com/geoknoesis/structwsf/resultset"
)

// Config is the complete tool configuration.
type Config struct {
	Prefixes []PrefixConfig `yaml:"prefixes"`
	Linked   LinkedConfig   `yaml:"linked"`
	Store    StoreConfig    `yaml:"store"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// PrefixConfig seeds one extra prefix on top of the core registry.
type PrefixConfig struct {
	Prefix    string `yaml:"prefix"`
	Namespace string `yaml:"namespace"`
}

// LinkedConfig points the linked JSON and CSV formats at a converter.
type LinkedConfig struct {
	JSONEndpoint string        `yaml:"json_endpoint"`
	CSVEndpoint  string        `yaml:"csv_endpoint"`
	Schema       string        `yaml:"schema"`
	Timeout      time.Duration `yaml:"timeout"`
	Cache        bool          `yaml:"cache"`
}

// StoreConfig locates the record store. An empty path keeps it in memory.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ServerConfig configures the conversion endpoint.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	BodyLimit       string        `yaml:"body_limit"`
}

// LogConfig configures the console logger.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Linked: LinkedConfig{Timeout: linked.DefaultTimeout},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 10 * time.Second,
			BodyLimit:       "32M",
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults, applies STRUCTWSF_*
// environment overrides and validates the result. An empty path skips the
// file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Addr = getEnvString("STRUCTWSF_SERVER_ADDR", c.Server.Addr)
	c.Store.Path = getEnvString("STRUCTWSF_STORE_PATH", c.Store.Path)
	c.Log.Level = getEnvString("STRUCTWSF_LOG_LEVEL", c.Log.Level)
	if getEnvBool("STRUCTWSF_DEBUG", false) {
		c.Log.Level = "debug"
	}
	c.Linked.JSONEndpoint = getEnvString("STRUCTWSF_LINKED_JSON_ENDPOINT", c.Linked.JSONEndpoint)
	c.Linked.CSVEndpoint = getEnvString("STRUCTWSF_LINKED_CSV_ENDPOINT", c.Linked.CSVEndpoint)
	c.Linked.Schema = getEnvString("STRUCTWSF_LINKED_SCHEMA", c.Linked.Schema)
	c.Linked.Cache = getEnvBool("STRUCTWSF_LINKED_CACHE", c.Linked.Cache)

	timeout, err := getEnvDuration("STRUCTWSF_LINKED_TIMEOUT", c.Linked.Timeout)
	if err != nil {
		return err
	}
	c.Linked.Timeout = timeout
	return nil
}

// Validate checks the configuration for values no component can use.
func (c *Config) Validate() error {
	var errs []error
	for i, p := range c.Prefixes {
		if p.Prefix == "" || strings.Contains(p.Prefix, ":") {
			errs = append(errs, fmt.Errorf("prefixes[%d]: invalid prefix %q", i, p.Prefix))
		}
		if !resultset.IsAbsoluteURI(p.Namespace) {
			errs = append(errs, fmt.Errorf("prefixes[%d]: namespace %q is not an absolute URI", i, p.Namespace))
		}
	}
	if c.Linked.Timeout < 0 {
		errs = append(errs, errors.New("linked.timeout must not be negative"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	return errors.Join(errs...)
}

// Registry returns the core prefix registry seeded with the configured
// prefixes. A prefix or namespace already bound elsewhere is an error.
func (c *Config) Registry() (*resultset.PrefixRegistry, error) {
	reg := resultset.NewPrefixRegistry()
	for _, p := range c.Prefixes {
		if !reg.Register(p.Prefix, p.Namespace) {
			return nil, fmt.Errorf("prefix %s: conflicts with an existing binding", p.Prefix)
		}
	}
	return reg, nil
}

// Endpoints returns the converter endpoint of each configured linked format.
func (c *Config) Endpoints() map[resultset.Format]string {
	endpoints := map[resultset.Format]string{}
	if c.Linked.JSONEndpoint != "" {
		endpoints[resultset.FormatIronJSON] = c.Linked.JSONEndpoint
	}
	if c.Linked.CSVEndpoint != "" {
		endpoints[resultset.FormatIronCSV] = c.Linked.CSVEndpoint
	}
	return endpoints
}

// Transformer returns the linked converter client, or nil when no endpoint
// is configured.
func (c *Config) Transformer(logger *slog.Logger) resultset.LinkedTransformer {
	endpoints := c.Endpoints()
	if len(endpoints) == 0 {
		return nil
	}
	opts := []linked.Option{linked.WithSchema(c.Linked.Schema)}
	if logger != nil {
		opts = append(opts, linked.WithLogger(logger))
	}
	if c.Linked.Timeout > 0 {
		opts = append(opts, linked.WithHTTPClient(&http.Client{Timeout: c.Linked.Timeout}))
	}
	if c.Linked.Cache {
		opts = append(opts, linked.WithCache())
	}
	return linked.New(endpoints, opts...)
}

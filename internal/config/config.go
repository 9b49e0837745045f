// Package config loads the XML settings file shared by the server and quotectl.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environment variables that override file values.
const (
	EnvPort     = "PORT"
	EnvLogLevel = "FIELDQUOTE_LOG_LEVEL"
	EnvCatalog  = "FIELDQUOTE_CATALOG"
)

// AppConfig is the root of the XML settings file.
type AppConfig struct {
	XMLName xml.Name `xml:"FieldQuote"`

	Server   ServerConfig   `xml:"Server"`
	Pipeline PipelineConfig `xml:"Pipeline"`
	Quotes   QuotesConfig   `xml:"Quotes"`
	Project  ProjectConfig  `xml:"Project"`
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// PipelineConfig tunes the simulated upload.
type PipelineConfig struct {
	TickMillis       int    `xml:"TickMilliseconds"`
	ProgressStep     int    `xml:"ProgressStep"`
	ProcessingMillis int    `xml:"ProcessingMilliseconds"`
	CatalogPath      string `xml:"CatalogPath"`
}

// QuotesConfig controls retention of submitted quotes.
type QuotesConfig struct {
	MaxQuotes              int `xml:"MaxQuotes"`
	RetentionHours         int `xml:"RetentionHours"`
	CleanupIntervalMinutes int `xml:"CleanupIntervalMinutes"`
}

// ProjectConfig holds the project a new quote is assembled for.
type ProjectConfig struct {
	Code     string `xml:"Code"`
	Location string `xml:"Location"`
	Units    int    `xml:"Units"`
}

// AdvancedConfig contains logging options.
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	LogFormat            string `xml:"LogFormat"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "50M",
		},
		Pipeline: PipelineConfig{
			TickMillis:       100,
			ProgressStep:     5,
			ProcessingMillis: 1500,
		},
		Quotes: QuotesConfig{
			MaxQuotes:              500,
			RetentionHours:         24 * 30,
			CleanupIntervalMinutes: 60,
		},
		Project: ProjectConfig{
			Code:     "NGMR-12345",
			Location: "Kuala Lumpur",
			Units:    10,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            "text",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig reads configPath, writing the defaults there first when the file does not exist.
func LoadConfig(configPath string) (*AppConfig, error) {
	var config *AppConfig

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		config = DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		config = DefaultConfig()
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return config, nil
}

// Resolve loads configPath, or returns the defaults with environment
// overrides when configPath is empty. Nothing is written in that case.
func Resolve(configPath string) (*AppConfig, error) {
	if configPath != "" {
		return LoadConfig(configPath)
	}

	config := DefaultConfig()
	config.applyEnvironmentOverrides()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Save writes the configuration as indented XML.
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "<!-- FieldQuote configuration, generated on first run -->\n")
	content := append(header, output...)
	content = append(content, '\n')

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects values the pipeline and server cannot run with.
func (c *AppConfig) Validate() error {
	switch {
	case c.Server.Port <= 0 || c.Server.Port > 65535:
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	case c.Pipeline.TickMillis < 0:
		return fmt.Errorf("pipeline tick can't be negative")
	case c.Pipeline.ProgressStep < 0 || c.Pipeline.ProgressStep > 100:
		return fmt.Errorf("pipeline progress step must be 0..100")
	case c.Pipeline.ProcessingMillis < 0:
		return fmt.Errorf("pipeline processing delay can't be negative")
	case c.Project.Units < 0:
		return fmt.Errorf("project units can't be negative")
	}

	switch strings.ToLower(c.Advanced.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Advanced.LogFormat)
	}
	return nil
}

func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv(EnvPort); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Advanced.LogLevel = level
	}
	if catalog := os.Getenv(EnvCatalog); catalog != "" {
		c.Pipeline.CatalogPath = catalog
	}
}

// resolvePaths makes the catalog path relative to the config file.
func (c *AppConfig) resolvePaths(configDir string) {
	if p := c.Pipeline.CatalogPath; p != "" && !filepath.IsAbs(p) {
		c.Pipeline.CatalogPath = filepath.Join(configDir, p)
	}
}

// GetServerAddr returns the server bind address.
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

func (p PipelineConfig) TickInterval() time.Duration {
	return time.Duration(p.TickMillis) * time.Millisecond
}

func (p PipelineConfig) ProcessingDelay() time.Duration {
	return time.Duration(p.ProcessingMillis) * time.Millisecond
}

func (q QuotesConfig) Retention() time.Duration {
	return time.Duration(q.RetentionHours) * time.Hour
}

func (q QuotesConfig) CleanupInterval() time.Duration {
	return time.Duration(q.CleanupIntervalMinutes) * time.Minute
}

func (s ServerConfig) Timeouts() (read, write, idle time.Duration) {
	return time.Duration(s.ReadTimeout) * time.Second,
		time.Duration(s.WriteTimeout) * time.Second,
		time.Duration(s.IdleTimeout) * time.Second
}

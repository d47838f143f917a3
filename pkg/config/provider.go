package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultListenAddr is used when rest.listen_addr is not set
	DefaultListenAddr = "0.0.0.0"
	// DefaultPort is used when rest.port is not set
	DefaultPort = 8080
	// DefaultVariable is the climatology variable read when a source names none
	DefaultVariable = "analysed_sst"
)

// ConfigProvider defines the interface for configuration data sources
type ConfigProvider interface {
	// Load complete configuration
	LoadConfig() (*ConfigData, error)

	IsReadOnly() bool
	Close() error
}

// ConfigData represents the complete configuration structure
type ConfigData struct {
	Log         LogData           `json:"log"`
	Climatology []ClimatologyData `json:"climatology"`
	Cache       CacheData         `json:"cache,omitempty"`
	REST        RESTServerData    `json:"rest"`
}

// LogData holds logging configuration
type LogData struct {
	Debug      bool   `json:"debug,omitempty"`
	File       string `json:"file,omitempty"`
	MaxSizeMB  int    `json:"max_size_mb,omitempty"`
	MaxBackups int    `json:"max_backups,omitempty"`
	MaxAgeDays int    `json:"max_age_days,omitempty"`
	Compress   bool   `json:"compress,omitempty"`
}

// ClimatologyData describes one monthly climatology variable inside a grid store file
type ClimatologyData struct {
	// Name is the variable name inside the grid store, e.g. analysed_sst
	Name string `json:"name"`
	// Alias is the name the variable is served under; defaults to Name
	Alias string `json:"alias,omitempty"`
	File  string `json:"file"`
}

// ExposedName returns the name the variable is served under
func (c ClimatologyData) ExposedName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Name
}

// CacheData holds the daily grid cache configuration. An empty Path
// disables the cache.
type CacheData struct {
	Path string `json:"path,omitempty"`
}

// RESTServerData holds the REST API server configuration
type RESTServerData struct {
	Cert       string `json:"cert,omitempty"`
	Key        string `json:"key,omitempty"`
	ListenAddr string `json:"listen_addr,omitempty"`
	Port       int    `json:"port,omitempty"`
}

// ApplyDefaults fills in unset values
func (c *ConfigData) ApplyDefaults() {
	if c.REST.ListenAddr == "" {
		c.REST.ListenAddr = DefaultListenAddr
	}
	if c.REST.Port == 0 {
		c.REST.Port = DefaultPort
	}
	if c.Log.File != "" {
		if c.Log.MaxSizeMB == 0 {
			c.Log.MaxSizeMB = 50
		}
		if c.Log.MaxBackups == 0 {
			c.Log.MaxBackups = 5
		}
	}
	for i := range c.Climatology {
		if c.Climatology[i].Name == "" {
			c.Climatology[i].Name = DefaultVariable
		}
	}
}

// Validate checks the configuration for errors that would prevent startup
func (c *ConfigData) Validate() error {
	if len(c.Climatology) == 0 {
		return fmt.Errorf("no climatology sources configured")
	}

	seen := make(map[string]bool)
	for i, src := range c.Climatology {
		if strings.TrimSpace(src.File) == "" {
			return fmt.Errorf("climatology source %d (%s) has no file", i, src.ExposedName())
		}
		name := src.ExposedName()
		if seen[name] {
			return fmt.Errorf("climatology name %q is configured more than once", name)
		}
		seen[name] = true
	}

	if c.REST.Port < 1 || c.REST.Port > 65535 {
		return fmt.Errorf("rest.port %d is out of range", c.REST.Port)
	}
	if (c.REST.Cert == "") != (c.REST.Key == "") {
		return fmt.Errorf("rest.cert and rest.key must be set together")
	}

	return nil
}

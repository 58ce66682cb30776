// Package config loads the CLI's YAML configuration file: the vault
// server's address and the local path to the known-vaults list.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServerConfig is the remote vault server's address.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// VaultStoreConfig points at the on-disk list of known vault names.
type VaultStoreConfig struct {
	Path string `yaml:"path"`
}

// Config is the top-level configuration document.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	VaultStore VaultStoreConfig `yaml:"vault_store"`
}

// Load reads and parses the YAML config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return &cfg, nil
}

// ServerURL composes the server's base URL as "http://host:port".
func (c *Config) ServerURL() string {
	return fmt.Sprintf("http://%s:%d", c.Server.Host, c.Server.Port)
}

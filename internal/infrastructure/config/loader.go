// Package config loads game configuration from YAML.
package config

import (
	_ "embed"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed game.yaml
var defaultYAML []byte

// Loader loads configuration from YAML files using the fs.FS interface.
type Loader struct {
	fsys fs.FS
}

// NewLoader creates a config loader rooted at a filesystem path.
func NewLoader(basePath string) *Loader {
	return &Loader{fsys: os.DirFS(basePath)}
}

// NewFSLoader creates a config loader from fs.FS.
func NewFSLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// Load reads and parses game.yaml.
func (l *Loader) Load() (*Config, error) {
	data, err := fs.ReadFile(l.fsys, "game.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read game.yaml: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse game.yaml: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads game.yaml from basePath, falling back to the embedded
// default when the file does not exist.
func LoadOrDefault(basePath string) (*Config, error) {
	if basePath != "" {
		if _, err := os.Stat(basePath + "/game.yaml"); err == nil {
			return NewLoader(basePath).Load()
		}
	}
	return Default(), nil
}

// Default returns the embedded default configuration.
func Default() *Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		// The embedded default is fixed at build time.
		panic(fmt.Sprintf("invalid embedded config: %v", err))
	}
	return &cfg
}

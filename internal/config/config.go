// Package config resolves vk-tower's settings from its config file,
// command line and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/linyaa-kiwi/vk-tower/internal/jsontree"
	"github.com/linyaa-kiwi/vk-tower/internal/log"
)

// Config holds the options read from the config file and command line.
// Resolve layers the environment on top and yields the effective Settings.
type Config struct {
	// Debug turns on debug logging and dropped-member diagnostics.
	Debug bool `mapstructure:"debug"`

	// DebugFile receives debug log output. Empty logs to stderr.
	DebugFile string `mapstructure:"debug_file"`

	// Format selects the output encoding: "json", "json5" or "yaml".
	Format string `mapstructure:"format"`

	// RegistryPaths lists extra registry roots searched before the XDG
	// roots, in descending priority. Entries must be absolute.
	RegistryPaths []string `mapstructure:"registry_paths"`

	// RegistryFiles lists individual registry files added on top of the
	// scanned roots, classified by suffix. Entries must be absolute.
	RegistryFiles []string `mapstructure:"registry_files"`

	// IgnoreXDGPaths drops the XDG user and system registry roots from
	// the search path.
	IgnoreXDGPaths bool `mapstructure:"ignore_xdg_paths"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{Format: "json"}
}

// Validate checks the file and flag configuration for errors. Environment
// variables are not validated here; malformed entries there are ignored
// per the XDG parsing rules.
func Validate(cfg Config) error {
	if _, err := jsontree.ParseFormat(cfg.Format); err != nil {
		return err
	}
	for _, p := range cfg.RegistryPaths {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("registry_paths entry is not absolute: %q", p)
		}
	}
	for _, p := range cfg.RegistryFiles {
		if !filepath.IsAbs(p) {
			return fmt.Errorf("registry_files entry is not absolute: %q", p)
		}
	}
	return nil
}

// DefaultConfigPath returns the default config file location under the XDG
// config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "vk-tower", "config.yaml")
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# vk-tower configuration

# Output format for porcelain commands: json (default), json5, or yaml.
# format: json

# Turn on debug logging.
# debug: true

# File that receives debug log output (default: stderr).
# debug_file: /tmp/vk-tower.log

# Extra registry roots searched before the XDG user and system roots,
# in descending priority. Entries must be absolute.
# registry_paths:
#   - /opt/vulkan/registry

# Individual registry files added on top of the scanned roots.
# A .xml file is added as the API description; .json and .json5 files
# are added as profile documents.
# registry_files:
#   - /tmp/VP_custom_profile.json

# Drop the XDG user and system registry roots from the search path.
# ignore_xdg_paths: true
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
// An existing file is never overwritten.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "writing default config", "path", configPath)

	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %q", configPath)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "created default config", "path", configPath)
	return nil
}

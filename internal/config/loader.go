package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the configuration file name searched for in the
	// current and home directories.
	DefaultConfigFile = ".qrtitle"

	// xdgConfigFile is the configuration file name inside XDGConfigDir.
	xdgConfigFile = "config.yaml"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads per-host settings from a YAML file.
// Host keys are matched case-insensitively and stored lowercased.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	hosts := make(map[string]HostConfig, len(cf.Hosts))
	for host, hc := range cf.Hosts {
		hosts[strings.ToLower(host)] = hc
	}
	cf.Hosts = hosts

	return &cf, nil
}

// FindConfigFile returns the configuration file to load, or "" if none exists.
// An explicit configPath is returned only if it exists. Otherwise the
// following are tried in order:
//  1. .qrtitle in the current directory
//  2. qrtitle/config.yaml in the XDG config directory
//  3. .qrtitle in the user's home directory
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}
	return firstExisting(searchPaths())
}

// searchPaths returns the implicit configuration file candidates.
func searchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	paths = append(paths, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return paths
}

// firstExisting returns the first path that names a regular file.
func firstExisting(paths []string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// LoadHosts locates and loads the configuration file into c.Hosts.
// A missing explicit file is an error; a missing implicit one is not, and
// leaves c.Hosts as an empty File.
func (c *Config) LoadHosts() error {
	path := FindConfigFile(c.ConfigFilePath)
	if path == "" {
		if c.ConfigFilePath != "" {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, c.ConfigFilePath)
		}
		c.Hosts = &File{Hosts: map[string]HostConfig{}}
		return nil
	}

	file, err := LoadConfigFile(path)
	if err != nil {
		return err
	}
	c.Hosts = file
	return nil
}

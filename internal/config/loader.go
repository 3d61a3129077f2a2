package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Load loads config from the default path (~/.missionctl/config.json).
// A missing file yields the defaults rather than an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	path := filepath.Join(home, ".missionctl", "config.json")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandHomePaths(cfg)
		return cfg, nil
	}
	return LoadFromFile(path)
}

// LoadFromFile loads config from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader loads config from an io.Reader, applying defaults and env overrides.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	if err := json.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	expandHomePaths(cfg)

	return cfg, nil
}

// applyEnvOverrides applies MISSIONCTL_-prefixed environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	envMap := map[string]*string{
		"MISSIONCTL_RUNTIME_BIN":      &cfg.Runtime.Bin,
		"MISSIONCTL_RUNTIME_STATEDIR": &cfg.Runtime.StateDir,
		"MISSIONCTL_STORE_PATH":       &cfg.Store.Path,
		"MISSIONCTL_SYNC_SCHEDULE":    &cfg.Sync.Schedule,
		"MISSIONCTL_WEB_LISTEN":       &cfg.Web.Listen,
	}

	for env, ptr := range envMap {
		if val := os.Getenv(env); val != "" {
			*ptr = val
		}
	}
}

// expandHomePaths expands a leading ~ in path-valued settings.
func expandHomePaths(cfg *Config) {
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	for _, p := range []*string{&cfg.Runtime.StateDir, &cfg.Store.Path} {
		if len(*p) >= 2 && (*p)[0] == '~' && (*p)[1] == '/' {
			*p = filepath.Join(home, (*p)[2:])
		}
	}
}

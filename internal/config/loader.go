package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load reads and parses configuration from a file, overlaying it on Defaults().
// If a .checksums manifest exists next to the file, the file is hash-verified first.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: check the path or omit --config to use built-in defaults", absPath)
	}

	if err := verifyChecksumIfLocked(absPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", absPath, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.MergeTrain.Prefix == "" {
		return fmt.Errorf("merge_train.prefix must not be empty")
	}
	for _, seg := range []struct{ name, value string }{
		{"runners.default", cfg.Runners.Default},
		{"runners.linux_x86_64", cfg.Runners.LinuxX86_64},
		{"runners.linux_arm64", cfg.Runners.LinuxArm64},
	} {
		if seg.value == "" {
			return fmt.Errorf("%s must not be empty", seg.name)
		}
	}
	if cfg.Toolchain.Channel == "" {
		return fmt.Errorf("toolchain.channel must not be empty")
	}
	if cfg.Toolchain.CacheBackend == "" {
		return fmt.Errorf("toolchain.cache_backend must not be empty")
	}
	return nil
}

package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cleardir/internal/config"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - CLEARDIR_CONFIG_PATH: config file location (default: ~/.config/cleardir.toml)
//   - CLEARDIR_HOME: base directory for the journal and logs (default: ~/.local/share/cleardir)
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	baseDir, err := getBaseDir()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

func getConfigPath() (string, error) {
	if path := os.Getenv("CLEARDIR_CONFIG_PATH"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "cleardir.toml"), nil
}

func getBaseDir() (string, error) {
	if path := os.Getenv("CLEARDIR_HOME"); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "cleardir"), nil
}

// LoadConfig reads the config at path. A missing file yields DefaultConfig
// unless the path was given explicitly, in which case it is an error.
func LoadConfig(path string, explicit bool) (*config.Config, error) {
	cfg, err := config.ReadFromFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config provides configuration loading and persistence for
// rootreset. It uses Viper for file/env/flag layering and goccy/go-yaml to
// write configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName  = "rootreset"
	fileName = appName + ".yaml"
)

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), appName)
		default: // Linux, macOS, etc.
			configDir = filepath.Join("/etc", appName)
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, appName)
	}

	return filepath.Join(configDir, fileName), nil
}

// LoadConfig layers defaults, the first rootreset.yaml found (or the file
// passed via --config), ROOTRESET_* environment variables and the command's
// flags, then decodes the result into T. A missing config file is not an
// error.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, explicitPath *string) (T, string, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. File search paths, or the explicit --config file which wins.
	v.SetConfigType("yaml")
	if explicitPath != nil && *explicitPath != "" {
		v.SetConfigFile(*explicitPath)
	} else {
		v.SetConfigName(appName)
		if userConfigPath, err := GetConfigPath(false); err == nil {
			v.AddConfigPath(filepath.Dir(userConfigPath))
		}
		if systemConfigPath, err := GetConfigPath(true); err == nil {
			v.AddConfigPath(filepath.Dir(systemConfigPath))
		}
		v.AddConfigPath(".")
	}

	// 3. Read in the config file.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return c, "", fmt.Errorf("reading config file: %w", err)
		}
	}

	// 4. Environment variables, e.g. ROOTRESET_SERVICE_NAME.
	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 5. Flags that were explicitly set on the command line.
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, "", err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, "", fmt.Errorf("decoding config: %w", err)
	}

	return c, v.ConfigFileUsed(), nil
}

// WriteConfigFile writes c to the user (or system) configuration path and
// returns the path written.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

// Marshal renders a configuration value as YAML.
func Marshal[T any](c *T) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}

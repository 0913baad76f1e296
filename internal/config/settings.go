// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import (
	"fmt"
	"runtime"
	"time"
)

// Safe-mode methods.
const (
	MethodSkipGrantTables = "skip-grant-tables"
	MethodInitFile        = "init-file"
)

// Client kinds.
const (
	ClientDriver = "driver"
	ClientCLI    = "cli"
)

// Config is the effective configuration of a rootreset run. Every field has
// a usable default; the password is never part of it.
type Config struct {
	Language string         `mapstructure:"language" yaml:"language"`
	Service  ServiceConfig  `mapstructure:"service" yaml:"service"`
	MySQL    MySQLConfig    `mapstructure:"mysql" yaml:"mysql"`
	Account  AccountConfig  `mapstructure:"account" yaml:"account"`
	SafeMode SafeModeConfig `mapstructure:"safe_mode" yaml:"safe_mode"`
	Client   ClientConfig   `mapstructure:"client" yaml:"client"`
	Verify   VerifyConfig   `mapstructure:"verify" yaml:"verify"`
	Console  ConsoleConfig  `mapstructure:"console" yaml:"console"`
}

// ServiceConfig controls how the database service is stopped and restarted.
type ServiceConfig struct {
	// Name of the service; empty means detect from well-known names.
	Name         string        `mapstructure:"name" yaml:"name"`
	Manager      string        `mapstructure:"manager" yaml:"manager"`
	StopTimeout  time.Duration `mapstructure:"stop_timeout" yaml:"stop_timeout"`
	StartTimeout time.Duration `mapstructure:"start_timeout" yaml:"start_timeout"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	KillStray    bool          `mapstructure:"kill_stray" yaml:"kill_stray"`
}

// MySQLConfig locates the installation. Empty paths are auto-detected.
type MySQLConfig struct {
	BinDir       string `mapstructure:"bin_dir" yaml:"bin_dir"`
	Server       string `mapstructure:"server" yaml:"server"`
	Client       string `mapstructure:"client" yaml:"client"`
	DefaultsFile string `mapstructure:"defaults_file" yaml:"defaults_file"`
	RunAsUser    string `mapstructure:"run_as_user" yaml:"run_as_user"`
	// Socket of the regular server, used to verify the new password.
	Socket string `mapstructure:"socket" yaml:"socket"`
}

// AccountConfig names the administrative account whose password is reset.
type AccountConfig struct {
	User string `mapstructure:"user" yaml:"user"`
	Host string `mapstructure:"host" yaml:"host"`
}

type SafeModeConfig struct {
	Method          string        `mapstructure:"method" yaml:"method"`
	ReadyAttempts   int           `mapstructure:"ready_attempts" yaml:"ready_attempts"`
	ReadyInterval   time.Duration `mapstructure:"ready_interval" yaml:"ready_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	TempDir         string        `mapstructure:"temp_dir" yaml:"temp_dir"`
	ExtraArgs       []string      `mapstructure:"extra_args" yaml:"extra_args"`
}

type ClientConfig struct {
	Kind           string        `mapstructure:"kind" yaml:"kind"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
}

type VerifyConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

type ConsoleConfig struct {
	PauseOnExit bool `mapstructure:"pause_on_exit" yaml:"pause_on_exit"`
}

// Defaults returns the viper defaults for the current platform.
func Defaults() map[string]any {
	runAs := "mysql"
	if runtime.GOOS == "windows" {
		runAs = ""
	}
	return map[string]any{
		"language": "en",

		"service.name":          "",
		"service.manager":       "auto",
		"service.stop_timeout":  30 * time.Second,
		"service.start_timeout": 60 * time.Second,
		"service.poll_interval": 500 * time.Millisecond,
		"service.kill_stray":    false,

		"mysql.bin_dir":       "",
		"mysql.server":        "",
		"mysql.client":        "",
		"mysql.defaults_file": "",
		"mysql.run_as_user":   runAs,
		"mysql.socket":        "",

		"account.user": "root",
		"account.host": "localhost",

		"safe_mode.method":           MethodSkipGrantTables,
		"safe_mode.ready_attempts":   10,
		"safe_mode.ready_interval":   500 * time.Millisecond,
		"safe_mode.shutdown_timeout": 15 * time.Second,
		"safe_mode.temp_dir":         "",
		"safe_mode.extra_args":       []string{},

		"client.kind":            ClientDriver,
		"client.connect_timeout": 5 * time.Second,

		"verify.enabled": true,

		"console.pause_on_exit": runtime.GOOS == "windows",
	}
}

// Validate rejects values the reset cannot work with.
func (c *Config) Validate() error {
	switch c.SafeMode.Method {
	case MethodSkipGrantTables, MethodInitFile:
	default:
		return fmt.Errorf("safe_mode.method must be %q or %q, got %q", MethodSkipGrantTables, MethodInitFile, c.SafeMode.Method)
	}
	switch c.Client.Kind {
	case ClientDriver, ClientCLI:
	default:
		return fmt.Errorf("client.kind must be %q or %q, got %q", ClientDriver, ClientCLI, c.Client.Kind)
	}
	switch c.Service.Manager {
	case "auto", "systemd", "sysv", "windows":
	default:
		return fmt.Errorf("service.manager must be one of auto, systemd, sysv, windows, got %q", c.Service.Manager)
	}
	if c.Account.User == "" {
		return fmt.Errorf("account.user must not be empty")
	}
	if c.Account.Host == "" {
		return fmt.Errorf("account.host must not be empty")
	}
	if c.SafeMode.ReadyAttempts <= 0 {
		return fmt.Errorf("safe_mode.ready_attempts must be positive, got %d", c.SafeMode.ReadyAttempts)
	}
	if c.SafeMode.ReadyInterval <= 0 || c.Service.PollInterval <= 0 {
		return fmt.Errorf("poll intervals must be positive")
	}
	return nil
}

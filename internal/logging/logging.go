// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging provides the leveled diagnostic logger used across
// rootreset. Nothing logged here may contain credential material.
package logging

import (
	"io"

	clog "github.com/charmbracelet/log"
)

// SetDebug enables or disables debug logging for the application.
func SetDebug(enabled bool) {
	if enabled {
		L.SetLevel(clog.DebugLevel)
		return
	}
	L.SetLevel(clog.InfoLevel)
}

// DebugEnabled reports whether debug messages are currently emitted.
func DebugEnabled() bool {
	return L.GetLevel() <= clog.DebugLevel
}

// SetOutput redirects the logger. Tests use it to capture output.
func SetOutput(w io.Writer) {
	L.SetOutput(w)
}

// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package logging

import (
	"os"

	clog "github.com/charmbracelet/log"
)

// L is the package-level diagnostic logger. It writes to stderr so that the
// operator-facing status lines on stdout stay readable. Callers should use
// the helper functions below rather than L directly.
var L = newLogger()

func newLogger() *clog.Logger {
	l := clog.NewWithOptions(os.Stderr, clog.Options{
		Prefix:          "rootreset",
		ReportTimestamp: true,
	})
	l.SetLevel(clog.InfoLevel)
	return l
}

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...any) {
	L.Debugf(format, v...)
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...any) {
	L.Infof(format, v...)
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...any) {
	L.Warnf(format, v...)
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...any) {
	L.Errorf(format, v...)
}

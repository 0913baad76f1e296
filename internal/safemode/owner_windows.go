// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package safemode

// SetOwner is a no-op on Windows; mysqld runs as the elevated caller.
func (w *Workspace) SetOwner(string) error { return nil }

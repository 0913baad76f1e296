// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package platform

import "os"

var geteuid = os.Geteuid

// IsElevated reports whether the process runs as root.
func IsElevated() (bool, error) {
	return geteuid() == 0, nil
}

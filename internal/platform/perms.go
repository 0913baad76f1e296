// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

// Package platform hides the host-specific parts of a reset: privilege
// detection, installation discovery and file permission policy.
package platform

import "os"

const (
	// PrivateDirPerm is used for the safe-mode workspace directory.
	PrivateDirPerm = os.FileMode(0o700)

	// SecretFilePerm is used for every file that may hold credential material.
	SecretFilePerm = os.FileMode(0o600)
)

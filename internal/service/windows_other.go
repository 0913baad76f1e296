// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package service

import "errors"

func newWindows() (Manager, error) {
	return nil, errors.New("the windows service manager is only available on windows")
}

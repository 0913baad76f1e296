// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build windows

package platform

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// IsElevated reports whether the process token is elevated and a member of
// the local Administrators group.
func IsElevated() (bool, error) {
	token := windows.GetCurrentProcessToken()
	if !token.IsElevated() {
		return false, nil
	}

	var sid *windows.SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false, fmt.Errorf("allocating administrators SID: %w", err)
	}
	defer windows.FreeSid(sid)

	member, err := windows.Token(0).IsMember(sid)
	if err != nil {
		return false, fmt.Errorf("checking administrators membership: %w", err)
	}
	return member, nil
}

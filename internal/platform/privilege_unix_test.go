// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package platform

import "testing"

func TestIsElevated_Unix(t *testing.T) {
	prev := geteuid
	defer func() { geteuid = prev }()

	geteuid = func() int { return 0 }
	if ok, err := IsElevated(); err != nil || !ok {
		t.Fatalf("uid 0 should be elevated, got %v %v", ok, err)
	}

	geteuid = func() int { return 1000 }
	if ok, err := IsElevated(); err != nil || ok {
		t.Fatalf("uid 1000 should not be elevated, got %v %v", ok, err)
	}
}

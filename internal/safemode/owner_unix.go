// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

//go:build !windows

package safemode

import (
	"fmt"
	"os"
	"os/user"
	"strconv"
)

var geteuid = os.Geteuid

// SetOwner hands the workspace to the OS account mysqld drops to with
// --user. Only root can do that; for anyone else it is a no-op because
// mysqld then keeps running as the caller.
func (w *Workspace) SetOwner(username string) error {
	if username == "" || geteuid() != 0 {
		return nil
	}
	u, err := user.Lookup(username)
	if err != nil {
		return fmt.Errorf("looking up server account %q: %w", username, err)
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return fmt.Errorf("parsing uid of %q: %w", username, err)
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return fmt.Errorf("parsing gid of %q: %w", username, err)
	}
	if err := os.Chown(w.dir, uid, gid); err != nil {
		return fmt.Errorf("handing workspace to %q: %w", username, err)
	}

	w.mu.Lock()
	w.owner = &owner{uid: uid, gid: gid}
	w.mu.Unlock()
	return nil
}

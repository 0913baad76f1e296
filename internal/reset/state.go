// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package reset

// State is a node of the run's state machine. Transitions only move forward.
type State int

const (
	Init State = iota
	PrivilegeChecked
	DependenciesChecked
	ServiceStopped
	SafeModeRunning
	CredentialUpdated
	CleanedUp
	Success
	Failed
)

var stateNames = [...]string{
	Init:                "init",
	PrivilegeChecked:    "privilege-checked",
	DependenciesChecked: "dependencies-checked",
	ServiceStopped:      "service-stopped",
	SafeModeRunning:     "safe-mode-running",
	CredentialUpdated:   "credential-updated",
	CleanedUp:           "cleaned-up",
	Success:             "success",
	Failed:              "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == Success || s == Failed }

// Phase names a step of the run. The values double as message ids below
// "phase." in the locale files.
type Phase string

const (
	PhaseCheckPrivileges   Phase = "check_privileges"
	PhaseCheckDependencies Phase = "check_dependencies"
	PhaseStopService       Phase = "stop_service"
	PhaseLaunchSafeMode    Phase = "launch_safe_mode"
	PhasePromptPassword    Phase = "prompt_new_password"
	PhaseApplyCredential   Phase = "apply_credential_change"
	PhaseCleanup           Phase = "cleanup"
	PhaseVerifyPassword    Phase = "verify_password"
)

func (p Phase) String() string { return string(p) }

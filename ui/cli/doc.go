// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the rootreset command line using Cobra. It loads
// the configuration, renders progress on the console and hands the actual
// work to the reset orchestrator. CLI code should remain thin.
package cli

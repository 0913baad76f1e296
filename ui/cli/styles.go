// Copyright (c) 2026 ToeiRei
// Rootreset - MySQL root password recovery tool
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240") // Muted gray
	colorHighlight = lipgloss.Color("81")  // Teal
	colorSpecial   = lipgloss.Color("208") // Orange
	colorError     = lipgloss.Color("196") // Bright red
	colorSuccess   = lipgloss.Color("40")  // Green
)

var (
	bannerStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorHighlight).
			Padding(0, 2)

	phaseStyle   = lipgloss.NewStyle().Foreground(colorHighlight)
	doneStyle    = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorSpecial)
	noticeStyle  = lipgloss.NewStyle().Foreground(colorSubtle)

	successBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorSuccess).
			Padding(0, 2)

	failureBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(colorError).
			Padding(0, 2)

	boxTitleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	boxTitleFailure = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)

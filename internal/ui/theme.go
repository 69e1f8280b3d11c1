package ui

import (
	"github.com/charmbracelet/lipgloss"

	"inviter/internal/models"
	"inviter/internal/notify"
)

// Theme defines the color palette for the client's terminal UI. All
// colors are ANSI 256 codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Brand highlight: titles, the active wizard step, buttons.
	Accent lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Answer colors.
	Yes     lipgloss.Color
	No      lipgloss.Color
	Pending lipgloss.Color

	// Notification levels.
	Success lipgloss.Color
	Error   lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
}

// AnswerColor maps a recorded answer to its display color. Anything
// unrecognized (including "no answer yet") renders as pending.
func (t Theme) AnswerColor(answer models.Answer) lipgloss.Color {
	switch answer {
	case models.AnswerYes:
		return t.Yes
	case models.AnswerNo:
		return t.No
	}
	return t.Pending
}

// LevelColor maps a notification level to its display color.
func (t Theme) LevelColor(level notify.Level) lipgloss.Color {
	switch level {
	case notify.Success:
		return t.Success
	case notify.Error:
		return t.Error
	}
	return t.NormalText
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	Accent: lipgloss.Color("105"), // indigo, the product's brand color

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	Yes:     lipgloss.Color("114"), // green
	No:      lipgloss.Color("203"), // red
	Pending: lipgloss.Color("245"), // gray

	Success: lipgloss.Color("114"),
	Error:   lipgloss.Color("203"),

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
}

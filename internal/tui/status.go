package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Canonical short status messages used across the app.
const (
	MsgReady          = "Ready"
	MsgStillSearching = "A search is already running"
	MsgInputsCleared  = "Filters cleared"
	MsgNoDetail       = "Select a result row to view it"
	MsgLoadingEvent   = "Loading event…"
)

func MsgSearchDone(matches string) string {
	if matches == "1" {
		return "1 match"
	}
	return fmt.Sprintf("%s matches", matches)
}

func statusStyle(kind StatusKind) lipgloss.Style {
	switch kind {
	case StatusSuccess:
		return StatusSuccessStyle
	case StatusWarn:
		return StatusWarnStyle
	case StatusError:
		return StatusErrorStyle
	default:
		return StatusInfoStyle
	}
}

package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/chronos/internal/config"
)

func TestKeyHandler_ModifierKey(t *testing.T) {
	app := NewApp(&fakeSearcher{}, config.TestConfig(), nil)

	assert.NotNil(t, app.keyHandler)
	assert.Equal(t, "ctrl+", app.keyHandler.modifierKey)
}

func TestKeyHandler_CustomModifier(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Keys.Modifier = "alt"
	app := NewApp(&fakeSearcher{result: sampleResult()}, cfg, nil)

	assert.True(t, key.Matches(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s"), Alt: true}, app.keyHandler.keys.Search))
	assert.False(t, key.Matches(tea.KeyMsg{Type: tea.KeyCtrlS}, app.keyHandler.keys.Search))
}

func TestKeyHandler_SearchKeyFromResults(t *testing.T) {
	app := NewApp(&fakeSearcher{result: sampleResult()}, config.TestConfig(), nil)

	typeText(app, "web-1")
	app.setFocus(FocusResults)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.NotNil(t, cmd)
	assert.True(t, app.busy)
}

func TestKeyHandler_HelpPerView(t *testing.T) {
	app := NewApp(&fakeSearcher{}, config.TestConfig(), nil)
	kh := app.keyHandler

	assert.Contains(t, kh.GetHelpForCurrentView(), kh.keys.Submit)

	app.setFocus(FocusResults)
	assert.Contains(t, kh.GetHelpForCurrentView(), kh.keys.Up)

	app.view = ViewDetail
	assert.Contains(t, kh.GetHelpForCurrentView(), kh.keys.Back)
	assert.NotContains(t, kh.GetHelpForCurrentView(), kh.keys.Submit)
}

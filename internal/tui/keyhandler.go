package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/chronos/internal/config"
	"github.com/pders01/chronos/internal/view"
)

type KeyHandler struct {
	app         *App
	config      *config.Config
	keys        keyMap
	modifierKey string
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{
		app:         app,
		config:      cfg,
		keys:        newKeyMap(cfg.Keys),
		modifierKey: cfg.Keys.Modifier + "+",
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, kh.keys.Quit) {
		return kh.app, tea.Quit
	}

	// A notice holds the screen until it is acknowledged.
	if kh.app.notice != "" {
		kh.app.notice = ""
		return kh.app, nil
	}

	switch kh.app.view {
	case ViewDetail:
		return kh.handleDetailKeys(msg)
	default:
		return kh.handleSearchKeys(msg)
	}
}

func (kh *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	switch {
	case key.Matches(msg, kh.keys.Search):
		return app, app.startSearch()
	case key.Matches(msg, kh.keys.Clear):
		app.sourceInput.Reset()
		app.containsInput.Reset()
		app.setFocus(FocusSource)
		app.setStatus(MsgInputsCleared, StatusInfo)
		return app, nil
	case key.Matches(msg, kh.keys.Next):
		app.setFocus(app.focus.next())
		return app, nil
	case key.Matches(msg, kh.keys.Prev):
		app.setFocus(app.focus.prev())
		return app, nil
	case key.Matches(msg, kh.keys.Submit):
		return kh.handleSubmit()
	case key.Matches(msg, kh.keys.Back):
		if app.focus == FocusResults || app.focus == FocusButton {
			app.setFocus(FocusSource)
		}
		return app, nil
	}

	return kh.delegateToFocused(msg)
}

func (kh *KeyHandler) handleSubmit() (tea.Model, tea.Cmd) {
	app := kh.app
	if app.focus != FocusResults {
		return app, app.startSearch()
	}

	row, ok := app.selectedMatch()
	if !ok {
		app.setStatus(MsgNoDetail, StatusInfo)
		return app, nil
	}
	return kh.openDetail(row)
}

func (kh *KeyHandler) openDetail(row view.Row) (tea.Model, tea.Cmd) {
	app := kh.app
	app.detail = row
	app.detailLoading = true
	app.view = ViewDetail
	return app, app.renderDetail(row)
}

// delegateToFocused passes the key to the focused component.
func (kh *KeyHandler) delegateToFocused(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app
	var cmd tea.Cmd

	switch app.focus {
	case FocusSource:
		app.sourceInput, cmd = app.sourceInput.Update(msg)
	case FocusContains:
		app.containsInput, cmd = app.containsInput.Update(msg)
	case FocusResults:
		app.results, cmd = app.results.Update(msg)
	}
	return app, cmd
}

func (kh *KeyHandler) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	app := kh.app

	if key.Matches(msg, kh.keys.Back) {
		app.view = ViewSearch
		app.detailLoading = false
		return app, nil
	}

	var cmd tea.Cmd
	app.viewport, cmd = app.viewport.Update(msg)
	return app, cmd
}

// GetHelpForCurrentView lists the bindings shown in the status bar.
func (kh *KeyHandler) GetHelpForCurrentView() []key.Binding {
	k := kh.keys
	if kh.app.notice != "" {
		return []key.Binding{key.NewBinding(key.WithKeys("any"), key.WithHelp("any key", "dismiss"))}
	}

	switch kh.app.view {
	case ViewDetail:
		return []key.Binding{k.Up, k.Down, k.Back, k.Quit}
	default:
		if kh.app.focus == FocusResults {
			open := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open"))
			return []key.Binding{k.Up, k.Down, open, k.Next, k.Back, k.Quit}
		}
		return []key.Binding{k.Submit, k.Next, k.Search, k.Clear, k.Quit}
	}
}

package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/pders01/chronos/internal/controller"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/view"
)

type searchSettledMsg struct {
	outcome controller.Outcome
}

type detailRenderedMsg struct {
	content string
}

type errorMsg struct {
	err error
}

// startSearch runs the controller guard on the UI goroutine and hands the
// network call to a command.
func (a *App) startSearch() tea.Cmd {
	q, err := a.controller.Begin(a.sourceInput.Value(), a.containsInput.Value())
	if err != nil {
		if errors.Is(err, controller.ErrSearchInFlight) {
			a.setStatus(MsgStillSearching, StatusWarn)
		}
		return nil
	}

	a.setStatus(a.config.UI.Labels.Busy, StatusInfo)
	return tea.Batch(a.spinner.Tick, a.fetch(q))
}

func (a *App) fetch(q search.Query) tea.Cmd {
	ctrl := a.controller
	return func() tea.Msg {
		return searchSettledMsg{outcome: ctrl.Fetch(context.Background(), q)}
	}
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > 120 {
		wordWrapWidth = 120
	}
	if wordWrapWidth < 40 {
		wordWrapWidth = 40
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// eventMarkdown lays out a match row for the detail view.
func eventMarkdown(row view.Row) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("# %s\n\n", row.Cells[1]))
	b.WriteString(fmt.Sprintf("*%s*\n\n", row.Cells[0]))
	b.WriteString("---\n\n")
	b.WriteString("```text\n")
	b.WriteString(strings.ReplaceAll(row.Cells[2], "```", "'''"))
	b.WriteString("\n```\n")
	return b.String()
}

func (a *App) renderDetail(row view.Row) tea.Cmd {
	r, err := a.getRenderer()
	if err != nil {
		return func() tea.Msg { return errorMsg{err: wrapErr("initializing renderer", err)} }
	}

	return func() tea.Msg {
		rendered, err := r.Render(eventMarkdown(row))
		if err != nil {
			return errorMsg{err: wrapErr("rendering event", err)}
		}
		return detailRenderedMsg{content: rendered}
	}
}

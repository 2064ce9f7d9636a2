package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/chronos/internal/config"
	"github.com/pders01/chronos/internal/controller"
	"github.com/pders01/chronos/internal/render"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/view"
)

type fakeSearcher struct {
	result *search.Result
	err    error
	calls  int
}

func (f *fakeSearcher) Search(_ context.Context, _ search.Query) (*search.Result, error) {
	f.calls++
	return f.result, f.err
}

func sampleResult() *search.Result {
	return &search.Result{
		Stats: search.Stats{ScannedEvents: 12000, Duration: "45ms", MatchCount: 2},
		Matches: []search.Match{
			{Timestamp: "2024-01-01T00:00:00Z", Source: "web-1", Message: "boot"},
			{Timestamp: "2024-01-01T00:00:05Z", Source: "web-1", Message: "ready"},
		},
	}
}

func newTestApp(t *testing.T, s search.Searcher) *App {
	t.Helper()
	f, err := render.NewFormatter("en-US", "UTC", "")
	require.NoError(t, err)
	app := NewApp(s, config.TestConfig(), f)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return app
}

func typeText(app *App, text string) {
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func press(app *App, t tea.KeyType) tea.Cmd {
	_, cmd := app.Update(tea.KeyMsg{Type: t})
	return cmd
}

func TestNewApp_InitialState(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	assert.Equal(t, ViewSearch, app.view)
	assert.Equal(t, FocusSource, app.focus)
	assert.True(t, app.sourceInput.Focused())
	assert.False(t, app.busy)
	assert.False(t, app.statsVisible)
	assert.Empty(t, app.rows)
	assert.Equal(t, MsgReady, app.status)
	assert.Equal(t, controller.PhaseIdle, app.controller.Phase())
}

func TestSearch_BothEmptyShowsNotice(t *testing.T) {
	fs := &fakeSearcher{result: sampleResult()}
	app := newTestApp(t, fs)

	typeText(app, "   ")
	cmd := press(app, tea.KeyEnter)

	assert.Nil(t, cmd)
	assert.Equal(t, "Please enter a Source or Contains filter", app.notice)
	assert.False(t, app.busy)
	assert.Equal(t, controller.PhaseIdle, app.controller.Phase())
	assert.Zero(t, fs.calls)
	assert.Contains(t, app.View(), "Please enter a Source or Contains filter")

	// Any key dismisses the notice without reaching the inputs.
	typeText(app, "x")
	assert.Empty(t, app.notice)
	assert.Equal(t, "   ", app.sourceInput.Value())
}

func TestSearch_Lifecycle(t *testing.T) {
	fs := &fakeSearcher{result: sampleResult()}
	app := newTestApp(t, fs)

	typeText(app, "web-1")
	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)

	assert.True(t, app.busy)
	assert.Equal(t, controller.PhaseSearching, app.controller.Phase())
	require.Len(t, app.rows, 1)
	assert.Equal(t, view.RowPlaceholder, app.rows[0].Kind)
	assert.Equal(t, "Scanning cluster...", app.rows[0].Text())
	assert.Contains(t, app.View(), "Searching...")

	q, err := search.Build("web-1", "")
	require.NoError(t, err)
	app.Update(searchSettledMsg{outcome: app.controller.Fetch(context.Background(), q)})

	assert.False(t, app.busy)
	assert.Equal(t, controller.PhaseIdle, app.controller.Phase())
	assert.True(t, app.statsVisible)
	assert.Equal(t, view.Summary{Scanned: "12,000", Duration: "45ms", Matches: "2"}, app.stats)
	require.Len(t, app.rows, 2)
	assert.Equal(t, []string{"1/1/2024, 12:00:00 AM", "web-1", "boot"}, app.rows[0].Cells)
	assert.Len(t, app.results.Rows(), 2)
	assert.Equal(t, StatusSuccess, app.statusKind)

	out := app.View()
	assert.Contains(t, out, "Search Logs")
	assert.Contains(t, out, "12,000")
}

func TestSearch_ReentryIgnored(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{result: sampleResult()})

	typeText(app, "web-1")
	require.NotNil(t, press(app, tea.KeyEnter))

	cmd := press(app, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, MsgStillSearching, app.status)
	assert.True(t, app.busy)
	require.Len(t, app.rows, 1)
	assert.Equal(t, view.RowPlaceholder, app.rows[0].Kind)
}

func TestSearch_FailureKeepsStats(t *testing.T) {
	fs := &fakeSearcher{result: sampleResult()}
	app := newTestApp(t, fs)

	q, err := search.Build("web-1", "")
	require.NoError(t, err)

	typeText(app, "web-1")
	press(app, tea.KeyEnter)
	app.Update(searchSettledMsg{outcome: app.controller.Fetch(context.Background(), q)})
	require.True(t, app.statsVisible)
	before := app.stats

	press(app, tea.KeyEnter)
	app.Update(searchSettledMsg{outcome: controller.Outcome{
		Query: q,
		Err:   &search.RequestError{Kind: search.HTTPFailure, Status: 500},
	}})

	assert.False(t, app.busy)
	assert.Equal(t, before, app.stats)
	require.Len(t, app.rows, 1)
	assert.Equal(t, view.RowError, app.rows[0].Kind)
	assert.Equal(t, "Error: Search failed", app.rows[0].Text())
	assert.Empty(t, app.results.Rows())
	assert.Equal(t, StatusError, app.statusKind)
	assert.Contains(t, app.View(), "Error: Search failed")
}

func TestFocusCycle(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	order := []Focus{FocusContains, FocusButton, FocusResults, FocusSource}
	for _, want := range order {
		press(app, tea.KeyTab)
		assert.Equal(t, want, app.focus)
	}

	press(app, tea.KeyShiftTab)
	assert.Equal(t, FocusResults, app.focus)
	assert.False(t, app.sourceInput.Focused())
	assert.False(t, app.containsInput.Focused())

	press(app, tea.KeyEsc)
	assert.Equal(t, FocusSource, app.focus)
	assert.True(t, app.sourceInput.Focused())
}

func TestSearch_FromContainsAndButton(t *testing.T) {
	fs := &fakeSearcher{result: sampleResult()}
	app := newTestApp(t, fs)

	press(app, tea.KeyTab)
	typeText(app, "boot")
	assert.Equal(t, "boot", app.containsInput.Value())
	assert.Empty(t, app.sourceInput.Value())

	require.NotNil(t, press(app, tea.KeyEnter))
	assert.True(t, app.busy)

	app.Update(searchSettledMsg{outcome: controller.Outcome{Result: sampleResult()}})
	assert.False(t, app.busy)

	press(app, tea.KeyTab)
	require.Equal(t, FocusButton, app.focus)
	require.NotNil(t, press(app, tea.KeyEnter))
	assert.True(t, app.busy)
}

func TestClearInputs(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	typeText(app, "web-1")
	press(app, tea.KeyTab)
	typeText(app, "boot")

	press(app, tea.KeyCtrlL)
	assert.Empty(t, app.sourceInput.Value())
	assert.Empty(t, app.containsInput.Value())
	assert.Equal(t, FocusSource, app.focus)
	assert.Equal(t, MsgInputsCleared, app.status)
}

func TestDetailView(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	app.SetRows([]view.Row{
		view.MatchRow("1/1/2024, 12:00:00 AM", "web-1", "boot"),
		view.MatchRow("1/1/2024, 12:00:05 AM", "web-1", "ready"),
	})
	app.setFocus(FocusResults)
	press(app, tea.KeyDown)
	assert.Equal(t, 1, app.results.Cursor())

	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.Equal(t, ViewDetail, app.view)
	assert.Equal(t, "ready", app.detail.Cells[2])
	assert.True(t, app.detailLoading)

	app.Update(detailRenderedMsg{content: "rendered event"})
	assert.False(t, app.detailLoading)
	out := app.View()
	assert.Contains(t, out, "rendered event")
	assert.Contains(t, out, "web-1")

	press(app, tea.KeyEsc)
	assert.Equal(t, ViewSearch, app.view)
}

func TestDetailView_SpanningRowHasNoDetail(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	app.SetRows([]view.Row{view.SpanRow(view.RowInfo, render.MsgNoMatches)})
	app.setFocus(FocusResults)

	assert.Nil(t, press(app, tea.KeyEnter))
	assert.Equal(t, ViewSearch, app.view)
	assert.Equal(t, MsgNoDetail, app.status)
	assert.Contains(t, app.View(), render.MsgNoMatches)
}

func TestQuit(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	cmd := press(app, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestEventMarkdown(t *testing.T) {
	md := eventMarkdown(view.MatchRow("ts", "web-1", "a ``` b"))
	assert.True(t, strings.HasPrefix(md, "# web-1"))
	assert.Contains(t, md, "*ts*")
	assert.Contains(t, md, "a ''' b")
}

func TestSpinnerTickIgnoredWhenIdle(t *testing.T) {
	app := newTestApp(t, &fakeSearcher{})

	_, cmd := app.Update(app.spinner.Tick())
	assert.Nil(t, cmd)
}

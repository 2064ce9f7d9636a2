package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pders01/chronos/internal/config"
	"github.com/pders01/chronos/internal/controller"
	"github.com/pders01/chronos/internal/debuglog"
	"github.com/pders01/chronos/internal/render"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/view"
)

const (
	timeColumnWidth   = 24
	sourceColumnWidth = 16
	minMessageWidth   = 20
	inputCharLimit    = 256
)

// App is the bubbletea model for the search screen. It is also the view
// sink its controller renders into; every sink call happens inside Update.
type App struct {
	config          *config.Config
	controller      *controller.Controller
	keyHandler      *KeyHandler
	endpoint        string
	sourceInput     textinput.Model
	containsInput   textinput.Model
	results         table.Model
	columns         []table.Column
	tableHeight     int
	spinner         spinner.Model
	viewport        viewport.Model
	help            help.Model
	view            View
	focus           Focus
	busy            bool
	statsVisible    bool
	stats           view.Summary
	rows            []view.Row
	detail          view.Row
	detailLoading   bool
	notice          string
	status          string
	statusKind      StatusKind
	width           int
	height          int
	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
}

var _ view.Sink = (*App)(nil)

func NewApp(searcher search.Searcher, cfg *config.Config, formatter *render.Formatter) *App {
	si := textinput.New()
	si.Placeholder = "e.g. web-1"
	si.CharLimit = inputCharLimit
	si.Prompt = ""
	si.Focus()

	ci := textinput.New()
	ci.Placeholder = "text to find"
	ci.CharLimit = inputCharLimit
	ci.Prompt = ""

	columns := resultColumns(80)
	results := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Foreground(SecondaryColor).
		Bold(true)
	ts.Selected = SelectedItemStyle
	results.SetStyles(ts)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(AccentColor)

	app := &App{
		config:        cfg,
		sourceInput:   si,
		containsInput: ci,
		results:       results,
		columns:       columns,
		tableHeight:   10,
		spinner:       sp,
		viewport:      viewport.New(0, 0),
		help:          help.New(),
		view:          ViewSearch,
		focus:         FocusSource,
		status:        MsgReady,
	}

	if c, ok := searcher.(interface{ BaseURL() string }); ok {
		app.endpoint = c.BaseURL()
	}

	opts := []controller.Option{controller.WithPlaceholder(cfg.UI.Labels.Placeholder)}
	if formatter != nil {
		opts = append(opts, controller.WithFormatter(formatter))
	}
	app.controller = controller.New(searcher, app, opts...)
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func resultColumns(width int) []table.Column {
	// Each column carries one cell of padding on either side.
	msgWidth := width - timeColumnWidth - sourceColumnWidth - 3*2
	if msgWidth < minMessageWidth {
		msgWidth = minMessageWidth
	}
	return []table.Column{
		{Title: "Time", Width: timeColumnWidth},
		{Title: "Source", Width: sourceColumnWidth},
		{Title: "Message", Width: msgWidth},
	}
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case searchSettledMsg:
		if err := a.controller.Settle(msg.outcome); err != nil {
			a.setStatus(err.Error(), StatusError)
		} else {
			a.setStatus(MsgSearchDone(a.stats.Matches), StatusSuccess)
		}
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case detailRenderedMsg:
		if a.view == ViewDetail {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.detailLoading = false
		}
		return a, nil

	case errorMsg:
		debuglog.Errorf("tui: %v", msg.err)
		a.detailLoading = false
		a.setStatus(msg.err.Error(), StatusError)
		return a, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	a.sourceInput, cmd = a.sourceInput.Update(msg)
	cmds = append(cmds, cmd)
	a.containsInput, cmd = a.containsInput.Update(msg)
	cmds = append(cmds, cmd)
	return a, tea.Batch(cmds...)
}

func (a *App) resize(width, height int) {
	a.width = width
	a.height = height

	inputWidth := (width - 6 - lipgloss.Width(a.buttonView())) / 2
	if inputWidth < 10 {
		inputWidth = 10
	}
	a.sourceInput.Width = inputWidth - 4
	a.containsInput.Width = inputWidth - 4

	a.columns = resultColumns(width - 2)
	a.results.SetColumns(a.columns)
	// header, inputs, stats, table header and status bar
	tableHeight := height - 14
	if tableHeight < 3 {
		tableHeight = 3
	}
	a.tableHeight = tableHeight
	a.results.SetHeight(tableHeight)

	a.viewport.Width = width
	a.viewport.Height = height - 5
	a.help.Width = width
}

func (a *App) setFocus(f Focus) {
	a.focus = f
	a.sourceInput.Blur()
	a.containsInput.Blur()
	a.results.Blur()

	switch f {
	case FocusSource:
		a.sourceInput.Focus()
	case FocusContains:
		a.containsInput.Focus()
	case FocusResults:
		a.results.Focus()
	}
}

func (a *App) setStatus(text string, kind StatusKind) {
	a.status = truncateEnd(render.Sanitize(text), 200)
	a.statusKind = kind
}

// selectedMatch returns the match row under the table cursor.
func (a *App) selectedMatch() (view.Row, bool) {
	if len(a.rows) == 0 || a.rows[0].Spans() {
		return view.Row{}, false
	}
	i := a.results.Cursor()
	if i < 0 || i >= len(a.rows) {
		return view.Row{}, false
	}
	return a.rows[i], true
}

// SetBusy implements view.Sink.
func (a *App) SetBusy(busy bool) {
	a.busy = busy
}

// SetStats implements view.Sink.
func (a *App) SetStats(s view.Summary) {
	a.stats = s
	a.statsVisible = true
}

// SetRows implements view.Sink.
func (a *App) SetRows(rows []view.Row) {
	a.rows = append([]view.Row(nil), rows...)

	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if r.Spans() {
			continue
		}
		tableRows = append(tableRows, table.Row(r.Cells))
	}
	a.results.SetRows(tableRows)
	a.results.GotoTop()
}

// SetError implements view.Sink.
func (a *App) SetError(message string) {
	a.SetRows([]view.Row{view.SpanRow(view.RowError, message)})
}

// Notify implements view.Sink.
func (a *App) Notify(message string) {
	a.notice = message
	a.setStatus(message, StatusWarn)
}

func (a *App) buttonView() string {
	label := a.config.UI.Labels.Trigger
	if a.busy {
		label = a.config.UI.Labels.Busy
	}
	return renderButton(label, a.focus == FocusButton, a.busy, a.spinner.View())
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewDetail:
		content = a.detailView()
	default:
		content = a.searchView()
	}

	if a.notice != "" {
		content = a.noticeView()
	}

	return lipgloss.JoinVertical(lipgloss.Top, content, renderSeparator(a.width-1), a.statusBar())
}

func (a *App) searchView() string {
	header := renderHeader("› "+AppName, a.endpoint, a.width)

	inputs := lipgloss.JoinHorizontal(
		lipgloss.Bottom,
		renderInputFrame("Source", a.sourceInput.View(), a.focus == FocusSource, a.sourceInput.Width+2),
		" ",
		renderInputFrame("Contains", a.containsInput.View(), a.focus == FocusContains, a.containsInput.Width+2),
		" ",
		lipgloss.NewStyle().MarginBottom(1).Render(a.buttonView()),
	)

	stats := ""
	if a.statsVisible {
		stats = renderStatsBar(a.stats)
	}

	var body string
	switch {
	case len(a.rows) == 0:
		body = renderCentered(a.width, a.tableHeight, GetWelcomeMessage())
	case a.rows[0].Spans():
		body = lipgloss.JoinVertical(lipgloss.Left,
			renderColumnHeaders(a.columns),
			renderSpanRow(a.rows[0], a.width-2),
		)
	default:
		body = a.results.View()
	}

	return ContentWrapper(a.width, a.height-2).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", inputs, stats, body),
	)
}

func (a *App) detailView() string {
	if a.detailLoading {
		return renderCentered(a.width, a.height-2, renderMuted(MsgLoadingEvent))
	}

	var title string
	if len(a.detail.Cells) == 3 {
		title = lipgloss.JoinHorizontal(lipgloss.Center,
			BadgeStyle.Render(a.detail.Cells[1]),
			" ",
			TimeStyle.Render(a.detail.Cells[0]),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "", a.viewport.View())
}

func (a *App) noticeView() string {
	modalWidth := (a.width * 3) / 5
	if modalWidth < 20 {
		modalWidth = a.width
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(WarnColor).
		Padding(1, 2).
		Width(modalWidth).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center,
			StatusWarnStyle.Bold(true).Render("⚠ "+a.notice),
			"",
			renderHelp("Press any key to continue"),
		))
	return renderCentered(a.width, a.height-2, modal)
}

func (a *App) statusBar() string {
	left := statusStyle(a.statusKind).Render(a.status)
	right := a.help.ShortHelpView(a.keyHandler.GetHelpForCurrentView())

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return StatusBarStyle.Width(a.width).Render(left)
	}
	return StatusBarStyle.Render(left + lipgloss.NewStyle().Width(gap).Render("") + right)
}

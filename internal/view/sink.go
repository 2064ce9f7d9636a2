// Package view defines the passive display surface the search controller
// writes into. Implementations hold no search logic of their own.
package view

// RowKind distinguishes rendered match rows from full-width message rows.
type RowKind int

const (
	RowMatch RowKind = iota
	RowPlaceholder
	RowInfo
	RowError
)

func (k RowKind) String() string {
	switch k {
	case RowMatch:
		return "match"
	case RowPlaceholder:
		return "placeholder"
	case RowInfo:
		return "info"
	case RowError:
		return "error"
	default:
		return "unknown"
	}
}

// Columns is the number of cells in a match row.
const Columns = 3

// Row is one line of the results region. Match rows carry Columns cells in
// the order time, source, message. Every other kind carries a single cell
// that spans the full width.
type Row struct {
	Kind  RowKind
	Cells []string
}

// Spans reports whether the row occupies all columns with one cell.
func (r Row) Spans() bool { return r.Kind != RowMatch }

// Text returns the spanning cell of a non-match row.
func (r Row) Text() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0]
}

// MatchRow builds a three-cell row.
func MatchRow(timestamp, source, message string) Row {
	return Row{Kind: RowMatch, Cells: []string{timestamp, source, message}}
}

// SpanRow builds a single full-width row of the given kind.
func SpanRow(kind RowKind, text string) Row {
	return Row{Kind: kind, Cells: []string{text}}
}

// Summary is the formatted statistics shown above the results.
type Summary struct {
	Scanned  string
	Duration string
	Matches  string
}

// Sink receives rendered state.
type Sink interface {
	// SetBusy switches the trigger between its idle and busy affordance.
	SetBusy(busy bool)
	// SetStats writes the summary and makes the summary region visible.
	SetStats(s Summary)
	// SetRows replaces the results region.
	SetRows(rows []Row)
	// SetError replaces the results region with a single error row.
	SetError(message string)
	// Notify shows a blocking validation notice; no search is running.
	Notify(message string)
}

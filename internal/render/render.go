package render

import (
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/view"
)

// Row texts for the full-width rows.
const (
	MsgNoMatches   = "No matches found."
	msgErrorPrefix = "Error: "
)

// Summary formats the collaborator statistics.
func Summary(stats search.Stats, f *Formatter) view.Summary {
	return view.Summary{
		Scanned:  f.Count(stats.ScannedEvents),
		Duration: Sanitize(stats.Duration),
		Matches:  f.Count(stats.MatchCount),
	}
}

// Rows projects matches into match rows in the order received. An empty
// match list yields a single informational row.
func Rows(matches []search.Match, f *Formatter) []view.Row {
	if len(matches) == 0 {
		return []view.Row{view.SpanRow(view.RowInfo, MsgNoMatches)}
	}
	rows := make([]view.Row, 0, len(matches))
	for _, m := range matches {
		rows = append(rows, view.MatchRow(
			f.Timestamp(m.Timestamp),
			Sanitize(m.Source),
			Sanitize(m.Message),
		))
	}
	return rows
}

// Results writes the summary, making it visible, then replaces the results
// region with the rendered rows.
func Results(sink view.Sink, result *search.Result, f *Formatter) {
	sink.SetStats(Summary(result.Stats, f))
	sink.SetRows(Rows(result.Matches, f))
}

// ErrorText is the message shown in the error row.
func ErrorText(message string) string {
	return msgErrorPrefix + Sanitize(message)
}

// Error replaces the results region with one error row. The summary is left
// untouched.
func Error(sink view.Sink, message string) {
	sink.SetError(ErrorText(message))
}

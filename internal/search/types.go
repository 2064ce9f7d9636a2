package search

// Stats is the scan metadata reported by the log-search endpoint. Values are
// shown as received and never recomputed.
type Stats struct {
	ScannedSegments int64  `json:"scanned_segments,omitempty"`
	ScannedEvents   int64  `json:"scanned_events"`
	Duration        string `json:"duration"`
	MatchCount      int64  `json:"match_count"`
}

// Match is one log record that satisfied the query.
type Match struct {
	Timestamp string `json:"timestamp"`
	Source    string `json:"source"`
	Message   string `json:"message"`
}

// Result is the full payload of a successful search.
type Result struct {
	Stats   Stats   `json:"stats"`
	Matches []Match `json:"matches"`
}

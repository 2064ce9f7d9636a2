package search

import (
	"net/url"
	"strings"
)

// Query parameter names understood by the /search endpoint.
const (
	ParamSource   = "source"
	ParamContains = "contains"
)

// SearchPath is the endpoint path queries are sent to.
const SearchPath = "/search"

// Input holds the raw contents of the two filter fields.
type Input struct {
	Source   string
	Contains string
}

// Trimmed returns the input with surrounding whitespace removed from both fields.
func (in Input) Trimmed() Input {
	return Input{
		Source:   strings.TrimSpace(in.Source),
		Contains: strings.TrimSpace(in.Contains),
	}
}

// Query is a validated search request. The zero value is not a valid query;
// use Build.
type Query struct {
	source   string
	contains string
}

// Build trims both filters and returns a query, or ErrBothEmpty when neither
// filter has any content.
func Build(sourceRaw, containsRaw string) (Query, error) {
	in := Input{Source: sourceRaw, Contains: containsRaw}.Trimmed()
	if in.Source == "" && in.Contains == "" {
		return Query{}, ErrBothEmpty
	}
	return Query{source: in.Source, contains: in.Contains}, nil
}

// Source returns the trimmed source filter, possibly empty.
func (q Query) Source() string { return q.source }

// Contains returns the trimmed message filter, possibly empty.
func (q Query) Contains() string { return q.contains }

// Encode serializes the non-empty filters as URL query parameters, source
// first. Empty filters are omitted entirely.
func (q Query) Encode() string {
	var parts []string
	if q.source != "" {
		parts = append(parts, ParamSource+"="+url.QueryEscape(q.source))
	}
	if q.contains != "" {
		parts = append(parts, ParamContains+"="+url.QueryEscape(q.contains))
	}
	return strings.Join(parts, "&")
}

// URL resolves the search request against the endpoint base URL.
func (q Query) URL(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", wrapTransport("parsing endpoint", err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + SearchPath
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// String renders the query the way it is logged.
func (q Query) String() string {
	return q.Encode()
}

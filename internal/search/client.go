package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultUserAgent = "chronos/1.0 (log search client)"

// Searcher issues one query against the log-search endpoint.
type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

// Client talks to a remote /search endpoint over HTTP.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.client = hc }
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.client.Timeout = d }
}

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:   baseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the endpoint the client sends queries to.
func (c *Client) BaseURL() string { return c.baseURL }

// Search performs GET /search. Non-success statuses yield an HTTPFailure
// RequestError; network and decoding problems yield a Transport one.
func (c *Client) Search(ctx context.Context, q Query) (*Result, error) {
	target, err := q.URL(c.baseURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, wrapTransport("creating request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, wrapTransport("fetching results", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, httpFailure(resp.StatusCode)
	}

	result, err := Decode(resp.Body)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// wire mirrors Result with pointers so missing fields can be told apart from
// zero values.
type wireStats struct {
	ScannedSegments *int64  `json:"scanned_segments"`
	ScannedEvents   *int64  `json:"scanned_events"`
	Duration        *string `json:"duration"`
	MatchCount      *int64  `json:"match_count"`
}

type wireMatch struct {
	Timestamp *string `json:"timestamp"`
	Source    *string `json:"source"`
	Message   *string `json:"message"`
}

type wireResult struct {
	Stats   *wireStats   `json:"stats"`
	Matches *[]wireMatch `json:"matches"`
}

var errShape = errors.New("unexpected response shape")

// Decode reads a search result and checks it against the documented shape.
// Any mismatch is reported as a Transport RequestError.
func Decode(r io.Reader) (*Result, error) {
	var w wireResult
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, wrapTransport("decoding response", err)
	}

	if w.Stats == nil {
		return nil, shapeErr("missing stats")
	}
	if w.Matches == nil {
		return nil, shapeErr("missing matches")
	}
	s := w.Stats
	switch {
	case s.ScannedEvents == nil:
		return nil, shapeErr("missing stats.scanned_events")
	case s.Duration == nil:
		return nil, shapeErr("missing stats.duration")
	case s.MatchCount == nil:
		return nil, shapeErr("missing stats.match_count")
	case *s.ScannedEvents < 0:
		return nil, shapeErr("negative stats.scanned_events")
	case *s.MatchCount < 0:
		return nil, shapeErr("negative stats.match_count")
	}

	result := &Result{
		Stats: Stats{
			ScannedEvents: *s.ScannedEvents,
			Duration:      *s.Duration,
			MatchCount:    *s.MatchCount,
		},
		Matches: make([]Match, 0, len(*w.Matches)),
	}
	if s.ScannedSegments != nil {
		result.Stats.ScannedSegments = *s.ScannedSegments
	}

	for i, m := range *w.Matches {
		if m.Timestamp == nil || m.Source == nil || m.Message == nil {
			return nil, shapeErr(fmt.Sprintf("incomplete match at index %d", i))
		}
		result.Matches = append(result.Matches, Match{
			Timestamp: *m.Timestamp,
			Source:    *m.Source,
			Message:   *m.Message,
		})
	}

	return result, nil
}

func shapeErr(detail string) *RequestError {
	return wrapTransport("decoding response", fmt.Errorf("%w: %s", errShape, detail))
}

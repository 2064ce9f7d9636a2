// Package controller drives one search at a time from input to rendered view.
//
// The controller is the only writer of the search phase and of the trigger
// affordance. Begin and Settle mutate the view and must run on the caller's
// UI goroutine; Fetch performs the network call and touches nothing but its
// arguments, so it may run elsewhere.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pders01/chronos/internal/debuglog"
	"github.com/pders01/chronos/internal/render"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/view"
)

// Phase is the lifecycle state of the controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSearching
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSearching:
		return "searching"
	default:
		return "unknown"
	}
}

// ErrSearchInFlight is returned by Begin when a search has been dispatched
// and not yet settled. The running search is left untouched.
var ErrSearchInFlight = errors.New("search already in progress")

// DefaultPlaceholder fills the results region while a search runs.
const DefaultPlaceholder = "Scanning cluster..."

// Outcome is what Fetch hands back to Settle.
type Outcome struct {
	Query   search.Query
	Result  *search.Result
	Err     error
	Elapsed time.Duration
}

// Controller is the search state machine.
type Controller struct {
	searcher    search.Searcher
	sink        view.Sink
	formatter   *render.Formatter
	placeholder string
	phase       Phase
}

// Option customizes a Controller.
type Option func(*Controller)

// WithFormatter sets the locale formatter used for results.
func WithFormatter(f *render.Formatter) Option {
	return func(c *Controller) {
		if f != nil {
			c.formatter = f
		}
	}
}

// WithPlaceholder sets the text of the in-progress row.
func WithPlaceholder(text string) Option {
	return func(c *Controller) {
		if text != "" {
			c.placeholder = text
		}
	}
}

func New(searcher search.Searcher, sink view.Sink, opts ...Option) *Controller {
	c := &Controller{
		searcher:    searcher,
		sink:        sink,
		formatter:   render.DefaultFormatter(),
		placeholder: DefaultPlaceholder,
		phase:       PhaseIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Phase reports the current lifecycle state.
func (c *Controller) Phase() Phase { return c.phase }

// Begin validates the raw filters and, if they form a query, enters the
// searching phase. Validation failures are reported through the sink's
// notice and never change the phase. While a search is in flight Begin
// still validates, then returns ErrSearchInFlight without touching the view.
func (c *Controller) Begin(sourceRaw, containsRaw string) (search.Query, error) {
	q, err := search.Build(sourceRaw, containsRaw)
	if err != nil {
		debuglog.Debugf("search rejected: %v", err)
		c.sink.Notify(err.Error())
		return search.Query{}, err
	}

	if c.phase == PhaseSearching {
		debuglog.WithFields(map[string]interface{}{"query": q.String()}).
			Debugf("search ignored while another is in flight")
		return search.Query{}, ErrSearchInFlight
	}

	c.phase = PhaseSearching
	c.sink.SetBusy(true)
	c.sink.SetRows([]view.Row{view.SpanRow(view.RowPlaceholder, c.placeholder)})

	debuglog.WithFields(map[string]interface{}{"query": q.String()}).Infof("search dispatched")
	return q, nil
}

// Fetch performs the call. It does not read or write controller state.
func (c *Controller) Fetch(ctx context.Context, q search.Query) Outcome {
	start := time.Now()
	res, err := c.searcher.Search(ctx, q)
	return Outcome{Query: q, Result: res, Err: err, Elapsed: time.Since(start)}
}

// Settle renders the outcome and returns the controller to idle. The idle
// affordance is restored on every path, including a panic raised while
// rendering, which is converted into an error row.
func (c *Controller) Settle(out Outcome) (err error) {
	defer c.restoreIdle()
	defer func() {
		if r := recover(); r != nil {
			err = &search.RequestError{Kind: search.Transport, Err: fmt.Errorf("rendering results: %v", r)}
			debuglog.Errorf("search render panic: %v", r)
			c.renderError(err)
		}
	}()

	fields := debuglog.WithFields(map[string]interface{}{
		"query":   out.Query.String(),
		"elapsed": out.Elapsed,
	})

	if out.Err == nil && out.Result == nil {
		out.Err = &search.RequestError{Kind: search.Transport, Err: errors.New("empty response")}
	}
	if out.Err != nil {
		fields.Warnf("search failed: %v", out.Err)
		c.renderError(out.Err)
		return out.Err
	}

	fields.Infof("search settled: %d matches", len(out.Result.Matches))
	render.Results(c.sink, out.Result, c.formatter)
	return nil
}

// Search runs a complete cycle synchronously.
func (c *Controller) Search(ctx context.Context, sourceRaw, containsRaw string) error {
	q, err := c.Begin(sourceRaw, containsRaw)
	if err != nil {
		return err
	}
	return c.Settle(c.Fetch(ctx, q))
}

func (c *Controller) renderError(err error) {
	render.Error(c.sink, err.Error())
}

func (c *Controller) restoreIdle() {
	c.phase = PhaseIdle
	c.sink.SetBusy(false)
}

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pders01/chronos/internal/controller"
	"github.com/pders01/chronos/internal/debuglog"
	"github.com/pders01/chronos/internal/render"
	"github.com/pders01/chronos/internal/search"
	"github.com/pders01/chronos/internal/view"
)

var (
	querySource   string
	queryContains string
	queryPager    bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one search and print the matches",
	Example: `  chronos query --source web-1
  chronos query --contains "upstream timeout"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := setupLogging(cfg); err != nil {
			return err
		}
		defer debuglog.Close()

		client, formatter, err := newClient(cfg)
		if err != nil {
			return err
		}

		if !queryPager {
			return runQuery(cmd.Context(), cmd.OutOrStdout(), client, formatter, querySource, queryContains)
		}

		var buf bytes.Buffer
		if err := runQuery(cmd.Context(), &buf, client, formatter, querySource, queryContains); err != nil {
			cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		return page(buf.String())
	},
}

func init() {
	queryCmd.Flags().StringVar(&querySource, "source", "", "Filter by source (exact match)")
	queryCmd.Flags().StringVar(&queryContains, "contains", "", "Filter by message content (substring)")
	queryCmd.Flags().BoolVar(&queryPager, "pager", false, "Show results in a pager")
}

// capturingSearcher keeps the last raw result so the summary can report
// fields the view does not carry.
type capturingSearcher struct {
	search.Searcher
	last *search.Result
}

func (c *capturingSearcher) Search(ctx context.Context, q search.Query) (*search.Result, error) {
	res, err := c.Searcher.Search(ctx, q)
	c.last = res
	return res, err
}

func runQuery(ctx context.Context, out io.Writer, s search.Searcher, f *render.Formatter, source, contains string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	capture := &capturingSearcher{Searcher: s}
	rec := view.NewRecorder()
	ctrl := controller.New(capture, rec, controller.WithFormatter(f))

	if err := ctrl.Search(ctx, source, contains); err != nil {
		if search.IsValidation(err) {
			return err
		}
		for _, row := range rec.Rows {
			fmt.Fprintln(out, row.Text())
		}
		return err
	}

	if capture.last != nil && capture.last.Stats.ScannedSegments > 0 {
		fmt.Fprintf(out, "Scanned %s segments.\n", f.Count(capture.last.Stats.ScannedSegments))
	}

	for _, row := range rec.Rows {
		if row.Spans() {
			fmt.Fprintln(out, row.Text())
			continue
		}
		fmt.Fprintf(out, "[%s] %s: %s\n", row.Cells[0], row.Cells[1], row.Cells[2])
	}

	fmt.Fprintf(out, "\nScanned %s events in %s. Found %s matches.\n",
		rec.Stats.Scanned, rec.Stats.Duration, rec.Stats.Matches)
	return nil
}

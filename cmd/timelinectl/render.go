package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/casetimeline/internal/casefile"
	"github.com/gyaneshwarpardhi/casetimeline/internal/config"
	"github.com/gyaneshwarpardhi/casetimeline/internal/engine"
	"github.com/gyaneshwarpardhi/casetimeline/internal/timeline"
)

var (
	renderCase       string
	renderQuery      string
	renderWindow     string
	renderOrder      string
	renderTab        string
	renderViewerID   string
	renderViewerName string
	renderNow        string
	renderJSON       bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the timeline of one case",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		crit, err := timeline.ParseCriteria(renderQuery, renderWindow, renderOrder, renderTab)
		if err != nil {
			fatal("Invalid criteria", err)
		}
		now := time.Now()
		if renderNow != "" {
			if now, err = time.Parse(time.RFC3339, renderNow); err != nil {
				fatal("Invalid --now", err)
			}
		}

		store, err := casefile.Open(casesPath, slog.Default())
		if err != nil {
			fatal("Error opening case file", err)
		}
		if !store.Has(renderCase) {
			fatal("Error rendering timeline", fmt.Errorf("%w: %q", casefile.ErrCaseNotFound, renderCase))
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		eng := engine.New(ctx, engine.FromStore(store), config.Default().Engine,
			engine.WithLogger(slog.Default()),
			engine.WithClock(func() time.Time { return now }),
		)
		defer eng.Shutdown()

		var viewer *timeline.Viewer
		if renderViewerID != "" {
			viewer = &timeline.Viewer{ID: renderViewerID, DisplayName: renderViewerName}
		}
		res, err := eng.Timeline(ctx, renderCase, viewer, crit)
		if err != nil {
			fatal("Error rendering timeline", err)
		}
		if err := writeTimeline(cmd.OutOrStdout(), res, renderJSON); err != nil {
			fatal("Error writing output", err)
		}
	},
}

// writeTimeline prints one line per event, or the whole result as JSON.
func writeTimeline(w io.Writer, res *engine.Result, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for _, ev := range res.Events {
		date := ev.Date
		if date == "" {
			date = "-"
		}
		line := fmt.Sprintf("%s  [%s]  %s", date, ev.Category, ev.Title)
		if ev.Author != "" {
			line += " — " + ev.Author
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, kind := range res.FailedSources {
		if _, err := fmt.Fprintf(w, "! source %s unavailable\n", kind); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
	f := renderCmd.Flags()
	f.StringVar(&renderCase, "case", "", "Case id to render")
	f.StringVarP(&renderQuery, "query", "q", "", "Free-text filter")
	f.StringVar(&renderWindow, "window", "all", "Time range: all, 7d, 30d or 90d")
	f.StringVar(&renderOrder, "order", "recent", "Sort order: recent or oldest")
	f.StringVar(&renderTab, "tab", "todos", "Category tab")
	f.StringVar(&renderViewerID, "viewer-id", "", "Id of the current viewer")
	f.StringVar(&renderViewerName, "viewer-name", "", "Display name of the current viewer")
	f.StringVar(&renderNow, "now", "", "Reference time for --window (RFC3339)")
	f.BoolVar(&renderJSON, "json", false, "Output in JSON format")
	_ = renderCmd.MarkFlagRequired("case")
}

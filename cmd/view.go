package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/pable/go-ward-overlay/internal/aggregator"
	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/normalize"
	"github.com/pable/go-ward-overlay/internal/report"
	"github.com/pable/go-ward-overlay/internal/source"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

// view is the loaded data behind one selection.
type view struct {
	TeamLine   string
	FilterLine string
	Points     []model.Point
	Smokes     []model.Smoke
	Agg        *aggregator.Result
	Diags      []matchfile.Diagnostic
}

// loadView resolves a selection into points and smokes. A single match whose file
// has no match object yields the "no match data" view, not an error.
func loadView(ctx context.Context, store *source.Store, sel catalog.Selection, teamID int64) (*view, error) {
	if sel.Aggregate {
		teams, index, err := store.Directory(ctx)
		if err != nil {
			return nil, fmt.Errorf("load match index: %w", err)
		}
		res, err := aggregator.Aggregate(ctx, sel.Side, sel.TeamID, teams, index, store)
		if err != nil {
			return nil, err
		}
		return &view{TeamLine: res.TeamLine, FilterLine: res.FilterLine, Points: res.Points, Smokes: res.Smokes, Agg: res}, nil
	}

	m, diags, err := store.Match(ctx, sel.MatchID)
	if errors.Is(err, matchfile.ErrNoMatch) {
		n := normalize.NoData()
		return &view{FilterLine: n.FilterLine}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", sel.MatchID, err)
	}
	n := normalize.Normalize(m, teamID)
	return &view{TeamLine: n.TeamLine, FilterLine: n.FilterLine, Points: n.Points, Smokes: n.Smokes, Diags: diags}, nil
}

// printView prints the header, load notes and the frame at t.
func printView(w, errw io.Writer, id string, v *view, t int, showAllSmokes bool) visibility.Frame {
	report.PrintHeader(w, v.TeamLine, v.FilterLine)
	if v.Agg != nil {
		report.PrintAggregate(errw, v.Agg)
	}
	report.PrintDiagnostics(errw, id, v.Diags)
	f := visibility.Snapshot(v.Points, v.Smokes, t, visibility.Options{Surface: surface(), ShowAllSmokes: showAllSmokes})
	report.PrintFrame(w, f)
	return f
}

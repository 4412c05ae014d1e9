// Package aggregator merges the wards and smokes of one team on one side across many matches.
package aggregator

import (
	"context"
	"fmt"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/normalize"
)

// Loader fetches and decodes one per-match record. *source.Store satisfies it.
type Loader interface {
	Match(ctx context.Context, id string) (*model.Match, []matchfile.Diagnostic, error)
}

// Skip records a selected match that contributed nothing.
type Skip struct {
	MatchID string
	Err     error
}

// Result is the merged overlay of every match the focus team played on one side.
type Result struct {
	TeamLine   string
	FilterLine string
	Points     []model.Point
	Smokes     []model.Smoke
	// MatchCount is the number of selected matches, loaded or not.
	MatchCount int
	Loaded     int
	Skipped    []Skip
	Diags      map[string][]matchfile.Diagnostic
}

// Select returns the index entries where teamID played side, in index order.
func Select(index []model.MatchRef, side model.Side, teamID int64) []model.MatchRef {
	var out []model.MatchRef
	for _, ref := range index {
		if ref.PlayedAs(side, teamID) {
			out = append(out, ref)
		}
	}
	return out
}

// Aggregate loads every selected match one at a time and concatenates the focus team's
// points and smokes in index order. A match that fails to load, has no match object, or
// in which the team turns out not to hold the requested side is recorded in Skipped and
// does not stop the run. Only context cancellation aborts.
func Aggregate(ctx context.Context, side model.Side, teamID int64, teams []model.Team, index []model.MatchRef, loader Loader) (*Result, error) {
	if side == model.SideNone {
		return nil, fmt.Errorf("aggregate: side must be radiant or dire")
	}
	selected := Select(index, side, teamID)
	res := &Result{
		TeamLine:   fmt.Sprintf("%s — %s (all)", catalog.TeamName(teams, teamID), side.Label()),
		FilterLine: fmt.Sprintf("aggregate: team %d on %s across %d matches", teamID, side, len(selected)),
		Points:     []model.Point{},
		Smokes:     []model.Smoke{},
		MatchCount: len(selected),
		Diags:      map[string][]matchfile.Diagnostic{},
	}

	for _, ref := range selected {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("aggregate: %w", err)
		}
		m, diags, err := loader.Match(ctx, ref.ID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("aggregate: %w", ctx.Err())
			}
			res.Skipped = append(res.Skipped, Skip{MatchID: ref.ID, Err: err})
			continue
		}
		if len(diags) > 0 {
			res.Diags[ref.ID] = diags
		}
		n := normalize.Normalize(m, teamID)
		if n.Side != side {
			res.Skipped = append(res.Skipped, Skip{
				MatchID: ref.ID,
				Err:     fmt.Errorf("match file has team %d on %q, index says %s", teamID, n.Side, side),
			})
			continue
		}
		res.Loaded++
		res.Points = append(res.Points, n.Points...)
		res.Smokes = append(res.Smokes, n.Smokes...)
	}
	return res, nil
}

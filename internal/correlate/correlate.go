// Package correlate derives Smoke of Deceit locations from a player's playback events.
package correlate

import "github.com/pable/go-ward-overlay/internal/model"

// Hit is a smoke use matched to the hero position at the same second.
type Hit struct {
	Time int
	X, Y float64
}

// Smokes matches every smoke item use to the position sample with the identical timestamp.
// Uses without a sample at that exact second are dropped. A later sample with a duplicate
// timestamp overwrites an earlier one. Output follows the order of items.
func Smokes(items []model.ItemUseEvent, positions []model.PositionSample) []Hit {
	if len(items) == 0 || len(positions) == 0 {
		return nil
	}
	byTime := make(map[int]model.PositionSample, len(positions))
	for _, p := range positions {
		byTime[p.Time] = p
	}

	var hits []Hit
	for _, it := range items {
		if it.ItemID != model.ItemSmokeOfDeceit {
			continue
		}
		pos, ok := byTime[it.Time]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Time: it.Time, X: pos.X, Y: pos.Y})
	}
	return hits
}

package matchfile

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/pable/go-ward-overlay/internal/model"
)

// PruneStats counts what PruneSmokes kept.
type PruneStats struct {
	Players   int
	Smokes    int
	Positions int
}

// PruneSmokes rewrites a per-match document keeping only Smoke of Deceit item uses and the
// position samples sharing their timestamps, sorted by time. Every other field is left as
// it was, so the output still decodes with DecodeMatch. A document without a recognised
// envelope is treated as a bare match object.
func PruneSmokes(data []byte) ([]byte, PruneStats, error) {
	var stats PruneStats
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, stats, &ParseError{Err: err}
	}

	match := envelopeMatch(root)
	players, _ := match["players"].([]any)
	for _, p := range players {
		player, _ := p.(map[string]any)
		pb, _ := player["playbackData"].(map[string]any)
		if pb == nil {
			continue
		}
		stats.Players++

		items, _ := pb["itemUsedEvents"].([]any)
		positions, _ := pb["playerUpdatePositionEvents"].([]any)

		smokeItems := []any{}
		times := make(map[float64]bool)
		for _, it := range items {
			ev, _ := it.(map[string]any)
			id, ok := jsonNumber(ev["itemId"])
			if !ok || id != model.ItemSmokeOfDeceit {
				continue
			}
			t, ok := jsonNumber(ev["time"])
			if !ok {
				continue
			}
			smokeItems = append(smokeItems, it)
			times[t] = true
		}

		kept := []any{}
		for _, ps := range positions {
			ev, _ := ps.(map[string]any)
			if t, ok := jsonNumber(ev["time"]); ok && times[t] {
				kept = append(kept, ps)
			}
		}
		sort.SliceStable(kept, func(i, j int) bool {
			ti, _ := jsonNumber(kept[i].(map[string]any)["time"])
			tj, _ := jsonNumber(kept[j].(map[string]any)["time"])
			return ti < tj
		})

		if v, ok := pb["itemUsedEvents"]; ok && v != nil {
			pb["itemUsedEvents"] = smokeItems
		}
		if v, ok := pb["playerUpdatePositionEvents"]; ok && v != nil {
			pb["playerUpdatePositionEvents"] = kept
		}
		stats.Smokes += len(smokeItems)
		stats.Positions += len(kept)
	}

	out, err := json.MarshalIndent(root, "", "  ")
	if err != nil {
		return nil, stats, err
	}
	return out, stats, nil
}

func envelopeMatch(root any) map[string]any {
	obj, _ := root.(map[string]any)
	if d, ok := obj["data"].(map[string]any); ok {
		if m, ok := d["match"].(map[string]any); ok {
			return m
		}
	}
	if m, ok := obj["match"].(map[string]any); ok {
		return m
	}
	return obj
}

// jsonNumber reads a decoded JSON number or numeric string as a finite float.
func jsonNumber(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case json.Number:
		var err error
		if f, err = x.Float64(); err != nil {
			return 0, false
		}
	case string:
		var err error
		if f, err = strconv.ParseFloat(x, 64); err != nil {
			return 0, false
		}
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

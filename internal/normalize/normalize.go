// Package normalize turns one validated match into the overlay points of a focus team.
package normalize

import (
	"fmt"

	"github.com/pable/go-ward-overlay/internal/correlate"
	"github.com/pable/go-ward-overlay/internal/model"
)

// Result is the overlay data of one match for one focus team.
type Result struct {
	Points   []model.Point
	Smokes   []model.Smoke
	Side     model.Side // SideNone when the focus team did not play this match
	TeamLine string     // "<radiant> vs <dire>"
	// FilterLine describes what is shown, including the "not in this match" case.
	FilterLine string
}

// Present reports whether the focus team played the match.
func (r *Result) Present() bool { return r.Side != model.SideNone }

// TeamLine renders the match-up, defaulting missing names to the side labels.
func TeamLine(m *model.Match) string {
	rad, dire := m.RadiantTeamName, m.DireTeamName
	if rad == "" {
		rad = model.SideRadiant.Label()
	}
	if dire == "" {
		dire = model.SideDire.Label()
	}
	return fmt.Sprintf("%s vs %s", rad, dire)
}

// NoData is the result for a record without a match object.
func NoData() *Result {
	return &Result{FilterLine: "no match data"}
}

// Normalize extracts the focus team's wards and smokes. A team that did not play yields
// an empty, non-nil result with an explanatory FilterLine. m is not modified.
func Normalize(m *model.Match, focusTeamID int64) *Result {
	if m == nil {
		return NoData()
	}
	res := &Result{
		Side:     m.SideOf(focusTeamID),
		TeamLine: TeamLine(m),
		Points:   []model.Point{},
		Smokes:   []model.Smoke{},
	}
	if !res.Present() {
		res.FilterLine = fmt.Sprintf("team %d is not in this match", focusTeamID)
		return res
	}
	res.FilterLine = fmt.Sprintf("showing wards of team %d (%s)", focusTeamID, res.Side.Label())

	wantRadiant := res.Side == model.SideRadiant
	for _, p := range m.Players {
		if p.IsRadiant != wantRadiant {
			continue
		}
		res.Points = append(res.Points, Points(p)...)
		res.Smokes = append(res.Smokes, Smokes(p)...)
	}
	return res
}

// Points converts every ward of a player.
func Points(p model.Player) []model.Point {
	out := make([]model.Point, 0, len(p.Wards))
	for _, w := range p.Wards {
		out = append(out, model.Point{
			X:         w.X,
			Y:         w.Y,
			Type:      w.Type,
			Time:      w.Time,
			IsRadiant: p.IsRadiant,
		})
	}
	return out
}

// Smokes derives the player's Smoke of Deceit uses.
func Smokes(p model.Player) []model.Smoke {
	hits := correlate.Smokes(p.ItemUses, p.Positions)
	out := make([]model.Smoke, 0, len(hits))
	for _, h := range hits {
		out = append(out, model.Smoke{
			X:         h.X,
			Y:         h.Y,
			Time:      h.Time,
			Kind:      model.KindSmoke,
			IsRadiant: p.IsRadiant,
		})
	}
	return out
}

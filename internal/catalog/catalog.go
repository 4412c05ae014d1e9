// Package catalog builds the team directory and the selection menu over the match index.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/pable/go-ward-overlay/internal/model"
)

// BuildTeams collects every team id that appears in the index. The first non-empty name
// seen for an id wins; ids without any name are named after the id. Teams are sorted by
// name under the root collation, ties broken by id, so re-running on the same index
// yields the same directory.
func BuildTeams(index []model.MatchRef) []model.Team {
	byID := make(map[int64]*model.Team)
	var order []int64
	add := func(id int64, name string) {
		if id == 0 {
			return
		}
		t, ok := byID[id]
		if !ok {
			t = &model.Team{ID: id}
			byID[id] = t
			order = append(order, id)
		}
		if t.Name == "" {
			t.Name = name
		}
	}
	for _, ref := range index {
		add(ref.RadiantTeamID, ref.RadiantTeamName)
		add(ref.DireTeamID, ref.DireTeamName)
	}

	teams := make([]model.Team, 0, len(order))
	for _, id := range order {
		t := *byID[id]
		if t.Name == "" {
			t.Name = strconv.FormatInt(id, 10)
		}
		teams = append(teams, t)
	}
	SortTeams(teams)
	return teams
}

// SortTeams orders teams by collated name, then by id.
func SortTeams(teams []model.Team) {
	c := collate.New(language.Und)
	sort.SliceStable(teams, func(i, j int) bool {
		if r := c.CompareString(teams[i].Name, teams[j].Name); r != 0 {
			return r < 0
		}
		return teams[i].ID < teams[j].ID
	})
}

// Merge fills in teams from the directory file with any the index knows about that the
// file lacks, then sorts.
func Merge(file []model.Team, index []model.MatchRef) []model.Team {
	seen := make(map[int64]bool, len(file))
	out := make([]model.Team, 0, len(file))
	for _, t := range file {
		if t.Name == "" {
			t.Name = strconv.FormatInt(t.ID, 10)
		}
		seen[t.ID] = true
		out = append(out, t)
	}
	for _, t := range BuildTeams(index) {
		if !seen[t.ID] {
			out = append(out, t)
		}
	}
	SortTeams(out)
	return out
}

// TeamName returns the directory name of id, or the id itself.
func TeamName(teams []model.Team, id int64) string {
	for _, t := range teams {
		if t.ID == id && t.Name != "" {
			return t.Name
		}
	}
	return strconv.FormatInt(id, 10)
}

func lookupName(teams []model.Team, id int64) string {
	for _, t := range teams {
		if t.ID == id {
			return t.Name
		}
	}
	return ""
}

// Option is one entry of the selection menu.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

const aggPrefix = "agg:"

// Options lists the two aggregate views for teamID followed by every indexed match the
// team played, in index order.
func Options(index []model.MatchRef, teams []model.Team, teamID int64) []Option {
	name := TeamName(teams, teamID)
	opts := []Option{
		{Value: aggValue(teamID, model.SideRadiant), Label: fmt.Sprintf("%s all %s", name, model.SideRadiant.Label())},
		{Value: aggValue(teamID, model.SideDire), Label: fmt.Sprintf("%s all %s", name, model.SideDire.Label())},
	}
	for _, ref := range index {
		if ref.ID == "" || !ref.Involves(teamID) {
			continue
		}
		rad := firstNonEmpty(lookupName(teams, ref.RadiantTeamID), ref.RadiantTeamName, model.SideRadiant.Label())
		dire := firstNonEmpty(lookupName(teams, ref.DireTeamID), ref.DireTeamName, model.SideDire.Label())
		opts = append(opts, Option{Value: ref.ID, Label: fmt.Sprintf("%s — %s vs %s", ref.ID, rad, dire)})
	}
	return opts
}

func aggValue(teamID int64, side model.Side) string {
	return fmt.Sprintf("%s%d:%s", aggPrefix, teamID, side)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// Selection is a decoded option value: either one match or an aggregate view.
type Selection struct {
	Aggregate bool
	TeamID    int64
	Side      model.Side
	MatchID   string
}

var ErrBadSelection = errors.New("bad selection")

// ParseSelection decodes "agg:<team>:radiant|dire" or a numeric match id.
func ParseSelection(value string) (Selection, error) {
	value = strings.TrimSpace(value)
	if rest, ok := strings.CutPrefix(value, aggPrefix); ok {
		idText, sideText, ok := strings.Cut(rest, ":")
		if !ok {
			return Selection{}, fmt.Errorf("%w: %q", ErrBadSelection, value)
		}
		id, err := strconv.ParseInt(idText, 10, 64)
		if err != nil || id == 0 {
			return Selection{}, fmt.Errorf("%w: team id %q", ErrBadSelection, idText)
		}
		side := model.ParseSide(sideText)
		if side == model.SideNone {
			return Selection{}, fmt.Errorf("%w: side %q", ErrBadSelection, sideText)
		}
		return Selection{Aggregate: true, TeamID: id, Side: side}, nil
	}
	if !IsMatchID(value) {
		return Selection{}, fmt.Errorf("%w: match id %q", ErrBadSelection, value)
	}
	return Selection{MatchID: value}, nil
}

// IsMatchID reports whether s is a non-empty run of ASCII digits.
func IsMatchID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

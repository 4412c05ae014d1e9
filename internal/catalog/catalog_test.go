package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/pable/go-ward-overlay/internal/model"
)

func sampleIndex() []model.MatchRef {
	return []model.MatchRef{
		{ID: "1", RadiantTeamID: 30, DireTeamID: 10, DireTeamName: "beta"},
		{ID: "2", RadiantTeamID: 10, DireTeamID: 20, RadiantTeamName: "Beta B", DireTeamName: "Alpha"},
		{ID: "3", RadiantTeamID: 40, DireTeamID: 30, RadiantTeamName: "Alpine", DireTeamName: "Zeta"},
		{ID: "4", RadiantTeamID: 0, DireTeamID: 50},
	}
}

func TestBuildTeams(t *testing.T) {
	got := BuildTeams(sampleIndex())
	want := []model.Team{
		{ID: 50, Name: "50"},
		{ID: 20, Name: "Alpha"},
		{ID: 40, Name: "Alpine"},
		{ID: 10, Name: "beta"},
		{ID: 30, Name: "Zeta"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestBuildTeams_Idempotent(t *testing.T) {
	index := sampleIndex()
	first := BuildTeams(index)
	second := BuildTeams(index)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-run differs:\n%+v\n%+v", first, second)
	}

	// Rebuilding from an index made of the directory itself keeps it unchanged.
	var again []model.MatchRef
	for _, tm := range first {
		again = append(again, model.MatchRef{RadiantTeamID: tm.ID, RadiantTeamName: tm.Name})
	}
	if got := BuildTeams(again); !reflect.DeepEqual(got, first) {
		t.Errorf("rebuild differs:\n%+v\n%+v", got, first)
	}
}

func TestSortTeams_TiesByID(t *testing.T) {
	teams := []model.Team{{ID: 9, Name: "Same"}, {ID: 3, Name: "Same"}, {ID: 5, Name: "Other"}}
	SortTeams(teams)
	want := []int64{5, 3, 9}
	for i, id := range want {
		if teams[i].ID != id {
			t.Fatalf("position %d: got %d, want %d (%+v)", i, teams[i].ID, id, teams)
		}
	}
}

func TestMerge(t *testing.T) {
	file := []model.Team{{ID: 10, Name: "Gamma"}, {ID: 99}}
	got := Merge(file, []model.MatchRef{{RadiantTeamID: 10, RadiantTeamName: "ignored", DireTeamID: 20, DireTeamName: "Alpha"}})
	want := []model.Team{{ID: 99, Name: "99"}, {ID: 20, Name: "Alpha"}, {ID: 10, Name: "Gamma"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestOptions(t *testing.T) {
	teams := BuildTeams(sampleIndex())
	got := Options(sampleIndex(), teams, 10)
	want := []Option{
		{Value: "agg:10:radiant", Label: "beta all Radiant"},
		{Value: "agg:10:dire", Label: "beta all Dire"},
		{Value: "1", Label: "1 — Zeta vs beta"},
		{Value: "2", Label: "2 — beta vs Alpha"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v\nwant %+v", got, want)
	}
}

func TestOptions_Placeholders(t *testing.T) {
	index := []model.MatchRef{{ID: "7", RadiantTeamID: 1, DireTeamID: 2}}
	got := Options(index, nil, 1)
	if got[0].Label != "1 all Radiant" {
		t.Errorf("aggregate label: got %q", got[0].Label)
	}
	if got[2].Label != "7 — Radiant vs Dire" {
		t.Errorf("match label: got %q", got[2].Label)
	}
}

func TestParseSelection(t *testing.T) {
	cases := []struct {
		in   string
		want Selection
	}{
		{"agg:10:radiant", Selection{Aggregate: true, TeamID: 10, Side: model.SideRadiant}},
		{"agg:10:dire", Selection{Aggregate: true, TeamID: 10, Side: model.SideDire}},
		{" 8123456789 ", Selection{MatchID: "8123456789"}},
	}
	for _, c := range cases {
		got, err := ParseSelection(c.in)
		if err != nil {
			t.Errorf("ParseSelection(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseSelection(%q) = %+v, want %+v", c.in, got, c.want)
		}
	}

	for _, bad := range []string{"", "agg:", "agg:10", "agg:x:radiant", "agg:10:left", "12a"} {
		if _, err := ParseSelection(bad); !errors.Is(err, ErrBadSelection) {
			t.Errorf("ParseSelection(%q): want ErrBadSelection, got %v", bad, err)
		}
	}
}

func TestOptionsRoundTrip(t *testing.T) {
	for _, o := range Options(sampleIndex(), nil, 30) {
		if _, err := ParseSelection(o.Value); err != nil {
			t.Errorf("option %q does not parse: %v", o.Value, err)
		}
	}
}

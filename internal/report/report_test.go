package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/pable/go-ward-overlay/internal/aggregator"
	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/ingest"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

func init() {
	color.NoColor = true
}

func TestPrintFrame(t *testing.T) {
	points := []model.Point{
		{X: 100, Y: 120, Type: 0, Time: 30, IsRadiant: true},
		{X: 300, Y: 120, Type: 1, Time: 60, IsRadiant: true},
	}
	smokes := []model.Smoke{{X: 90, Y: 90, Time: 0, Kind: model.KindSmoke, IsRadiant: true}}
	f := visibility.Snapshot(points, smokes, 60, visibility.Options{ShowAllSmokes: true})

	var buf bytes.Buffer
	PrintFrame(&buf, f)
	out := buf.String()
	for _, want := range []string{"2 wards @ 1:00 (max 1:00)", "sentry", "observer", "smoke", "~", "!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintFrame_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintFrame(&buf, visibility.Snapshot(nil, nil, 0, visibility.Options{}))
	if !strings.Contains(buf.String(), "(nothing on the map)") {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestPrintAggregate(t *testing.T) {
	var buf bytes.Buffer
	PrintAggregate(&buf, &aggregator.Result{
		MatchCount: 3,
		Loaded:     2,
		Skipped:    []aggregator.Skip{{MatchID: "42", Err: errors.New("fetch 42.json: not found")}},
	})
	out := buf.String()
	if !strings.Contains(out, "3 selected, 2 loaded") || !strings.Contains(out, "  [skip] 42: fetch 42.json: not found") {
		t.Errorf("got:\n%s", out)
	}
}

func TestPrintOptionsAndTeams(t *testing.T) {
	var buf bytes.Buffer
	PrintTeams(&buf, []model.Team{{ID: 10, Name: "Alpha"}})
	PrintOptions(&buf, []catalog.Option{
		{Value: "agg:10:radiant", Label: "Alpha all Radiant"},
		{Value: "agg:10:dire", Label: "Alpha all Dire"},
		{Value: "1", Label: "1 — Alpha vs Dire"},
	})
	out := buf.String()
	for _, want := range []string{"Alpha", "agg:10:dire", "(1 matches)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintIngest(t *testing.T) {
	var buf bytes.Buffer
	PrintIngest(&buf, &ingest.Report{
		Matches: []ingest.Entry{{ID: "1"}},
		Errors:  []ingest.Failure{{ID: "x", Error: "invalid match id (must be digits)"}},
	})
	if !strings.Contains(buf.String(), "fetched 1 matches with 1 errors.") || !strings.Contains(buf.String(), "[error] x:") {
		t.Errorf("got:\n%s", buf.String())
	}
}

func TestPrintQuery(t *testing.T) {
	var buf bytes.Buffer
	PrintQuery(&buf, []string{"a"}, nil)
	if strings.TrimSpace(buf.String()) != "(no rows)" {
		t.Errorf("got %q", buf.String())
	}
	buf.Reset()
	PrintQuery(&buf, []string{"kind", "n"}, [][]string{{"sentry", "3"}})
	if !strings.Contains(buf.String(), "sentry") || !strings.Contains(buf.String(), "(1 rows)") {
		t.Errorf("got:\n%s", buf.String())
	}
}

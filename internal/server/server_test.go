package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/pable/go-ward-overlay/internal/mapper"
	"github.com/pable/go-ward-overlay/internal/source"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const indexJSON = `[
  {"match_id": 1, "radiantTeamId": 10, "direTeamId": 20, "radiantTeam": {"name": "Alpha"}, "direTeam": {"name": "Beta"}},
  {"match_id": 2, "radiantTeamId": 10, "direTeamId": 30},
  {"match_id": 3, "radiantTeamId": 20, "direTeamId": 10}
]`

const match1JSON = `{"data": {"match": {
  "id": 1, "radiantTeamId": 10, "direTeamId": 20,
  "radiantTeam": {"name": "Alpha"}, "direTeam": {"name": "Beta"},
  "players": [
    {"isRadiant": true,
     "stats": {"wards": [{"time": 30, "type": 0, "positionX": 100, "positionY": 120},
                         {"time": 90, "type": 1, "positionX": 130, "positionY": 140}]},
     "playbackData": {"itemUsedEvents": [{"time": 40, "itemId": 188}],
                      "playerUpdatePositionEvents": [{"time": 40, "x": 110, "y": 110}]}},
    {"isRadiant": false,
     "stats": {"wards": [{"time": 10, "type": 1, "positionX": 150, "positionY": 150}]}}
  ]}}}`

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		source.IndexFile:      indexJSON,
		source.MatchFile("1"): match1JSON,
		source.MatchFile("3"): `{"match": null}`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return New(source.NewStore(source.Dir{Root: root}), 10, mapper.DefaultSurface).Router()
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func get[T any](t *testing.T, r http.Handler, url string) (int, envelope[T]) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	var out envelope[T]
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("GET %s: decode %q: %v", url, w.Body.String(), err)
	}
	return w.Code, out
}

func TestHealth(t *testing.T) {
	code, resp := get[map[string]string](t, newTestServer(t), "/health")
	if code != http.StatusOK || resp.Data["status"] != "ok" {
		t.Errorf("got %d %+v", code, resp)
	}
}

func TestTeams(t *testing.T) {
	code, resp := get[[]struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}](t, newTestServer(t), "/api/teams")
	if code != http.StatusOK || len(resp.Data) != 3 {
		t.Fatalf("got %d %+v", code, resp)
	}
	if resp.Data[0].Name != "30" || resp.Data[1].Name != "Alpha" || resp.Data[2].Name != "Beta" {
		t.Errorf("order: got %+v", resp.Data)
	}
}

func TestOptions(t *testing.T) {
	code, resp := get[[]map[string]string](t, newTestServer(t), "/api/options")
	if code != http.StatusOK || len(resp.Data) != 5 {
		t.Fatalf("got %d %+v", code, resp)
	}
	if resp.Data[0]["value"] != "agg:10:radiant" || resp.Data[2]["value"] != "1" {
		t.Errorf("got %+v", resp.Data)
	}
}

func TestMatchFrame(t *testing.T) {
	r := newTestServer(t)
	code, resp := get[FrameView](t, r, "/api/matches/1/frame?t=0:45&w=400&h=400")
	if code != http.StatusOK {
		t.Fatalf("status %d: %+v", code, resp)
	}
	v := resp.Data
	if v.TeamLine != "Alpha vs Beta" || v.Side != "radiant" {
		t.Errorf("lines: %+v", v)
	}
	if len(v.Frame.Wards) != 1 || v.Frame.Wards[0].Kind != "sentry" {
		t.Errorf("wards at 0:45: %+v", v.Frame.Wards)
	}
	if len(v.Frame.Smokes) != 1 || v.Frame.ActiveSmokes != 1 {
		t.Errorf("smokes at 0:45: %+v", v.Frame.Smokes)
	}
	if v.Frame.Scale != 0.5 {
		t.Errorf("scale: got %v", v.Frame.Scale)
	}
	if v.Frame.Timeline.End != 90 {
		t.Errorf("timeline end: got %d", v.Frame.Timeline.End)
	}

	_, resp = get[FrameView](t, r, "/api/matches/1/frame?team=999")
	if resp.Data.FilterLine != "team 999 is not in this match" || len(resp.Data.Frame.Wards) != 0 {
		t.Errorf("absent team: %+v", resp.Data)
	}

	_, resp = get[FrameView](t, r, "/api/matches/3/frame")
	if resp.Data.FilterLine != "no match data" {
		t.Errorf("empty envelope: %+v", resp.Data)
	}
}

func TestMatchFrame_Errors(t *testing.T) {
	r := newTestServer(t)
	for url, want := range map[string]int{
		"/api/matches/2/frame":          http.StatusNotFound,
		"/api/matches/abc/frame":        http.StatusBadRequest,
		"/api/matches/1/frame?t=x":      http.StatusBadRequest,
		"/api/matches/1/frame?w=-1":     http.StatusBadRequest,
		"/api/matches/1/frame?team=abc": http.StatusBadRequest,
	} {
		if code, _ := get[any](t, r, url); code != want {
			t.Errorf("%s: got %d, want %d", url, code, want)
		}
	}
}

func TestAggregateFrame(t *testing.T) {
	r := newTestServer(t)
	code, resp := get[FrameView](t, r, "/api/aggregate/frame?side=radiant&t=100&smokes=all")
	if code != http.StatusOK {
		t.Fatalf("status %d: %+v", code, resp)
	}
	v := resp.Data
	if v.MatchCount != 2 || v.Loaded != 1 {
		t.Errorf("counts: %d selected, %d loaded", v.MatchCount, v.Loaded)
	}
	if len(v.Skipped) != 1 || v.Skipped[0].MatchID != "2" {
		t.Errorf("skipped: %+v", v.Skipped)
	}
	if v.TeamLine != "Alpha — Radiant (all)" {
		t.Errorf("team line: %q", v.TeamLine)
	}
	// t=100 is past the last placement and clamps to 90.
	if v.Frame.Time != 90 || len(v.Frame.Wards) != 2 || len(v.Frame.Smokes) != 1 || !v.Frame.Smokes[0].Active {
		t.Errorf("frame: %+v", v.Frame)
	}

	if code, _ := get[any](t, r, "/api/aggregate/frame?side=left"); code != http.StatusBadRequest {
		t.Errorf("bad side: got %d", code)
	}
}

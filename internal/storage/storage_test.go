package storage

import (
	"reflect"
	"testing"

	"github.com/pable/go-ward-overlay/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMatch() *model.Match {
	return &model.Match{
		ID:              8123,
		RadiantTeamID:   10,
		DireTeamID:      20,
		RadiantTeamName: "Alpha",
		DurationSeconds: 2400,
		Players: []model.Player{
			{
				SteamAccountID: 111,
				Hero:           "Crystal Maiden",
				IsRadiant:      true,
				Wards: []model.WardEvent{
					{Time: -30, Type: 0, X: 100, Y: 110},
					{Time: 200, Type: 1, X: 120.5, Y: 130},
				},
				ItemUses:  []model.ItemUseEvent{{Time: 300, ItemID: model.ItemSmokeOfDeceit}, {Time: 310, ItemID: 1}},
				Positions: []model.PositionSample{{Time: 300, X: 90, Y: 95}},
			},
			{
				SteamAccountID: 222,
				Hero:           "Lion",
				Wards:          []model.WardEvent{{Time: 50, Type: 1, X: 150, Y: 150}},
			},
		},
	}
}

func TestInsertMatchAndQuery(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertRefs([]model.MatchRef{{ID: "8123", RadiantTeamID: 10, DireTeamID: 20, DireTeamName: "Beta"}, {ID: "9000"}}); err != nil {
		t.Fatalf("InsertRefs: %v", err)
	}
	if err := db.InsertMatch("8123", sampleMatch()); err != nil {
		t.Fatalf("InsertMatch: %v", err)
	}

	cols, rows, err := db.QueryRaw(`SELECT kind, COUNT(1) FROM wards GROUP BY kind ORDER BY kind`)
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(cols, []string{"kind", "COUNT(1)"}) {
		t.Errorf("cols: got %v", cols)
	}
	want := [][]string{{"observer", "2"}, {"sentry", "1"}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows: got %v, want %v", rows, want)
	}

	_, rows, err = db.QueryRaw(`SELECT time, x, y, hero FROM smokes`)
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(rows, [][]string{{"300", "90", "95", "Crystal Maiden"}}) {
		t.Errorf("smokes: got %v", rows)
	}

	_, rows, err = db.QueryRaw(`SELECT radiant_name, dire_name, loaded FROM matches WHERE id = '8123'`)
	if err != nil {
		t.Fatalf("QueryRaw: %v", err)
	}
	if !reflect.DeepEqual(rows, [][]string{{"Alpha", "Beta", "1"}}) {
		t.Errorf("match row: got %v", rows)
	}

	loaded, total, err := db.CountLoaded()
	if err != nil || loaded != 1 || total != 2 {
		t.Errorf("CountLoaded: got %d/%d, %v", loaded, total, err)
	}
}

func TestInsertMatch_Replaces(t *testing.T) {
	db := openMemDB(t)
	for i := 0; i < 2; i++ {
		if err := db.InsertMatch("8123", sampleMatch()); err != nil {
			t.Fatalf("InsertMatch #%d: %v", i, err)
		}
	}
	_, rows, err := db.QueryRaw(`SELECT COUNT(1) FROM wards`)
	if err != nil {
		t.Fatal(err)
	}
	if rows[0][0] != "3" {
		t.Errorf("wards after re-insert: got %s, want 3", rows[0][0])
	}
}

func TestInsertTeams(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertTeams([]model.Team{{ID: 10, Name: "Alpha"}, {ID: 20, Name: "Beta"}}); err != nil {
		t.Fatalf("InsertTeams: %v", err)
	}
	_, rows, err := db.QueryRaw(`SELECT name FROM teams ORDER BY id DESC`)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows, [][]string{{"Beta"}, {"Alpha"}}) {
		t.Errorf("got %v", rows)
	}
}

func TestQueryRaw_Error(t *testing.T) {
	db := openMemDB(t)
	if _, _, err := db.QueryRaw(`SELECT * FROM nope`); err == nil {
		t.Error("want error for unknown table")
	}
}

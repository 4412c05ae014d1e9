package storage

import (
	"fmt"
	"strconv"

	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/normalize"
)

// InsertTeams stores the team directory.
func (db *DB) InsertTeams(teams []model.Team) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO teams(id, name) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, t := range teams {
		if _, err := stmt.Exec(t.ID, t.Name); err != nil {
			return fmt.Errorf("insert team %d: %w", t.ID, err)
		}
	}
	return tx.Commit()
}

// InsertRefs stores the match index entries as not-yet-loaded matches.
func (db *DB) InsertRefs(refs []model.MatchRef) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR IGNORE INTO matches(id, radiant_team_id, dire_team_id, radiant_name, dire_name)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range refs {
		if _, err := stmt.Exec(r.ID, r.RadiantTeamID, r.DireTeamID, r.RadiantTeamName, r.DireTeamName); err != nil {
			return fmt.Errorf("insert match %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// InsertMatch stores a loaded match with the wards and smokes of every player,
// replacing any earlier copy.
func (db *DB) InsertMatch(id string, m *model.Match) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO matches(id, radiant_team_id, dire_team_id, radiant_name, dire_name, league_id, duration_seconds, loaded)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			radiant_team_id = excluded.radiant_team_id,
			dire_team_id = excluded.dire_team_id,
			radiant_name = CASE WHEN excluded.radiant_name = '' THEN matches.radiant_name ELSE excluded.radiant_name END,
			dire_name = CASE WHEN excluded.dire_name = '' THEN matches.dire_name ELSE excluded.dire_name END,
			league_id = excluded.league_id,
			duration_seconds = excluded.duration_seconds,
			loaded = 1`,
		id, m.RadiantTeamID, m.DireTeamID, m.RadiantTeamName, m.DireTeamName, m.LeagueID, m.DurationSeconds)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", id, err)
	}
	for _, table := range []string{"wards", "smokes"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE match_id = ?", id); err != nil {
			return err
		}
	}

	wardStmt, err := tx.Prepare(`
		INSERT INTO wards(match_id, steam_account_id, hero, is_radiant, time, type, kind, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer wardStmt.Close()
	smokeStmt, err := tx.Prepare(`
		INSERT INTO smokes(match_id, steam_account_id, hero, is_radiant, time, x, y)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer smokeStmt.Close()

	for _, p := range m.Players {
		steamID := strconv.FormatInt(p.SteamAccountID, 10)
		for _, pt := range normalize.Points(p) {
			kind := "observer"
			if pt.IsSentry() {
				kind = "sentry"
			}
			if _, err := wardStmt.Exec(id, steamID, p.Hero, boolInt(p.IsRadiant), pt.Time, pt.Type, kind, pt.X, pt.Y); err != nil {
				return fmt.Errorf("insert ward for %s: %w", id, err)
			}
		}
		for _, s := range normalize.Smokes(p) {
			if _, err := smokeStmt.Exec(id, steamID, p.Hero, boolInt(p.IsRadiant), s.Time, s.X, s.Y); err != nil {
				return fmt.Errorf("insert smoke for %s: %w", id, err)
			}
		}
	}
	return tx.Commit()
}

// CountLoaded returns how many indexed matches have their wards stored.
func (db *DB) CountLoaded() (loaded, total int, err error) {
	err = db.conn.QueryRow(`SELECT COALESCE(SUM(loaded), 0), COUNT(1) FROM matches`).Scan(&loaded, &total)
	return loaded, total, err
}

// QueryRaw runs an arbitrary query and returns every value rendered as text.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = formatValue(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

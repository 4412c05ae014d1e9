package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/report"
	"github.com/pable/go-ward-overlay/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a SQL query over the match data",
	Long: `Loads the team directory, the match index and every per-match file that can be
read into a throwaway in-memory SQLite database, runs the query and prints the result.
Nothing is written to disk.

Schema overview:
  teams(id, name)
  matches(id TEXT, radiant_team_id, dire_team_id, radiant_name, dire_name,
    league_id, duration_seconds, loaded)
  wards(match_id, steam_account_id TEXT, hero, is_radiant, time, type, kind, x, y)
  smokes(match_id, steam_account_id TEXT, hero, is_radiant, time, x, y)

Example:
  wardmap sql "SELECT kind, COUNT(*) FROM wards w JOIN matches m ON m.id = w.match_id
    WHERE w.is_radiant = 1 AND m.radiant_team_id = 9247354 GROUP BY kind"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	db, err := storage.OpenMemory()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	store := openStore()
	teams, index, err := store.Directory(ctx)
	if err != nil {
		return fmt.Errorf("load match index: %w", err)
	}
	if err := db.InsertTeams(teams); err != nil {
		return err
	}
	if err := db.InsertRefs(index); err != nil {
		return err
	}
	for _, ref := range index {
		m, _, err := store.Match(ctx, ref.ID)
		if err != nil {
			if !errors.Is(err, matchfile.ErrNoMatch) {
				fmt.Fprintf(os.Stderr, "  [skip] %s: %v\n", ref.ID, err)
			}
			continue
		}
		if err := db.InsertMatch(ref.ID, m); err != nil {
			return err
		}
	}
	loaded, total, err := db.CountLoaded()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "(%d/%d matches loaded)\n", loaded, total)

	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	report.PrintQuery(os.Stdout, cols, rows)
	return nil
}

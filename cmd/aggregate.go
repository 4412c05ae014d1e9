package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

var (
	aggTime      string
	aggAllSmokes bool
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <radiant|dire>",
	Short: "Merge the focus team's wards across every match on one side",
	Long: `Loads every indexed match where the focus team played the given side, one after
another, and shows the merged wards and smokes at --t. Matches whose file cannot be
loaded are left out and listed as [skip]; the match count still includes them.`,
	Args: cobra.ExactArgs(1),
	RunE: runAggregate,
}

func init() {
	aggregateCmd.Flags().StringVar(&aggTime, "t", "0:00", "playback time as m:ss, -m:ss or seconds")
	aggregateCmd.Flags().BoolVar(&aggAllSmokes, "smokes", false, "list every smoke, not only active ones")
}

func runAggregate(cmd *cobra.Command, args []string) error {
	side := model.ParseSide(args[0])
	if side == model.SideNone {
		return fmt.Errorf("side must be radiant or dire, got %q", args[0])
	}
	t, err := visibility.ParseClock(aggTime)
	if err != nil {
		return err
	}
	sel := catalog.Selection{Aggregate: true, TeamID: cfg.TeamID, Side: side}
	v, err := loadView(cmd.Context(), openStore(), sel, cfg.TeamID)
	if err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}
	printView(os.Stdout, os.Stderr, args[0], v, t, aggAllSmokes)
	return nil
}

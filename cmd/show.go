package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

var (
	showTime      string
	showAllSmokes bool
)

var showCmd = &cobra.Command{
	Use:   "show <matchId|agg:team:side>",
	Short: "Show the wards and smokes on the map at one moment",
	Long: `Loads one match (or an aggregate view as printed by 'list') and prints every ward
and smoke active at --t, with world and pixel coordinates.

Examples:
  wardmap show 7890123456 --t 12:30
  wardmap show agg:9247354:dire --t=-0:30 --smokes`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().StringVar(&showTime, "t", "0:00", "playback time as m:ss, -m:ss or seconds")
	showCmd.Flags().BoolVar(&showAllSmokes, "smokes", false, "list every smoke, not only active ones")
}

func runShow(cmd *cobra.Command, args []string) error {
	sel, err := catalog.ParseSelection(args[0])
	if err != nil {
		return err
	}
	t, err := visibility.ParseClock(showTime)
	if err != nil {
		return err
	}
	v, err := loadView(cmd.Context(), openStore(), sel, cfg.TeamID)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	printView(os.Stdout, os.Stderr, args[0], v, t, showAllSmokes)
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/report"
)

var listTeams bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the selectable views for the focus team",
	Long: `Prints the two aggregate views (all matches on Radiant, all on Dire) and every
indexed match the focus team played. Pass a VALUE to 'show'.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().BoolVar(&listTeams, "teams", false, "list the team directory instead")
}

func runList(cmd *cobra.Command, args []string) error {
	store := openStore()
	teams, index, err := store.Directory(cmd.Context())
	if err != nil {
		return fmt.Errorf("load match index: %w", err)
	}
	if listTeams {
		report.PrintTeams(os.Stdout, teams)
		return nil
	}
	fmt.Fprintf(os.Stdout, "Team %d (%s)\n", cfg.TeamID, catalog.TeamName(teams, cfg.TeamID))
	report.PrintOptions(os.Stdout, catalog.Options(index, teams, cfg.TeamID))
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/report"
	"github.com/pable/go-ward-overlay/internal/source"
)

var teamsDir string

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Build teams.json from the match index",
	Long: `Collects every team id in <dir>/matches.json, names each from the first index
entry that carries a name (falling back to the id), sorts by name and writes
<dir>/teams.json. Running it again on the same index produces the same file.`,
	Args: cobra.NoArgs,
	RunE: runTeams,
}

func init() {
	teamsCmd.Flags().StringVar(&teamsDir, "dir", "", "directory holding matches.json (default from config, else matches_full)")
}

func runTeams(cmd *cobra.Command, args []string) error {
	dir := firstString(teamsDir, cfg.Ingest.OutDir)
	inPath := filepath.Join(dir, source.IndexFile)
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("input not found: %w", err)
	}
	refs, diags, err := matchfile.DecodeIndex(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", inPath, err)
	}
	report.PrintDiagnostics(os.Stderr, inPath, diags)

	teams := catalog.BuildTeams(refs)
	out, err := matchfile.EncodeTeams(teams)
	if err != nil {
		return err
	}
	outPath := filepath.Join(dir, source.TeamsFile)
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("write teams: %w", err)
	}
	report.PrintTeams(os.Stdout, teams)
	fmt.Fprintf(os.Stdout, "Wrote %s (%d teams)\n", outPath, len(teams))
	return nil
}

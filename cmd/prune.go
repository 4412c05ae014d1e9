package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/matchfile"
)

var (
	pruneInDir  string
	pruneOutDir string
	pruneOut    string
)

var pruneCmd = &cobra.Command{
	Use:   "prune [file.json]",
	Short: "Strip per-match files down to smoke item uses and their positions",
	Long: `Rewrites full match files keeping only Smoke of Deceit item uses and the hero
position samples taken at the same second; everything else in the file is kept as is.
Without a file argument every .json file in --in-dir is written to --out-dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrune,
}

func init() {
	pruneCmd.Flags().StringVar(&pruneInDir, "in-dir", "", "input directory (default from config, else matches_full)")
	pruneCmd.Flags().StringVar(&pruneOutDir, "out-dir", "", "output directory (default the data root)")
	pruneCmd.Flags().StringVarP(&pruneOut, "out", "o", "", "output file when pruning a single file")
}

func runPrune(cmd *cobra.Command, args []string) error {
	outDir := firstString(pruneOutDir, cfg.DataDir)
	if len(args) == 1 {
		out := firstString(pruneOut, filepath.Join(outDir, filepath.Base(args[0])))
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		return pruneFile(args[0], out)
	}

	inDir := firstString(pruneInDir, cfg.Ingest.OutDir)
	entries, err := os.ReadDir(inDir)
	if err != nil {
		return fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no .json files found in %s", inDir)
	}

	ok := 0
	for _, name := range files {
		if err := pruneFile(filepath.Join(inDir, name), filepath.Join(outDir, name)); err != nil {
			fmt.Fprintf(os.Stderr, "  [skip] %s: %v\n", name, err)
			continue
		}
		ok++
	}
	fmt.Fprintf(os.Stdout, "Pruned %d/%d files into %s\n", ok, len(files), outDir)
	return nil
}

func pruneFile(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	pruned, stats, err := matchfile.PruneSmokes(data)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, pruned, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Wrote %s (%d players, %d smokes, %d positions)\n", out, stats.Players, stats.Smokes, stats.Positions)
	return nil
}

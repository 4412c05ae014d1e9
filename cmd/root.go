package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/config"
	"github.com/pable/go-ward-overlay/internal/mapper"
	"github.com/pable/go-ward-overlay/internal/source"
)

// Persistent flags.
var (
	dataDir    string
	configPath string
	teamFlag   int64
)

// cfg is loaded before any command runs.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "wardmap",
	Short: "Dota 2 ward and smoke overlay tool",
	Long: `Fetch professional Dota 2 matches, extract ward placements and Smoke of Deceit
activations per team, and replay them on the minimap timeline.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultConfig := filepath.Join(mustUserHome(), ".wardmap", "config.yaml")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data root holding matches.json and per-match files, a directory or http(s) URL (default from config, else public/matches)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "path to YAML config")
	rootCmd.PersistentFlags().Int64Var(&teamFlag, "team", 0, "focus team id (default from config)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(aggregateCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sqlCmd)
}

func loadConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadOptional(configPath)
	}
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if teamFlag != 0 {
		cfg.TeamID = teamFlag
	}
	return nil
}

func openStore() *source.Store {
	return source.NewStore(source.New(cfg.DataDir))
}

func surface() mapper.Surface {
	return mapper.Surface{Width: cfg.Surface.Width, Height: cfg.Surface.Height}
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

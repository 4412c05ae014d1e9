package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/ingest"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/report"
	"github.com/pable/go-ward-overlay/internal/source"
	"github.com/pable/go-ward-overlay/internal/stratz"
)

// fetch command flags.
var (
	// fetchIndex is the match index read when no ids are given.
	fetchIndex string

	// fetchOut is where the results report goes; empty prints it to stdout.
	fetchOut string

	// fetchOutDir receives one <id>.json per fetched match.
	fetchOutDir string

	fetchConcurrency int
	fetchAttempts    int
	fetchBackoff     time.Duration
	fetchMinDelay    time.Duration
	fetchCompress    bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [matchId ...]",
	Short: "Download full match records from STRATZ",
	Long: `Runs one GraphQL query per match id against the STRATZ API and writes each
match to <out-dir>/<id>.json as {"data":{"match":...}}. Without ids, every match in the
index file is fetched. Requests run in parallel and failed ones are retried with
exponential backoff. Ids that are not all digits are reported as errors.

The API key is read from STRATZ_API_KEY (a .env file in the working directory is
honoured) or from ~/.wardmap/stratz_api_key.

Examples:
  wardmap fetch 7890123456 7890123457
  wardmap fetch --file matches_full/matches.json --out results.json`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchIndex, "file", "f", "", "match index to read ids from (default <out-dir>/matches.json)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "write the results report here instead of stdout")
	fetchCmd.Flags().StringVar(&fetchOutDir, "out-dir", "", "directory for per-match files (default from config, else matches_full)")
	fetchCmd.Flags().IntVar(&fetchConcurrency, "concurrency", 0, "parallel requests (default from config, else 4)")
	fetchCmd.Flags().IntVar(&fetchAttempts, "attempts", 0, "tries per match (default from config, else 3)")
	fetchCmd.Flags().DurationVar(&fetchBackoff, "backoff", 0, "delay before the first retry, doubled each time (default from config, else 500ms)")
	fetchCmd.Flags().DurationVar(&fetchMinDelay, "min-delay", -1, "minimum spacing between requests (default from config)")
	fetchCmd.Flags().BoolVar(&fetchCompress, "compress", false, "write zstd-compressed <id>.json.zst files")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ic := cfg.Ingest
	outDir := firstString(fetchOutDir, ic.OutDir)
	opts := ingest.Options{
		Concurrency: firstInt(fetchConcurrency, ic.Concurrency),
		Attempts:    firstInt(fetchAttempts, ic.Attempts),
		Backoff:     firstDuration(fetchBackoff, ic.Backoff),
		MinDelay:    ic.MinDelay,
		Compress:    fetchCompress || ic.Compress,
		Logger:      slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}
	if fetchMinDelay >= 0 {
		opts.MinDelay = fetchMinDelay
	}

	ids := make([]string, 0, len(args))
	for _, a := range args {
		ids = append(ids, strings.TrimSpace(a))
	}
	if len(ids) == 0 {
		path := firstString(fetchIndex, filepath.Join(outDir, source.IndexFile))
		var err error
		if ids, err = indexIDs(path); err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no match ids: pass ids as arguments or point --file at a match index")
	}

	apiKey, err := loadStratzAPIKey()
	if err != nil {
		return err
	}
	client := stratz.NewClient(apiKey, ic.Endpoint)

	fmt.Fprintf(os.Stdout, "Fetching %d matches into %s ...\n", len(ids), outDir)
	rep, err := ingest.Run(cmd.Context(), client, ids, outDir, opts)
	if err != nil {
		return err
	}

	if fetchOut == "" {
		data, err := jsonIndent(rep)
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(data))
	} else {
		if err := ingest.WriteReport(fetchOut, rep); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", fetchOut)
	}
	report.PrintIngest(os.Stderr, rep)
	return nil
}

func indexIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read match index: %w", err)
	}
	refs, diags, err := matchfile.DecodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	report.PrintDiagnostics(os.Stderr, path, diags)
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// loadStratzAPIKey reads the API key from the environment (after loading ./.env)
// or from ~/.wardmap/stratz_api_key.
func loadStratzAPIKey() (string, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "  [warn] .env: %v\n", err)
	}
	if key := os.Getenv("STRATZ_API_KEY"); key != "" {
		return key, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(home, ".wardmap", "stratz_api_key"))
	if err != nil {
		return "", fmt.Errorf("STRATZ API key not found: set STRATZ_API_KEY or create ~/.wardmap/stratz_api_key")
	}
	return strings.TrimSpace(string(data)), nil
}

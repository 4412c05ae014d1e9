package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/report"
	"github.com/pable/go-ward-overlay/internal/source"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var playCmd = &cobra.Command{
	Use:   "play [matchId|agg:team:side]",
	Short: "Scrub through a match or aggregate view interactively",
	Long:  "Open a timeline session. Type 'help' for available commands.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

// playState is the session: the loaded view plus the playback cursor.
type playState struct {
	id        string
	view      *view
	t         int
	allSmokes bool
}

func runPlay(cmd *cobra.Command, args []string) error {
	store := openStore()
	st := &playState{}

	first := catalog.Selection{Aggregate: true, TeamID: cfg.TeamID, Side: model.SideRadiant}
	firstID := fmt.Sprintf("agg:%d:%s", cfg.TeamID, model.SideRadiant)
	if len(args) == 1 {
		sel, err := catalog.ParseSelection(args[0])
		if err != nil {
			return err
		}
		first, firstID = sel, args[0]
	}
	selectView(cmd, store, st, first, firstID)

	cGreeting.Println("wardmap player")
	cMuted.Println("type 'help' or 'exit'")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("wardmap")
		cMuted.Printf(" %s> ", visibility.Clock(st.t))
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := strings.Fields(line)
		name, rest := tokens[0], tokens[1:]

		switch {
		case name == "exit" || name == "quit":
			return nil
		case name == "help":
			playHelp()
		case name == "list":
			teams, index, err := store.Directory(cmd.Context())
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			report.PrintOptions(os.Stdout, catalog.Options(index, teams, cfg.TeamID))
		case name == "select":
			if len(rest) != 1 {
				cError.Fprintln(os.Stderr, "usage: select <matchId|agg:team:side>")
				continue
			}
			sel, err := catalog.ParseSelection(rest[0])
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			selectView(cmd, store, st, sel, rest[0])
		case name == "t":
			if len(rest) != 1 {
				cError.Fprintln(os.Stderr, "usage: t <m:ss|seconds>")
				continue
			}
			t, err := visibility.ParseClock(rest[0])
			if err != nil {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			st.seek(t)
		case strings.HasPrefix(name, "+") || strings.HasPrefix(name, "-"):
			step, err := strconv.Atoi(name)
			if err != nil {
				cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
				continue
			}
			st.seek(st.t + step)
		case name == "smokes":
			st.allSmokes = !st.allSmokes
			st.render()
		case name == "frame":
			st.render()
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

// selectView loads a selection. On failure the previous view stays active.
func selectView(cmd *cobra.Command, store *source.Store, st *playState, sel catalog.Selection, id string) {
	v, err := loadView(cmd.Context(), store, sel, cfg.TeamID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	st.id, st.view, st.t = id, v, 0
	st.render()
}

func (st *playState) seek(t int) {
	if st.view == nil {
		cWarn.Fprintln(os.Stderr, "nothing selected, use 'select'")
		return
	}
	st.t = visibility.NewTimeline(st.view.Points).Clamp(t)
	st.render()
}

func (st *playState) render() {
	if st.view == nil {
		return
	}
	f := printView(os.Stdout, os.Stderr, st.id, st.view, st.t, st.allSmokes)
	st.t = f.Time
}

func playHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list aggregate views and matches of the focus team"},
		{"select <matchId|agg:team:side>", "load a match or an aggregate view"},
		{"t <m:ss|seconds>", "jump to a playback time"},
		{"+N / -N", "step forward or back N seconds"},
		{"smokes", "toggle listing of inactive smokes"},
		{"frame", "print the current frame again"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-34s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

// Package report renders overlay frames, directories and ingest results to a terminal.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-ward-overlay/internal/aggregator"
	"github.com/pable/go-ward-overlay/internal/catalog"
	"github.com/pable/go-ward-overlay/internal/ingest"
	"github.com/pable/go-ward-overlay/internal/matchfile"
	"github.com/pable/go-ward-overlay/internal/model"
	"github.com/pable/go-ward-overlay/internal/visibility"
)

var (
	cTitle  = color.New(color.FgCyan, color.Bold)
	cStatus = color.New(color.FgGreen)
	cWarn   = color.New(color.FgYellow)
	cErr    = color.New(color.FgRed)
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

// PrintHeader prints the team line and the filter line above a frame.
func PrintHeader(w io.Writer, teamLine, filterLine string) {
	fmt.Fprintln(w)
	if teamLine != "" {
		cTitle.Fprintln(w, teamLine)
	}
	fmt.Fprintln(w, filterLine)
}

// PrintStatus prints the frame status line, e.g. "12 wards @ 5:00 (max 41:10)".
func PrintStatus(w io.Writer, f visibility.Frame) {
	cStatus.Fprintf(w, "%s  |  %d active smokes  |  timeline %s..%s\n",
		f.Status, f.ActiveSmokes, visibility.Clock(f.Timeline.Start), visibility.Clock(f.Timeline.End))
}

// PrintFrame prints the frame's wards and smokes as one table.
// Inactive smokes (shown when all smokes are requested) are marked with "~".
func PrintFrame(w io.Writer, f visibility.Frame) {
	PrintStatus(w, f)
	if len(f.Wards) == 0 && len(f.Smokes) == 0 {
		fmt.Fprintln(w, "(nothing on the map)")
		return
	}

	table := newTable(w)
	table.Header(" ", "KIND", "SIDE", "PLACED", "EXPIRES", "WORLD_X", "WORLD_Y", "PX", "PY")
	rows := append(append([]visibility.Marker{}, f.Wards...), f.Smokes...)
	for _, m := range rows {
		marker := " "
		switch {
		case !m.Active:
			marker = "~"
		case m.OffMap:
			marker = "!"
		}
		table.Append(
			marker,
			m.Kind,
			sideLabel(m.IsRadiant),
			m.Clock,
			visibility.Clock(m.ExpiresAt),
			fmt.Sprintf("%.1f", m.WorldX),
			fmt.Sprintf("%.1f", m.WorldY),
			fmt.Sprintf("%.0f", m.PixelX),
			fmt.Sprintf("%.0f", m.PixelY),
		)
	}
	table.Render()
}

func sideLabel(radiant bool) string {
	if radiant {
		return model.SideRadiant.Label()
	}
	return model.SideDire.Label()
}

// PrintTeams prints the team directory.
func PrintTeams(w io.Writer, teams []model.Team) {
	table := newTable(w)
	table.Header("ID", "NAME")
	for _, t := range teams {
		table.Append(strconv.FormatInt(t.ID, 10), t.Name)
	}
	table.Render()
}

// PrintOptions prints the selection menu for one team.
func PrintOptions(w io.Writer, opts []catalog.Option) {
	table := newTable(w)
	table.Header("VALUE", "LABEL")
	for _, o := range opts {
		table.Append(o.Value, o.Label)
	}
	table.Render()
	fmt.Fprintf(w, "(%d matches)\n", max(len(opts)-2, 0))
}

// PrintAggregate prints the per-run counts of an aggregate and any skipped matches.
func PrintAggregate(w io.Writer, res *aggregator.Result) {
	fmt.Fprintf(w, "matches: %d selected, %d loaded  |  %d wards  |  %d smokes\n",
		res.MatchCount, res.Loaded, len(res.Points), len(res.Smokes))
	PrintSkips(w, res.Skipped)
}

// PrintSkips prints one line per match left out of an aggregate.
func PrintSkips(w io.Writer, skips []aggregator.Skip) {
	for _, s := range skips {
		cWarn.Fprintf(w, "  [skip] %s: %v\n", s.MatchID, s.Err)
	}
}

// PrintDiagnostics prints the records a decode dropped.
func PrintDiagnostics(w io.Writer, source string, diags []matchfile.Diagnostic) {
	for _, d := range diags {
		cWarn.Fprintf(w, "  [warn] %s: %s\n", source, d)
	}
}

// PrintIngest prints the outcome of an ingest run.
func PrintIngest(w io.Writer, rep *ingest.Report) {
	fmt.Fprintf(w, "fetched %d matches", len(rep.Matches))
	if len(rep.Errors) > 0 {
		fmt.Fprintf(w, " with %d errors", len(rep.Errors))
	}
	fmt.Fprintln(w, ".")
	for _, e := range rep.Errors {
		cErr.Fprintf(w, "  [error] %s: %s\n", e.ID, e.Error)
	}
}

// PrintQuery prints arbitrary query results.
func PrintQuery(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return
	}
	table := newTable(w)
	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)
	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
}

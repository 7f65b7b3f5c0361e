package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/catalog-eda/internal/chart"
	"github.com/j-veylop/catalog-eda/internal/models"
	"github.com/j-veylop/catalog-eda/internal/services"
	"github.com/j-veylop/catalog-eda/internal/ui/styles"
)

// summaryRows is how many entries of each frequency table are printed.
const summaryRows = 5

// maxPrintedWarnings caps the field warnings echoed after a run.
const maxPrintedWarnings = 5

func printReport(w io.Writer, ev *services.ReportReadyEvent) {
	rep := ev.Report

	fmt.Fprintln(w, styles.TitleStyle.Render(fmt.Sprintf("%d titles analyzed", rep.RecordCount)))

	warnings := styles.WarningRateStyle(rep.WarningCount, rep.RecordCount).
		Render(fmt.Sprintf("%d", rep.WarningCount))
	fmt.Fprintln(w, keyValue("Field warnings", warnings))
	fmt.Fprintln(w, keyValue("Fingerprint", rep.Fingerprint))
	fmt.Fprintln(w, keyValue("Elapsed", ev.Elapsed.Round(time.Millisecond).String()))
	if ev.Run != nil {
		fmt.Fprintln(w, keyValue("Recorded as", fmt.Sprintf("run #%d", ev.Run.ID)))
	}
	if ev.Drift {
		fmt.Fprintln(w, styles.WarningTextStyle.Render("Aggregates differ from an earlier run of the same dataset"))
	}
	fmt.Fprintln(w)

	if len(rep.NonMissing) > 0 {
		fmt.Fprintln(w, styles.SubTitleStyle.Render("Columns"))
		fmt.Fprintln(w, columnCounts(rep.NonMissing, rep.RecordCount))
		fmt.Fprintln(w)
	}

	for _, t := range []struct {
		title string
		table models.FrequencyTable
	}{
		{"Types", rep.Types},
		{"Ratings", rep.Ratings},
		{"Genres", rep.Genres},
		{"Countries", rep.Countries},
	} {
		fmt.Fprintln(w, styles.SubTitleStyle.Render(t.title))
		fmt.Fprintln(w, topEntries(t.table, summaryRows))
		fmt.Fprintln(w)
	}

	if len(rep.Durations) > 0 {
		keys := rep.Durations.Keys()
		sums := make([]models.Summary, len(keys))
		for i, k := range keys {
			sums[i] = rep.DurationSummaries[k]
		}
		fmt.Fprintln(w, styles.SubTitleStyle.Render("Durations"))
		fmt.Fprintln(w, chart.SummaryTable(keys, sums))
		fmt.Fprintln(w)
	}

	if len(rep.AddedByYear) > 0 {
		first, last := rep.AddedByYear[0], rep.AddedByYear[len(rep.AddedByYear)-1]
		fmt.Fprintln(w, keyValue("Added", fmt.Sprintf("%s to %s in %d years with additions",
			first.Period, last.Period, len(rep.AddedByYear))))
	}

	if len(ev.Files) > 0 {
		fmt.Fprintln(w, keyValue("Charts", fmt.Sprintf("%d files", len(ev.Files))))
		for _, f := range ev.Files {
			fmt.Fprintln(w, "  "+styles.HelpStyle.Render(f))
		}
	}

	for i, warn := range ev.Warnings {
		if i == maxPrintedWarnings {
			fmt.Fprintln(w, styles.HelpStyle.Render(fmt.Sprintf("... and %d more warnings", len(ev.Warnings)-i)))
			break
		}
		fmt.Fprintln(w, styles.WarningTextStyle.Render(warn.String()))
	}
}

func keyValue(label, value string) string {
	return styles.LabelStyle.Render(label) + value
}

// topEntries prints the first n entries of a table, one per line.
func topEntries(t models.FrequencyTable, n int) string {
	if len(t) == 0 {
		return styles.HelpStyle.Render("  (none)")
	}

	width := 0
	for _, e := range t[:min(n, len(t))] {
		width = max(width, lipgloss.Width(e.Label))
	}

	lines := make([]string, 0, n+1)
	for i, e := range t {
		if i == n {
			lines = append(lines, styles.HelpStyle.Render(fmt.Sprintf("  ... %d more", len(t)-n)))
			break
		}
		pad := strings.Repeat(" ", width-lipgloss.Width(e.Label))
		lines = append(lines, fmt.Sprintf("  %s%s %6d", e.Label, pad, e.Count))
	}
	return strings.Join(lines, "\n")
}

// columnCounts prints each column with its non-null count out of total rows.
func columnCounts(cols []models.ColumnCount, total int) string {
	width := 0
	for _, c := range cols {
		width = max(width, len(c.Column))
	}

	lines := make([]string, len(cols))
	for i, c := range cols {
		lines[i] = fmt.Sprintf("  %-*s %6d non-null", width, c.Column, c.Count)
		if c.Count < total {
			lines[i] += styles.HelpStyle.Render(fmt.Sprintf("  (%d missing)", total-c.Count))
		}
	}
	return strings.Join(lines, "\n")
}

// runRow formats a recorded run for the history command.
func runRow(r models.Run) string {
	fp := r.Fingerprint
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fmt.Sprintf("%5s  %-16s %8d %8d %4d %4d  %-12s  %s",
		fmt.Sprintf("#%d", r.ID), r.CreatedAt.Local().Format("2006-01-02 15:04"),
		r.RecordCount, r.WarningCount, r.TopN, r.HistogramBins, fp, r.DatasetPath)
}

// printRun prints a recorded run followed by its stored aggregate rows,
// limited to one chart when only is set.
func printRun(w io.Writer, r *models.Run, points map[string][]models.AggregatePoint, only string) {
	fmt.Fprintln(w, styles.TitleStyle.Render(fmt.Sprintf("Run #%d", r.ID)))
	fmt.Fprintln(w, keyValue("Created", r.CreatedAt.Local().Format(time.DateTime)))
	fmt.Fprintln(w, keyValue("Dataset", r.DatasetPath))
	fmt.Fprintln(w, keyValue("SHA-256", r.DatasetSHA256))
	fmt.Fprintln(w, keyValue("Fingerprint", r.Fingerprint))
	fmt.Fprintln(w, keyValue("Titles", fmt.Sprintf("%d (%d field warnings)", r.RecordCount, r.WarningCount)))
	fmt.Fprintln(w, keyValue("Options", fmt.Sprintf("top %d, %d bins", r.TopN, r.HistogramBins)))

	for _, chart := range models.Charts {
		rows, ok := points[chart]
		if !ok || (only != "" && chart != only) {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, styles.SubTitleStyle.Render(fmt.Sprintf("%s (%d rows)", chart, len(rows))))
		width := 0
		for _, p := range rows {
			width = max(width, lipgloss.Width(p.Label))
		}
		for _, p := range rows {
			fmt.Fprintf(w, "  %-*s %10s\n", width, p.Label, strconv.FormatFloat(p.Value, 'f', -1, 64))
		}
	}
}

package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"cinesift/internal/pipeline"
)

// printSummary renders the run summary as a table on terminals and as plain
// key/value lines everywhere else.
func printSummary(out io.Writer, summary *pipeline.Summary) {
	rows := summaryRows(summary)
	if !isTerminal(out) {
		for _, row := range rows {
			fmt.Fprintf(out, "%s: %s\n", row[0], row[1])
		}
		return
	}
	fmt.Fprintln(out, renderSummaryTable(rows))
}

func summaryRows(summary *pipeline.Summary) [][2]string {
	rows := [][2]string{
		{"Run", summary.RunID},
		{"Primary rows", strconv.Itoa(summary.Merge.PrimaryRows)},
		{"Secondary rows", strconv.Itoa(summary.Merge.SecondaryRows)},
		{"Rating rows", strconv.Itoa(summary.Merge.RatingsRows)},
		{"Merged rows", strconv.Itoa(summary.Merge.MergedRows)},
		{"Invalid ids", strconv.Itoa(summary.Merge.InvalidIDs)},
		{"Duplicate ids", strconv.Itoa(summary.Merge.DuplicateIDs)},
	}
	if summary.EnrichEnabled {
		rows = append(rows,
			[2]string{"API calls", strconv.Itoa(summary.Enrich.Fetches)},
			[2]string{"Records enriched", strconv.Itoa(summary.Enrich.Updated)},
			[2]string{"Fetch failures", strconv.Itoa(summary.Enrich.Failures)},
		)
	} else {
		rows = append(rows, [2]string{"Enrichment", "disabled"})
	}
	rows = append(rows,
		[2]string{"Rows written", strconv.Itoa(summary.OutputRows)},
		[2]string{"Rows dropped", strconv.Itoa(summary.DroppedRows)},
		[2]string{"Output", summary.OutputPath},
		[2]string{"Elapsed", summary.Duration.String()},
	)
	return rows
}

func renderSummaryTable(rows [][2]string) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	for _, row := range rows {
		tw.AppendRow(table.Row{row[0], row[1]})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft, AlignHeader: text.AlignLeft},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

package main

import (
	"fmt"
	"io"

	"github.com/alimgiray/langscope/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
)

// renderReport prints the ranked languages of report as a table
func renderReport(w io.Writer, report *models.LanguageReport) {
	fmt.Fprintf(w, "%s (%s)\n", report.Login, report.Mode)

	shares := report.Results.Ranked()
	if len(shares) == 0 {
		fmt.Fprintln(w, "No languages found.")
		return
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false

	tbl.AppendHeader(table.Row{"Language", "Size", "Lines", "Share"})
	lines := 0
	for _, share := range shares {
		tbl.AppendRow(table.Row{
			share.Language,
			humanize.Bytes(uint64(share.Bytes)),
			humanize.Comma(int64(share.Lines)),
			fmt.Sprintf("%.1f%%", share.Percent),
		})
		lines += share.Lines
	}
	tbl.AppendFooter(table.Row{"Total", humanize.Bytes(uint64(report.Results.Total)), humanize.Comma(int64(lines)), ""})

	fmt.Fprintln(w, tbl.Render())
}

package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"framecast/internal/history"
)

// maxErrorWidth caps the ERROR column so one long failure message does not
// blow the table out past the terminal.
const maxErrorWidth = 48

// renderJobsTable lays out finished export jobs, newest first, in the order
// the store returned them.
func renderJobsTable(records []history.Record) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "FINISHED", "FORMAT", "FRAMES", "SIZE", "STATUS", "FILE", "ERROR"})

	for _, rec := range records {
		tw.AppendRow(table.Row{
			shortID(rec.ID),
			rec.FinishedAt.Local().Format("2006-01-02 15:04:05"),
			rec.Format,
			numberPrinter.Sprintf("%d", rec.TotalFrames),
			formatBytes(rec.ArtifactBytes),
			string(rec.Status),
			rec.Filename,
			truncateError(rec.Error),
		})
	}

	// Frame and size counts read better right-aligned; everything else stays
	// left like the headers.
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func truncateError(message string) string {
	if len(message) <= maxErrorWidth {
		return message
	}
	return message[:maxErrorWidth-3] + "..."
}

package main

import (
	"strconv"
	"time"

	"moviesort/internal/task"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderResults prints one row per organizer run.
func renderResults(results []task.Result) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Task", "Directory", "Status", "Exit", "Duration"})

	for _, r := range results {
		status := "ok"
		if r.Failed() {
			status = "failed"
		}
		tw.AppendRow(table.Row{
			shortID(r.ID),
			r.Dir,
			status,
			strconv.Itoa(r.ExitCode),
			r.Duration().Round(time.Millisecond).String(),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Exit", Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Name: "Duration", Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

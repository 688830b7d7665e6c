// Package report renders result tables for the console.
package report

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"tdsk-analytics/internal/aggregate"
	"tdsk-analytics/internal/feature"
)

// Comparison renders an old-vs-new comparison table.
func Comparison(w io.Writer, title, dimension string, rows []feature.ComparisonRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(title)
	t.AppendHeader(table.Row{dimension, "Старая выборка", "Новая выборка"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Label, row.OldCount, row.NewCount})
	}
	t.Render()
}

// Activity renders the daily active-objects pivot.
func Activity(w io.Writer, rows []aggregate.ActivityRow) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Дата", "Корпус", "Кол-во активных квартир"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Date.Format("02.01.2006"), row.Group, row.Count})
	}
	t.Render()
}

// Monthly renders the month-by-room-count activity matrix.
func Monthly(w io.Writer, m feature.MonthlyMatrix) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := table.Row{"Месяц"}
	for _, room := range m.Rooms {
		header = append(header, room)
	}
	t.AppendHeader(header)

	for i, month := range m.Months {
		row := table.Row{month}
		for _, n := range m.Counts[i] {
			row = append(row, n)
		}
		t.AppendRow(row)
	}
	t.Render()
}

package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws rows in the rounded terminal style. Short rows are padded
// with empty cells.
func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(tableRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(tableRow(row, columns))
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func tableRow(cells []string, columns int) table.Row {
	row := make(table.Row, columns)
	for i := range columns {
		row[i] = ""
		if i < len(cells) {
			row[i] = cells[i]
		}
	}
	return row
}

// countAligns left-aligns the first n columns and right-aligns the rest.
func countAligns(n, columns int) []columnAlignment {
	aligns := make([]columnAlignment, columns)
	for i := n; i < columns; i++ {
		aligns[i] = alignRight
	}
	return aligns
}

package ui

import (
	"github.com/rivo/tview"

	"github.com/jdlms/aws-tui/internal/types"
)

// PopulateTable fills the table with data. The first row of data.Rows is
// the header; cells may carry color tags.
func PopulateTable(table *tview.Table, data types.CostData, selected int) {
	table.Clear()
	table.SetTitle(" " + data.Title + " ")

	if len(data.Rows) == 0 {
		table.SetCell(0, 0, tview.NewTableCell("No data available").
			SetAlign(tview.AlignCenter).
			SetSelectable(false))
		return
	}

	for col, cell := range data.Rows[0] {
		table.SetCell(0, col, tview.NewTableCell("["+ColorGold+"::b]"+cell+"[-::-]").
			SetAlign(tview.AlignLeft).
			SetSelectable(false).
			SetExpansion(expansion(col)))
	}

	for row := 1; row < len(data.Rows); row++ {
		for col, cell := range data.Rows[row] {
			table.SetCell(row, col, tview.NewTableCell(cell).
				SetAlign(tview.AlignLeft).
				SetSelectable(true).
				SetExpansion(expansion(col)))
		}
	}

	if selected >= 0 && selected < len(data.Rows)-1 {
		table.Select(selected+1, 0)
	}
}

// expansion lets the first column take the spare width
func expansion(col int) int {
	if col == 0 {
		return 1
	}
	return 0
}

package ui

import (
	"github.com/rivo/tview"
)

const (
	pageMain  = "main"
	pageModal = "modal"

	modalWidth  = 44
	modalHeight = 22
)

// setupGrid configures the main grid layout: header and footer span both
// columns, the menu sits left of the body
func setupGrid(s *Screen) *tview.Grid {
	grid := tview.NewGrid().
		SetRows(3, 0, 3).
		SetColumns(25, 0).
		SetBorders(false)

	grid.AddItem(s.header, 0, 0, 1, 2, 0, 0, false)
	grid.AddItem(s.footer, 2, 0, 1, 2, 0, 0, false)

	// narrow terminals drop the menu
	grid.AddItem(s.body, 1, 0, 1, 2, 0, 0, true)

	grid.AddItem(s.menu, 1, 0, 1, 1, 0, 80, false)
	grid.AddItem(s.body, 1, 1, 1, 1, 0, 80, true)
	return grid
}

// setupBody stacks the banner, the table and the optional path input
func setupBody(s *Screen) *tview.Flex {
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.banner, 0, 0, false).
		AddItem(s.table, 0, 1, true).
		AddItem(s.input, 0, 0, false).
		AddItem(s.suggestions, 0, 0, false)
}

// setupPages puts the modal picker over the grid
func setupPages(s *Screen, grid *tview.Grid) *tview.Pages {
	return tview.NewPages().
		AddPage(pageMain, grid, true, true).
		AddPage(pageModal, center(s.modal, modalWidth, modalHeight), true, false)
}

func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 1, true).
			AddItem(nil, 0, 1, false), width, 1, true).
		AddItem(nil, 0, 1, false)
}

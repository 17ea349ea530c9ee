package ui

import (
	"github.com/rivo/tview"
)

// CreateMenu creates the main navigation menu
func CreateMenu() *tview.List {
	menu := tview.NewList()
	menu.SetBorder(true).SetTitle(" ☁ aws-tui ")
	menu.ShowSecondaryText(false)
	menu.SetHighlightFullLine(true)
	return menu
}

// CreateMainTable creates the main data display table
func CreateMainTable() *tview.Table {
	table := tview.NewTable()
	table.SetBorder(true)
	table.SetSelectable(true, false)
	table.SetFixed(1, 0) // header row
	table.SetSelectedStyle(selectedStyle())
	return table
}

// CreateHeader creates the header text view
func CreateHeader() *tview.TextView {
	header := tview.NewTextView()
	header.SetBorder(true)
	header.SetTextAlign(tview.AlignCenter)
	header.SetDynamicColors(true)
	return header
}

// CreateFooter creates the footer text view with the key help
func CreateFooter() *tview.TextView {
	footer := tview.NewTextView()
	footer.SetBorder(true)
	footer.SetTextAlign(tview.AlignCenter)
	footer.SetDynamicColors(true)
	return footer
}

// CreateBanner creates the message lines above the table
func CreateBanner() *tview.TextView {
	banner := tview.NewTextView()
	banner.SetDynamicColors(true)
	banner.SetWrap(false)
	return banner
}

// CreatePathInput creates the destination input of the object page
func CreatePathInput() *tview.InputField {
	input := tview.NewInputField()
	input.SetFieldWidth(0)
	input.SetBorder(true)
	return input
}

// CreateSuggestions creates the completion list under the path input
func CreateSuggestions() *tview.TextView {
	s := tview.NewTextView()
	s.SetDynamicColors(true)
	s.SetWrap(false)
	return s
}

// CreateModalTable creates the table of the modal picker
func CreateModalTable() *tview.Table {
	table := tview.NewTable()
	table.SetBorder(true)
	table.SetSelectable(true, false)
	table.SetSelectedStyle(selectedStyle())
	return table
}

package ui

import (
	"slices"
	"strings"

	"github.com/rivo/tview"
)

// Screen owns the widgets and draws frames onto them
type Screen struct {
	Root *tview.Pages

	header      *tview.TextView
	footer      *tview.TextView
	banner      *tview.TextView
	menu        *tview.List
	table       *tview.Table
	input       *tview.InputField
	suggestions *tview.TextView
	modal       *tview.Table
	body        *tview.Flex

	menuItems  []string
	modalShown bool
	rendering  bool

	// OnInput receives edits of the path input made by the user
	OnInput func(text string)
}

// NewScreen builds the layout
func NewScreen() *Screen {
	s := &Screen{
		header:      CreateHeader(),
		footer:      CreateFooter(),
		banner:      CreateBanner(),
		menu:        CreateMenu(),
		table:       CreateMainTable(),
		input:       CreatePathInput(),
		suggestions: CreateSuggestions(),
		modal:       CreateModalTable(),
	}
	s.input.SetChangedFunc(func(text string) {
		if s.rendering || s.OnInput == nil {
			return
		}
		s.OnInput(text)
	})
	s.body = setupBody(s)
	s.Root = setupPages(s, setupGrid(s))
	return s
}

// Render draws f and returns the primitive that should have focus
func (s *Screen) Render(f Frame) tview.Primitive {
	s.rendering = true
	defer func() { s.rendering = false }()

	setText(s.header, f.Header)
	setText(s.footer, f.Footer)
	s.renderMenu(f.Menu, f.MenuIndex)
	s.renderBanners(f.Banners)
	PopulateTable(s.table, f.Table, f.Selected)
	s.renderInput(f.Input)
	s.renderModal(f.Modal)

	switch {
	case f.Modal != nil:
		return s.modal
	case f.Input != nil:
		return s.input
	}
	return s.table
}

func setText(view *tview.TextView, text string) {
	if view.GetText(false) != text {
		view.SetText(text)
	}
}

func (s *Screen) renderMenu(items []string, index int) {
	if !slices.Equal(items, s.menuItems) {
		s.menu.Clear()
		for _, item := range items {
			s.menu.AddItem(item, "", 0, nil)
		}
		s.menuItems = append([]string(nil), items...)
	}
	if index >= 0 && index < len(items) {
		s.menu.SetCurrentItem(index)
	}
}

func (s *Screen) renderBanners(banners []Banner) {
	lines := make([]string, 0, len(banners))
	for _, b := range banners {
		color := ColorFoam
		if b.Level == BannerError {
			color = ColorLove
		}
		lines = append(lines, Colorize(color, b.Text))
	}
	setText(s.banner, strings.Join(lines, "\n"))
	s.body.ResizeItem(s.banner, len(lines), 0)
}

func (s *Screen) renderInput(in *InputFrame) {
	if in == nil {
		s.body.ResizeItem(s.input, 0, 0)
		s.body.ResizeItem(s.suggestions, 0, 0)
		return
	}
	s.input.SetTitle(" " + in.Label + " ")
	if s.input.GetText() != in.Value {
		s.input.SetText(in.Value)
	}
	lines := make([]string, 0, len(in.Suggestions))
	for _, sug := range in.Suggestions {
		lines = append(lines, Colorize(ColorSubtle, "  "+sug))
	}
	setText(s.suggestions, strings.Join(lines, "\n"))
	s.body.ResizeItem(s.input, 3, 0)
	s.body.ResizeItem(s.suggestions, len(lines), 0)
}

func (s *Screen) renderModal(m *ModalFrame) {
	if m == nil {
		if s.modalShown {
			s.Root.HidePage(pageModal)
			s.modalShown = false
		}
		return
	}

	s.modal.Clear()
	s.modal.SetTitle(" " + m.Title + " ")
	row := 0
	if m.Message != "" {
		s.modal.SetCell(row, 0, tview.NewTableCell(m.Message).SetSelectable(false))
		row++
	}
	first := row
	for _, item := range m.Rows {
		s.modal.SetCell(row, 0, tview.NewTableCell(item).SetExpansion(1))
		row++
	}
	if m.Selected >= 0 && m.Selected < len(m.Rows) {
		s.modal.Select(first+m.Selected, 0)
	}

	if !s.modalShown {
		s.Root.ShowPage(pageModal)
		s.modalShown = true
	}
}

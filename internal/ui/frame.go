package ui

import "github.com/jdlms/aws-tui/internal/types"

// BannerLevel sets the color of a banner line
type BannerLevel int

const (
	BannerInfo BannerLevel = iota
	BannerError
)

// Banner is a one-line message above the table
type Banner struct {
	Level BannerLevel
	Text  string
}

// InputFrame is a text input under the table with completions
type InputFrame struct {
	Label       string
	Value       string
	Suggestions []string
}

// ModalFrame is a selectable list drawn over the layout
type ModalFrame struct {
	Title    string
	Rows     []string
	Selected int
	Message  string
}

// Frame is everything the screen shows at one moment. It is built from
// the application state and holds no references back into it.
type Frame struct {
	Header    string
	Menu      []string
	MenuIndex int
	Table     types.CostData
	// Selected is the selected data row, not counting the header; -1 for none
	Selected int
	Banners  []Banner
	Input    *InputFrame
	Modal    *ModalFrame
	Footer   string
}

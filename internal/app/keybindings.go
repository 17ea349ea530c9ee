package app

import (
	"github.com/gdamore/tcell/v2"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

// IntentFor maps a key press on page to an intent. IntentNone means the
// key is not bound there.
func IntentFor(page nav.Page, modal bool, event *tcell.EventKey) Intent {
	switch event.Key() {
	case tcell.KeyCtrlC:
		return IntentQuit
	case tcell.KeyCtrlX:
		return IntentCancelPending
	}

	if modal {
		return modalIntent(event)
	}
	// the path input keeps every other key
	if isObjectPage(page) {
		switch event.Key() {
		case tcell.KeyEscape:
			return IntentBack
		case tcell.KeyEnter:
			return IntentConfirm
		case tcell.KeyTab:
			return IntentComplete
		}
		return IntentNone
	}

	tree := page.Is(types.KindCosts)
	switch event.Key() {
	case tcell.KeyUp:
		return IntentMoveUp
	case tcell.KeyDown:
		return IntentMoveDown
	case tcell.KeyPgDn:
		return IntentPageForward
	case tcell.KeyPgUp:
		return IntentPageBackward
	case tcell.KeyEnter:
		return IntentConfirm
	case tcell.KeyEscape, tcell.KeyBackspace, tcell.KeyBackspace2:
		return IntentBack
	case tcell.KeyLeft:
		if tree {
			return IntentCollapse
		}
		return IntentHistoryBack
	case tcell.KeyRight:
		if tree {
			return IntentExpand
		}
		return IntentHistoryForward
	case tcell.KeyRune:
		return runeIntent(event.Rune(), tree)
	}
	return IntentNone
}

func runeIntent(r rune, tree bool) Intent {
	switch r {
	case 'k':
		return IntentMoveUp
	case 'j':
		return IntentMoveDown
	case 'l':
		if tree {
			return IntentExpand
		}
		return IntentConfirm
	case 'h':
		return IntentBack
	case '[':
		return IntentHistoryBack
	case ']':
		return IntentHistoryForward
	case 'r':
		return IntentRefresh
	case 's':
		return IntentStart
	case 'x':
		return IntentStop
	case 'g':
		return IntentCycleRange
	case 'a':
		return IntentToggleAll
	case 'R':
		return IntentOpenRegions
	case 'q':
		return IntentQuit
	}
	return IntentNone
}

func modalIntent(event *tcell.EventKey) Intent {
	switch event.Key() {
	case tcell.KeyUp:
		return IntentMoveUp
	case tcell.KeyDown:
		return IntentMoveDown
	case tcell.KeyEnter:
		return IntentConfirm
	case tcell.KeyEscape:
		return IntentBack
	case tcell.KeyRune:
		switch event.Rune() {
		case 'k':
			return IntentMoveUp
		case 'j':
			return IntentMoveDown
		case 'q', 'R':
			return IntentBack
		}
	}
	return IntentNone
}

func isObjectPage(p nav.Page) bool {
	if p.Kind != nav.PageDetail || !p.Is(types.KindObjects) {
		return false
	}
	_, ok := p.Item.(types.ObjectFile)
	return ok
}

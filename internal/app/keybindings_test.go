package app

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jdlms/aws-tui/internal/nav"
	"github.com/jdlms/aws-tui/internal/types"
)

func key(k tcell.Key) *tcell.EventKey {
	return tcell.NewEventKey(k, 0, tcell.ModNone)
}

func char(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestIntentFor(t *testing.T) {
	instances := nav.List(types.KindInstances)
	costs := nav.List(types.KindCosts)
	object := nav.Detail(types.KindObjects, types.ObjectFile{Key: "a"}, "b")

	tests := []struct {
		name   string
		page   nav.Page
		modal  bool
		event  *tcell.EventKey
		intent Intent
	}{
		{name: "j", page: instances, event: char('j'), intent: IntentMoveDown},
		{name: "up arrow", page: instances, event: key(tcell.KeyUp), intent: IntentMoveUp},
		{name: "page down", page: instances, event: key(tcell.KeyPgDn), intent: IntentPageForward},
		{name: "page up", page: instances, event: key(tcell.KeyPgUp), intent: IntentPageBackward},
		{name: "enter", page: instances, event: key(tcell.KeyEnter), intent: IntentConfirm},
		{name: "l drills in", page: instances, event: char('l'), intent: IntentConfirm},
		{name: "escape", page: instances, event: key(tcell.KeyEscape), intent: IntentBack},
		{name: "h", page: instances, event: char('h'), intent: IntentBack},
		{name: "backspace", page: instances, event: key(tcell.KeyBackspace2), intent: IntentBack},
		{name: "left is history", page: instances, event: key(tcell.KeyLeft), intent: IntentHistoryBack},
		{name: "right is history", page: instances, event: key(tcell.KeyRight), intent: IntentHistoryForward},
		{name: "bracket back", page: instances, event: char('['), intent: IntentHistoryBack},
		{name: "bracket forward", page: instances, event: char(']'), intent: IntentHistoryForward},
		{name: "refresh", page: instances, event: char('r'), intent: IntentRefresh},
		{name: "start", page: instances, event: char('s'), intent: IntentStart},
		{name: "stop", page: instances, event: char('x'), intent: IntentStop},
		{name: "regions", page: instances, event: char('R'), intent: IntentOpenRegions},
		{name: "quit", page: instances, event: char('q'), intent: IntentQuit},
		{name: "unbound", page: instances, event: char('z'), intent: IntentNone},
		{name: "cancel pending", page: instances, event: key(tcell.KeyCtrlX), intent: IntentCancelPending},

		{name: "left collapses in costs", page: costs, event: key(tcell.KeyLeft), intent: IntentCollapse},
		{name: "right expands in costs", page: costs, event: key(tcell.KeyRight), intent: IntentExpand},
		{name: "l expands in costs", page: costs, event: char('l'), intent: IntentExpand},
		{name: "range", page: costs, event: char('g'), intent: IntentCycleRange},
		{name: "toggle all", page: costs, event: char('a'), intent: IntentToggleAll},

		{name: "typing goes to the input", page: object, event: char('q'), intent: IntentNone},
		{name: "tab completes", page: object, event: key(tcell.KeyTab), intent: IntentComplete},
		{name: "enter downloads", page: object, event: key(tcell.KeyEnter), intent: IntentConfirm},
		{name: "escape leaves", page: object, event: key(tcell.KeyEscape), intent: IntentBack},
		{name: "ctrl-c quits anywhere", page: object, event: key(tcell.KeyCtrlC), intent: IntentQuit},

		{name: "modal j", page: instances, modal: true, event: char('j'), intent: IntentMoveDown},
		{name: "modal q closes", page: instances, modal: true, event: char('q'), intent: IntentBack},
		{name: "modal ignores actions", page: instances, modal: true, event: char('s'), intent: IntentNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.intent, IntentFor(tt.page, tt.modal, tt.event))
		})
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "page-forward", IntentPageForward.String())
	assert.Equal(t, "unknown", Intent(999).String())
}

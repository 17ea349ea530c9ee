package app

// Intent is what a key press asks the application to do
type Intent int

const (
	IntentNone Intent = iota
	IntentMoveUp
	IntentMoveDown
	IntentPageForward
	IntentPageBackward
	IntentConfirm
	IntentBack
	IntentHistoryBack
	IntentHistoryForward
	IntentRefresh
	IntentStart
	IntentStop
	IntentCycleRange
	IntentToggleAll
	IntentExpand
	IntentCollapse
	IntentOpenRegions
	IntentComplete
	IntentCancelPending
	IntentQuit
)

var intentNames = map[Intent]string{
	IntentNone:           "none",
	IntentMoveUp:         "move-up",
	IntentMoveDown:       "move-down",
	IntentPageForward:    "page-forward",
	IntentPageBackward:   "page-backward",
	IntentConfirm:        "confirm",
	IntentBack:           "back",
	IntentHistoryBack:    "history-back",
	IntentHistoryForward: "history-forward",
	IntentRefresh:        "refresh",
	IntentStart:          "start",
	IntentStop:           "stop",
	IntentCycleRange:     "cycle-range",
	IntentToggleAll:      "toggle-all",
	IntentExpand:         "expand",
	IntentCollapse:       "collapse",
	IntentOpenRegions:    "open-regions",
	IntentComplete:       "complete",
	IntentCancelPending:  "cancel-pending",
	IntentQuit:           "quit",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

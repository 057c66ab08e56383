package renderer

import "github.com/gdamore/tcell/v2"

type UiAction rune

const (
	Unknown UiAction = iota
	Quit    UiAction = 81 // 'Q'
	Escape  UiAction = 27
)

func ProcessInput(rawInput rune) (action UiAction) {
	inputVal := int(rawInput)
	// Convert to UpperCase
	if inputVal >= 97 && inputVal <= 122 {
		inputVal = inputVal - 32
	}
	switch UiAction(inputVal) {
	case Quit, Escape:
		return Quit
	}
	return Unknown
}

// ProcessKey maps a tcell key event onto an action.
func ProcessKey(ev *tcell.EventKey) UiAction {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Quit
	case tcell.KeyRune:
		return ProcessInput(ev.Rune())
	}
	return Unknown
}

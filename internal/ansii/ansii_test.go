package ansii

import (
	"strings"
	"testing"
)

func TestPlaceCursorIsOneBased(t *testing.T) {
	if got := Screen.PlaceCursor(0, 0); got != "\033[1;1H" {
		t.Errorf("Expected home position, got %q", got)
	}
	if got := Screen.PlaceCursor(9, 4); got != "\033[5;10H" {
		t.Errorf("Expected row 5 col 10, got %q", got)
	}
}

func TestDrawCell(t *testing.T) {
	var b strings.Builder
	DrawCell(&b, 2, 3, 'x', Colors.Red)
	want := "\033[4;3H" + string(Colors.Red) + "x" + string(Styles.Reset)
	if b.String() != want {
		t.Errorf("Expected %q, got %q", want, b.String())
	}
}

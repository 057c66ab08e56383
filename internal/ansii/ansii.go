package ansii

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

type ANSI string

const (
	reset       ANSI = "\033[0m"
	plain       ANSI = ""
	bold        ANSI = "\033[1m"
	red         ANSI = "\033[31m"
	white       ANSI = "\033[37m"
	blackBg     ANSI = "\033[40m"
	clearScreen ANSI = "\033[2J"
	hideCursor  ANSI = "\033[?25l"
	showCursor  ANSI = "\033[?25h"
)

type style struct {
	Reset ANSI
	Plain ANSI
	Bold  ANSI
}

type color struct {
	Red     ANSI
	White   ANSI
	BlackBg ANSI
}

type screen struct {
	ClearScreen ANSI
	HideCursor  ANSI
	ShowCursor  ANSI
}

var (
	Styles = style{Reset: reset, Plain: plain, Bold: bold}
	Colors = color{Red: red, White: white, BlackBg: blackBg}
	Screen = screen{ClearScreen: clearScreen, HideCursor: hideCursor, ShowCursor: showCursor}
)

// PlaceCursor moves the cursor to the zero based cell (x, y).
func (s screen) PlaceCursor(x, y int) ANSI {
	return ANSI(fmt.Sprintf("\033[%d;%dH", y+1, x+1))
}

func GetTermSize() (width int, height int, err error) {
	width, height, err = term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return width, height, nil
}

func MakeTermRaw() (*term.State, error) {
	return term.MakeRaw(int(os.Stdin.Fd()))
}

func RestoreTerm(prev *term.State) error {
	return term.Restore(int(os.Stdin.Fd()), prev)
}

// DrawCell writes r at cell (x, y) in the given style and resets the style.
func DrawCell(builder *strings.Builder, x, y int, r rune, style ANSI) {
	builder.WriteString(string(Screen.PlaceCursor(x, y)))
	builder.WriteString(string(style))
	builder.WriteRune(r)
	builder.WriteString(string(Styles.Reset))
}

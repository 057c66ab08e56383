package renderer

import (
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"
)

var (
	styleBackground = tcell.StyleDefault.Background(tcell.ColorBlack)
	palette         = map[Color]tcell.Style{
		White: styleBackground.Foreground(tcell.ColorWhite),
		Red:   styleBackground.Foreground(tcell.ColorRed),
	}
)

// TcellSurface draws a logical pixel field scaled onto a tcell screen.
type TcellSurface struct {
	screen tcell.Screen
	width  int
	height int
}

func NewTcellSurface(screen tcell.Screen, width, height int) (*TcellSurface, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.New("field dimensions must be positive")
	}
	return &TcellSurface{screen: screen, width: width, height: height}, nil
}

// OpenTcell initializes the terminal screen.
func OpenTcell(width, height int) (*TcellSurface, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	screen.HideCursor()
	return NewTcellSurface(screen, width, height)
}

func (t *TcellSurface) Screen() tcell.Screen {
	return t.screen
}

func (t *TcellSurface) raster() raster {
	cols, rows := t.screen.Size()
	return raster{
		width:  t.width,
		height: t.height,
		cols:   cols,
		rows:   rows,
		plot: func(col, row int, r rune, c Color) {
			t.screen.SetContent(col, row, r, nil, palette[c])
		},
	}
}

func (t *TcellSurface) Size() (int, int) {
	return t.width, t.height
}

func (t *TcellSurface) Clear() {
	t.screen.Fill(' ', styleBackground)
}

func (t *TcellSurface) DashedLine(x0, y0, x1, y1, on, off int, c Color) {
	t.raster().dashedLine(x0, y0, x1, y1, on, off, c)
}

func (t *TcellSurface) Text(x, y int, s string, c Color) {
	t.raster().text(x, y, s, c)
}

func (t *TcellSurface) FillCircle(cx, cy, radius int, c Color) {
	t.raster().fillCircle(cx, cy, radius, c)
}

func (t *TcellSurface) FillRect(x, y, width, height int, c Color) {
	t.raster().fillRect(x, y, width, height, c)
}

func (t *TcellSurface) Show() {
	t.screen.Show()
}

func (t *TcellSurface) Close() {
	t.screen.Fini()
}

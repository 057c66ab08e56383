package renderer

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"motionpong/internal/ansii"
)

var ansiColors = map[Color]ansii.ANSI{
	White: ansii.Colors.White,
	Red:   ansii.Colors.Red,
}

type ansiCell struct {
	r rune
	c Color
}

// AnsiSurface buffers a frame of cells and writes it as escape sequences on
// Show.
type AnsiSurface struct {
	out    io.Writer
	width  int
	height int
	cols   int
	rows   int
	cells  map[[2]int]ansiCell
}

func NewAnsiSurface(out io.Writer, width, height, cols, rows int) (*AnsiSurface, error) {
	if width <= 0 || height <= 0 || cols <= 0 || rows <= 0 {
		return nil, errors.New("field and terminal dimensions must be positive")
	}
	return &AnsiSurface{
		out:    out,
		width:  width,
		height: height,
		cols:   cols,
		rows:   rows,
		cells:  make(map[[2]int]ansiCell),
	}, nil
}

func (a *AnsiSurface) raster() raster {
	return raster{
		width:  a.width,
		height: a.height,
		cols:   a.cols,
		rows:   a.rows,
		plot: func(col, row int, r rune, c Color) {
			a.cells[[2]int{col, row}] = ansiCell{r: r, c: c}
		},
	}
}

func (a *AnsiSurface) Size() (int, int) {
	return a.width, a.height
}

func (a *AnsiSurface) Clear() {
	clear(a.cells)
}

func (a *AnsiSurface) DashedLine(x0, y0, x1, y1, on, off int, c Color) {
	a.raster().dashedLine(x0, y0, x1, y1, on, off, c)
}

func (a *AnsiSurface) Text(x, y int, s string, c Color) {
	a.raster().text(x, y, s, c)
}

func (a *AnsiSurface) FillCircle(cx, cy, radius int, c Color) {
	a.raster().fillCircle(cx, cy, radius, c)
}

func (a *AnsiSurface) FillRect(x, y, width, height int, c Color) {
	a.raster().fillRect(x, y, width, height, c)
}

func (a *AnsiSurface) Show() {
	var builder strings.Builder
	builder.WriteString(string(ansii.Screen.ClearScreen))
	for row := 0; row < a.rows; row++ {
		for col := 0; col < a.cols; col++ {
			cell, ok := a.cells[[2]int{col, row}]
			if !ok {
				continue
			}
			ansii.DrawCell(&builder, col, row, cell.r, ansiColors[cell.c])
		}
	}
	if _, err := io.WriteString(a.out, builder.String()); err != nil {
		slog.Debug("failed to write frame", slog.Any("error", err))
	}
}

package renderer

// raster maps field pixel shapes onto a grid of terminal cells.
type raster struct {
	width, height int
	cols, rows    int
	plot          func(col, row int, r rune, c Color)
}

func (g raster) cell(x, y int) (int, int) {
	return x * g.cols / g.width, y * g.rows / g.height
}

func (g raster) set(col, row int, r rune, c Color) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.plot(col, row, r, c)
}

func (g raster) fillRect(x, y, w, h int, c Color) {
	c0, r0 := g.cell(x, y)
	c1, r1 := g.cell(x+w-1, y+h-1)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			g.set(col, row, '█', c)
		}
	}
}

func (g raster) fillCircle(cx, cy, radius int, c Color) {
	c0, r0 := g.cell(cx-radius, cy-radius)
	c1, r1 := g.cell(cx+radius, cy+radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			// distance from the cell center, in field pixels
			px := (2*col+1)*g.width/(2*g.cols) - cx
			py := (2*row+1)*g.height/(2*g.rows) - cy
			if px*px+py*py <= radius*radius {
				g.set(col, row, '█', c)
			}
		}
	}
	col, row := g.cell(cx, cy)
	g.set(col, row, '█', c)
}

func (g raster) dashedLine(x0, y0, x1, y1, on, off int, c Color) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	r := '─'
	if abs(dy) > abs(dx) {
		r = '│'
	}
	if steps == 0 || on+off <= 0 {
		col, row := g.cell(x0, y0)
		g.set(col, row, r, c)
		return
	}
	for i := 0; i <= steps; i++ {
		if i%(on+off) >= on {
			continue
		}
		col, row := g.cell(x0+dx*i/steps, y0+dy*i/steps)
		g.set(col, row, r, c)
	}
}

func (g raster) text(x, y int, s string, c Color) {
	runes := []rune(s)
	col, row := g.cell(x, y)
	col -= len(runes) / 2
	for i, r := range runes {
		g.set(col+i, row, r, c)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

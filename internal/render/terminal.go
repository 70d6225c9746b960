package render

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/text/width"
)

// Glyph is how a mesh looks in a terminal: a rune, a color and the half
// extents of the unit mesh in world units.
type Glyph struct {
	Rune   rune
	Color  tcell.Color
	Extent mgl32.Vec2
}

// Terminal draws an orthographic side view onto a tcell screen, centered on
// the camera. Cells are roughly twice as tall as they are wide, so rows get
// half the zoom of columns.
type Terminal struct {
	screen       tcell.Screen
	glyphs       []Glyph
	cellsPerUnit float64
	showHUD      bool

	view   View
	status string
	calls  int
}

func NewTerminal(screen tcell.Screen, glyphs []Glyph, cellsPerUnit float64, showHUD bool) *Terminal {
	if cellsPerUnit <= 0 {
		cellsPerUnit = 2
	}
	return &Terminal{
		screen:       screen,
		glyphs:       glyphs,
		cellsPerUnit: cellsPerUnit,
		showHUD:      showHUD,
	}
}

func (t *Terminal) BeginFrame(v View) {
	t.view = v
	t.calls = 0
	t.screen.Clear()
}

func (t *Terminal) SetStatus(s string) { t.status = s }

// Draw fills the cells covered by the mesh's scaled extent. A wide glyph
// takes two cells, so columns advance by its width and a trailing column
// too narrow for it stays empty.
func (t *Terminal) Draw(c DrawCall) {
	if c.Mesh < 0 || c.Mesh >= len(t.glyphs) {
		return
	}
	t.calls++
	g := t.glyphs[c.Mesh]
	style := tcell.StyleDefault.Foreground(g.Color)

	center := c.Model.Col(3)
	sx := c.Model.Col(0).Vec3().Len()
	sy := c.Model.Col(1).Vec3().Len()
	hx := float64(g.Extent.X() * sx)
	hy := float64(g.Extent.Y() * sy)

	x0, y0 := t.project(float64(center.X())-hx, float64(center.Y())+hy)
	x1, y1 := t.project(float64(center.X())+hx, float64(center.Y())-hy)
	w, h := t.screen.Size()
	step := runeCells(g.Rune)
	last := min(x1, w-1)
	for y := max(y0, 0); y <= min(y1, h-1); y++ {
		for x := max(x0, 0); x+step-1 <= last; x += step {
			t.screen.SetContent(x, y, g.Rune, nil, style)
		}
	}
}

func (t *Terminal) project(wx, wy float64) (int, int) {
	w, h := t.screen.Size()
	cam := t.view.CameraPos
	col := float64(w)/2 + (wx-float64(cam.X()))*t.cellsPerUnit
	row := float64(h)/2 - (wy-float64(cam.Y()))*t.cellsPerUnit/2
	return int(math.Round(col)), int(math.Round(row))
}

func (t *Terminal) Present() error {
	if t.showHUD && t.status != "" {
		drawText(t.screen, 0, 0, t.status, tcell.StyleDefault.Reverse(true))
	}
	t.screen.Show()
	return nil
}

// drawText writes s from column x, giving wide runes two cells.
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		x += runeCells(r)
	}
	return x
}

func runeCells(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

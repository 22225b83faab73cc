package main

import (
	"fmt"
	"image/color"
	"math"

	"nerikeshi/internal/geom"
	"nerikeshi/internal/session"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	inkRune      = '•'
	dotRune      = '·'
	debrisRune   = '*'
	absorberRune = '@'
	eraserRune   = '○'
)

// Canvas maps the session world onto a grid of terminal cells. The whole
// world is always visible, so cells are not square in world units.
type Canvas struct {
	cols   int
	rows   int
	worldW float64
	worldH float64
}

func NewCanvas(worldW, worldH float64) *Canvas {
	return &Canvas{cols: 1, rows: 1, worldW: worldW, worldH: worldH}
}

func (c *Canvas) SetViewport(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c.cols = cols
	c.rows = rows
}

func (c *Canvas) Size() (int, int) {
	return c.cols, c.rows
}

// ToWorld returns the world position at the centre of a cell.
func (c *Canvas) ToWorld(col, row int) geom.Point {
	return geom.Pt(
		(float64(col)+0.5)*c.worldW/float64(c.cols),
		(float64(row)+0.5)*c.worldH/float64(c.rows),
	)
}

func (c *Canvas) ToCell(p geom.Point) (int, int) {
	col := int(math.Floor(p.X * float64(c.cols) / c.worldW))
	row := int(math.Floor(p.Y * float64(c.rows) / c.worldH))
	return col, row
}

func (c *Canvas) Render(snap session.Snapshot, cursorX, cursorY int, showCursor bool) []string {
	canvas := make([][]rune, c.rows)
	for i := range canvas {
		canvas[i] = make([]rune, c.cols)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	if snap.Preview != nil {
		c.drawPreview(canvas, snap)
	}
	for _, run := range snap.Runs {
		c.drawRun(canvas, run)
	}
	c.drawAbsorber(canvas, snap)
	for _, piece := range snap.Debris {
		c.set(canvas, piece.Pos, debrisRune)
	}
	if snap.Tool == session.Eraser {
		c.set(canvas, snap.Eraser.Center, eraserRune)
	}
	if showCursor && c.isValidPos(canvas, cursorX, cursorY) {
		canvas[cursorY][cursorX] = '█'
	}

	lines := make([]string, len(canvas))
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func (c *Canvas) drawPreview(canvas [][]rune, snap session.Snapshot) {
	b := snap.Preview.Bounds()
	for y := 0; y < c.rows && y < b.Dy(); y++ {
		for x := 0; x < c.cols && x < b.Dx(); x++ {
			a := snap.Preview.RGBAAt(b.Min.X+x, b.Min.Y+y).A
			switch {
			case a > 160:
				canvas[y][x] = '█'
			case a > 80:
				canvas[y][x] = '▒'
			case a > 20:
				canvas[y][x] = '░'
			}
		}
	}
}

func (c *Canvas) drawRun(canvas [][]rune, run []geom.Point) {
	if len(run) == 1 {
		c.set(canvas, run[0], dotRune)
		return
	}
	for i := 0; i < len(run)-1; i++ {
		fromX, fromY := c.ToCell(run[i])
		toX, toY := c.ToCell(run[i+1])
		c.drawLineSegment(canvas, fromX, fromY, toX, toY)
	}
}

func (c *Canvas) drawLineSegment(canvas [][]rune, fromX, fromY, toX, toY int) {
	dx := abs(toX - fromX)
	dy := -abs(toY - fromY)
	sx, sy := 1, 1
	if fromX > toX {
		sx = -1
	}
	if fromY > toY {
		sy = -1
	}
	err := dx + dy
	x, y := fromX, fromY
	for {
		if c.isValidPos(canvas, x, y) {
			canvas[y][x] = inkRune
		}
		if x == toX && y == toY {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func (c *Canvas) drawAbsorber(canvas [][]rune, snap session.Snapshot) {
	rx := snap.AbsorberRX * float64(c.cols) / c.worldW
	ry := snap.AbsorberRY * float64(c.rows) / c.worldH
	cx, cy := c.ToCell(snap.Absorber.Center)
	if rx < 0.5 || ry < 0.5 {
		c.set(canvas, snap.Absorber.Center, absorberRune)
		return
	}
	for y := cy - int(ry) - 1; y <= cy+int(ry)+1; y++ {
		for x := cx - int(rx) - 1; x <= cx+int(rx)+1; x++ {
			nx := float64(x-cx) / rx
			ny := float64(y-cy) / ry
			if nx*nx+ny*ny <= 1 && c.isValidPos(canvas, x, y) {
				canvas[y][x] = absorberRune
			}
		}
	}
}

func (c *Canvas) set(canvas [][]rune, p geom.Point, r rune) {
	x, y := c.ToCell(p)
	if c.isValidPos(canvas, x, y) {
		canvas[y][x] = r
	}
}

func (c *Canvas) isValidPos(canvas [][]rune, x, y int) bool {
	return y >= 0 && y < len(canvas) && x >= 0 && x < len(canvas[y])
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ExportToPNG draws the world at full resolution with a caption strip
// underneath showing the growth.
func (c *Canvas) ExportToPNG(filename string, sess *session.Session) error {
	snap := sess.Snapshot(0, 0)
	imageWidth := int(math.Ceil(c.worldW))
	imageHeight := int(math.Ceil(c.worldH + 2*charHeight))
	if imageWidth < 1 || imageHeight < 1 {
		return fmt.Errorf("nothing to export")
	}

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	if raster, ok := sess.Raster(); ok {
		dc.DrawImage(raster.Image(), 0, 0)
	}
	dc.SetRGB255(0x33, 0x33, 0x33)
	dc.SetLineWidth(3)
	for _, run := range snap.Runs {
		c.drawRunPNG(dc, run)
	}

	dc.SetRGB255(0xb0, 0xb0, 0xb0)
	for _, piece := range snap.Debris {
		c.drawPiecePNG(dc, piece.Pos, piece.Rotation, 6*piece.Scale)
	}

	dc.SetRGB255(0x8a, 0x9a, 0xa8)
	dc.DrawEllipse(snap.Absorber.Center.X, snap.Absorber.Center.Y, snap.AbsorberRX, snap.AbsorberRY)
	dc.Fill()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("failed to parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    12,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)
	dc.SetColor(color.Black)
	caption := fmt.Sprintf("%s  growth %d%%  absorbed %d  scale %.3f", sess.ID[:8], snap.Percent, snap.Absorbed, sess.Growth().Base())
	dc.DrawString(caption, charWidth, c.worldH+1.5*charHeight)

	return dc.SavePNG(filename)
}

func (c *Canvas) drawRunPNG(dc *gg.Context, run []geom.Point) {
	if len(run) == 1 {
		dc.DrawCircle(run[0].X, run[0].Y, 1.5)
		dc.Fill()
		return
	}
	dc.MoveTo(run[0].X, run[0].Y)
	for _, p := range run[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
}

func (c *Canvas) drawPiecePNG(dc *gg.Context, pos geom.Point, rotation, size float64) {
	dc.Push()
	dc.RotateAbout(rotation, pos.X, pos.Y)
	dc.DrawRectangle(pos.X-size/2, pos.Y-size/4, size, size/2)
	dc.Fill()
	dc.Pop()
}

package main

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"nerikeshi/internal/session"
	"nerikeshi/internal/surface"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCanvas(t *testing.T, kind surface.Kind) (*Canvas, *session.Session) {
	t.Helper()
	opts := session.DefaultOptions()
	opts.Backend = kind
	opts.Width = 1280
	opts.Height = 720
	opts.Seed = 1
	opts.Surface.Stroke.GapThreshold = 32
	c := NewCanvas(opts.Width, opts.Height)
	c.SetViewport(128, 72)
	return c, session.New(opts)
}

func drawRow(c *Canvas, s *session.Session, row, fromCol, toCol int) {
	s.SetTool(session.Pencil)
	s.PointerDown(c.ToWorld(fromCol, row))
	for col := fromCol + 1; col <= toCol; col++ {
		s.PointerMove(c.ToWorld(col, row))
	}
	s.PointerUp()
}

func TestCellMapping(t *testing.T) {
	c := NewCanvas(1280, 720)
	c.SetViewport(128, 72)
	p := c.ToWorld(10, 5)
	assert.Equal(t, 105.0, p.X)
	assert.Equal(t, 55.0, p.Y)
	col, row := c.ToCell(p)
	assert.Equal(t, 10, col)
	assert.Equal(t, 5, row)

	c.SetViewport(0, -3)
	cols, rows := c.Size()
	assert.Equal(t, 1, cols)
	assert.Equal(t, 1, rows)
}

func TestRenderVectorInk(t *testing.T) {
	c, s := newTestCanvas(t, surface.Vector)
	drawRow(c, s, 10, 10, 50)

	lines := c.Render(s.Snapshot(128, 72), 0, 0, true)
	require.Len(t, lines, 72)
	for _, line := range lines {
		assert.Equal(t, 128, utf8.RuneCountInString(line))
	}
	row := []rune(lines[10])
	for col := 10; col <= 50; col++ {
		assert.Equal(t, inkRune, row[col], "col %d", col)
	}
	assert.Equal(t, '█', []rune(lines[0])[0])
	assert.Contains(t, strings.Join(lines, "\n"), string(absorberRune))
}

func TestRenderRasterPreview(t *testing.T) {
	c, s := newTestCanvas(t, surface.Raster)
	for row := 20; row <= 21; row++ {
		drawRow(c, s, row, 10, 100)
	}
	lines := c.Render(s.Snapshot(128, 72), -1, -1, false)
	require.Len(t, lines, 72)
	assert.Contains(t, lines[20], "█")
	assert.Contains(t, lines[21], "█")
}

func TestRenderErasedGapAndDebris(t *testing.T) {
	c, s := newTestCanvas(t, surface.Vector)
	drawRow(c, s, 40, 10, 100)

	s.SetTool(session.Eraser)
	s.PointerDown(c.ToWorld(55, 40))
	s.PointerUp()
	s.SetTool(session.NeriKeshi)

	snap := s.Snapshot(128, 72)
	require.NotEmpty(t, snap.Debris)
	require.Len(t, snap.Runs, 2)

	lines := c.Render(snap, -1, -1, false)
	row := []rune(lines[40])
	assert.NotEqual(t, inkRune, row[55])
	assert.Contains(t, strings.Join(lines, "\n"), string(debrisRune))
}

func TestExportToPNG(t *testing.T) {
	c, s := newTestCanvas(t, surface.Vector)
	drawRow(c, s, 10, 10, 50)

	path := filepath.Join(t.TempDir(), "snap.png")
	require.NoError(t, c.ExportToPNG(path, s))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 1280, img.Bounds().Dx())
	assert.Equal(t, 720+32, img.Bounds().Dy())
}

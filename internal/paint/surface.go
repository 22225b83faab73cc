// Package paint is the raster drawing backend: brush stamps accumulate on a
// pixel buffer, and a capped list of ink samples stands in for the buffer
// when answering erase hit-tests.
package paint

import (
	"image"
	"image/color"
	"io"

	"nerikeshi/internal/geom"
	"nerikeshi/internal/logx"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

type Options struct {
	Width        int
	Height       int
	BrushRadius  float64
	Color        color.Color
	Opacity      float64
	MaxSamples   int
	SafetyFactor float64
	EraserSize   float64
}

func DefaultOptions() Options {
	return Options{
		Width:        1920,
		Height:       1080,
		BrushRadius:  1.5,
		Color:        color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		Opacity:      1,
		MaxSamples:   1000,
		SafetyFactor: 1.2,
		EraserSize:   20,
	}
}

type Surface struct {
	dc      *gg.Context
	opts    Options
	brush   *Nib
	eraser  *Nib
	ink     *image.Uniform
	samples []geom.Point
	last    geom.Point
	drawing bool
}

func New(opts Options) *Surface {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.BrushRadius <= 0 {
		opts.BrushRadius = def.BrushRadius
	}
	if opts.Color == nil {
		opts.Color = def.Color
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = def.Opacity
	}
	if opts.MaxSamples <= 0 {
		opts.MaxSamples = def.MaxSamples
	}
	if opts.SafetyFactor < 1 {
		opts.SafetyFactor = def.SafetyFactor
	}
	if opts.EraserSize <= 0 {
		opts.EraserSize = def.EraserSize
	}

	s := &Surface{
		dc:      gg.NewContext(opts.Width, opts.Height),
		opts:    opts,
		brush:   NewNib(opts.BrushRadius),
		eraser:  NewNib(EraserRadius(opts.EraserSize)),
		samples: make([]geom.Point, 0, opts.MaxSamples),
	}
	s.SetStyle(opts.BrushRadius, opts.Color, opts.Opacity)
	return s
}

// SetStyle changes the brush radius, color and opacity for later stamps.
func (s *Surface) SetStyle(radius float64, c color.Color, opacity float64) {
	if radius > 0 && radius != s.brush.Radius {
		s.brush = NewNib(radius)
	}
	s.opts.BrushRadius = s.brush.Radius
	s.opts.Color = c
	s.opts.Opacity = geom.Clamp01(opacity)

	r, g, b, a := c.RGBA()
	k := s.opts.Opacity
	s.ink = image.NewUniform(color.RGBA64{
		R: uint16(float64(r) * k),
		G: uint16(float64(g) * k),
		B: uint16(float64(b) * k),
		A: uint16(float64(a) * k),
	})
}

// SetEraserRadius rebuilds the eraser nib when the radius changes.
func (s *Surface) SetEraserRadius(radius float64) {
	if radius <= 0 || radius == s.eraser.Radius {
		return
	}
	s.eraser = NewNib(radius)
}

func (s *Surface) EraserRadius() float64 {
	return s.eraser.Radius
}

// StampAt composites one brush stamp at p and records p as an ink sample.
func (s *Surface) StampAt(p geom.Point) {
	xdraw.DrawMask(s.rgba(), s.brush.Rect(p.X, p.Y), s.ink, image.Point{}, s.brush.Mask(), image.Point{}, xdraw.Over)
	s.samples = append(s.samples, p)
	if over := len(s.samples) - s.opts.MaxSamples; over > 0 {
		s.samples = s.samples[over:]
	}
	s.last = p
}

// StartStroke stamps at p and makes it the origin for DrawTo.
func (s *Surface) StartStroke(p geom.Point) {
	s.drawing = true
	s.StampAt(p)
}

// DrawTo stamps along the segment from the last stamp to p so that fast
// strokes stay continuous. Without a started stroke it stamps only p.
func (s *Surface) DrawTo(p geom.Point) bool {
	if !s.drawing {
		s.StartStroke(p)
		return true
	}
	for _, q := range geom.Interpolate(s.last, p, s.brush.Radius/4) {
		s.StampAt(q)
	}
	return true
}

// Seal ends the current stroke; the next DrawTo starts fresh.
func (s *Surface) Seal() {
	s.drawing = false
}

// EraseCircleAt punches a transparent hole of radius at center, then drops
// every ink sample within radius*SafetyFactor. Only the first matching
// sample is reported as the contact even when several are removed. A radius
// other than the eraser nib's builds a one-off nib.
func (s *Surface) EraseCircleAt(center geom.Point, radius float64) (geom.Point, bool) {
	if radius <= 0 {
		return geom.Point{}, false
	}
	nib := s.eraser
	if radius != nib.Radius {
		nib = NewNib(radius)
	}
	nib.Punch(s.rgba(), center.X, center.Y)

	safe := radius * s.opts.SafetyFactor
	safe2 := safe * safe
	var (
		contact geom.Point
		hit     bool
	)
	kept := s.samples[:0]
	for _, p := range s.samples {
		if geom.DistSq(center, p) <= safe2 {
			if !hit {
				contact = p
				hit = true
			}
			continue
		}
		kept = append(kept, p)
	}
	s.samples = kept
	if hit {
		logx.Logger().Debug("raster erase", "x", center.X, "y", center.Y, "radius", radius, "samples", len(s.samples))
	}
	return contact, hit
}

// Clear wipes the buffer and forgets every ink sample.
func (s *Surface) Clear() {
	rgba := s.rgba()
	xdraw.Draw(rgba, rgba.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
	s.samples = s.samples[:0]
	s.drawing = false
}

// Samples returns a copy of the live ink samples, oldest first.
func (s *Surface) Samples() []geom.Point {
	out := make([]geom.Point, len(s.samples))
	copy(out, s.samples)
	return out
}

func (s *Surface) Image() image.Image {
	return s.dc.Image()
}

// AlphaAt returns the buffer's alpha at pixel (x, y); 0 outside the buffer.
func (s *Surface) AlphaAt(x, y int) uint8 {
	rgba := s.rgba()
	if !(image.Point{X: x, Y: y}).In(rgba.Bounds()) {
		return 0
	}
	return rgba.RGBAAt(x, y).A
}

// Preview downsamples the buffer to cols x rows for coarse displays.
func (s *Surface) Preview(cols, rows int) *image.RGBA {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	src := s.dc.Image()
	xdraw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

func (s *Surface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

func (s *Surface) Width() int  { return s.opts.Width }
func (s *Surface) Height() int { return s.opts.Height }

// MemoryUsage is the size of the RGBA buffer in bytes.
func (s *Surface) MemoryUsage() int {
	return s.opts.Width * s.opts.Height * 4
}

func (s *Surface) rgba() *image.RGBA {
	return s.dc.Image().(*image.RGBA)
}

package paint

import (
	"image"
	"math"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Nib is a circular alpha mask used as a stamp. Nibs are built once and
// owned by the surface that composites them.
type Nib struct {
	Radius float64
	size   int
	mask   *image.Alpha
	hole   *image.Alpha
	under  *image.RGBA
}

func NewNib(radius float64) *Nib {
	if radius < 0 {
		radius = 0
	}
	size := int(math.Ceil(radius*2)) + 2
	dc := gg.NewContext(size, size)
	dc.SetRGBA(0, 0, 0, 1)
	dc.DrawCircle(float64(size)/2, float64(size)/2, radius)
	dc.Fill()
	mask := dc.AsMask()
	hole := image.NewAlpha(mask.Bounds())
	for i, a := range mask.Pix {
		hole.Pix[i] = 0xff - a
	}
	return &Nib{
		Radius: radius,
		size:   size,
		mask:   mask,
		hole:   hole,
		under:  image.NewRGBA(image.Rect(0, 0, size, size)),
	}
}

// Rect returns the destination rectangle for a stamp centered on (x, y).
func (n *Nib) Rect(x, y float64) image.Rectangle {
	half := float64(n.size) / 2
	x0 := int(math.Round(x - half))
	y0 := int(math.Round(y - half))
	return image.Rect(x0, y0, x0+n.size, y0+n.size)
}

func (n *Nib) Mask() *image.Alpha {
	return n.mask
}

// Punch clears the circle centered on (x, y) in dst and leaves the pixels
// outside it as they were. Edge pixels keep the uncovered share of their
// alpha.
func (n *Nib) Punch(dst *image.RGBA, x, y float64) {
	r := n.Rect(x, y)
	xdraw.Draw(n.under, n.under.Bounds(), image.Transparent, image.Point{}, xdraw.Src)
	xdraw.Draw(n.under, n.under.Bounds(), dst, r.Min, xdraw.Src)
	xdraw.DrawMask(dst, r, n.under, image.Point{}, n.hole, image.Point{}, xdraw.Src)
}

// EraserRadius maps an eraser size to the radius used both for the hole and
// for hit-testing, never smaller than 15.
func EraserRadius(size float64) float64 {
	return math.Max(15, math.Floor(size*0.75))
}

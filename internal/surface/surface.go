// Package surface puts the vector and raster drawing backends behind one
// draw/erase/clear contract, chosen once at construction.
package surface

import (
	"fmt"
	"strings"

	"nerikeshi/internal/geom"
	"nerikeshi/internal/paint"
	"nerikeshi/internal/stroke"
)

// Surface is what the erase coordinator drives.
type Surface interface {
	StartStroke(p geom.Point)
	DrawTo(p geom.Point) bool
	Seal()
	// EraseAt removes ink within radius of center and reports the contact
	// point for debris, if any ink was touched.
	EraseAt(center geom.Point, radius float64) (geom.Point, bool)
	Clear()
}

type Kind int

const (
	Vector Kind = iota
	Raster
)

func (k Kind) String() string {
	switch k {
	case Vector:
		return "vector"
	case Raster:
		return "raster"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "vector", "stroke", "strokes":
		return Vector, nil
	case "raster", "paint", "bitmap":
		return Raster, nil
	}
	return Vector, fmt.Errorf("unknown backend %q", s)
}

type Options struct {
	Stroke stroke.Options
	Paint  paint.Options
}

func DefaultOptions() Options {
	return Options{
		Stroke: stroke.DefaultOptions(),
		Paint:  paint.DefaultOptions(),
	}
}

// New builds the backend for kind.
func New(kind Kind, opts Options) Surface {
	if kind == Raster {
		return &RasterSurface{Surface: paint.New(opts.Paint)}
	}
	return &VectorSurface{Store: stroke.NewStore(opts.Stroke)}
}

// VectorSurface adapts a stroke store.
type VectorSurface struct {
	*stroke.Store
}

func (v *VectorSurface) DrawTo(p geom.Point) bool {
	return v.AppendToActive(p)
}

func (v *VectorSurface) EraseAt(center geom.Point, radius float64) (geom.Point, bool) {
	return v.EraseContact(center, radius)
}

// RasterSurface adapts a paint surface.
type RasterSurface struct {
	*paint.Surface
}

func (r *RasterSurface) EraseAt(center geom.Point, radius float64) (geom.Point, bool) {
	return r.EraseCircleAt(center, radius)
}

// Package session wires one drawing surface, its erase coordinator, the
// debris field and the growth accumulator together and fixes the order in
// which they run each frame.
package session

import (
	"image"
	"image/color"
	"math/rand/v2"

	"nerikeshi/internal/debris"
	"nerikeshi/internal/erase"
	"nerikeshi/internal/geom"
	"nerikeshi/internal/growth"
	"nerikeshi/internal/logx"
	"nerikeshi/internal/paint"
	"nerikeshi/internal/stroke"
	"nerikeshi/internal/surface"

	"github.com/google/uuid"
)

// Tool is what the pointer currently does.
type Tool int

const (
	Eraser Tool = iota
	NeriKeshi
	Pencil
)

var toolNames = map[Tool]string{
	Eraser:    "eraser",
	NeriKeshi: "nerikeshi",
	Pencil:    "pencil",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return "unknown"
}

// Next returns the tool after t in the cycle eraser, nerikeshi, pencil.
func (t Tool) Next() Tool {
	switch t {
	case Eraser:
		return NeriKeshi
	case NeriKeshi:
		return Pencil
	default:
		return Eraser
	}
}

type Options struct {
	Backend        surface.Kind
	Surface        surface.Options
	Erase          erase.Options
	Debris         debris.Options
	Growth         growth.Options
	Width          float64
	Height         float64
	AbsorberRadius float64 // at scale 1
	AbsorberStart  geom.Point
	Seed           uint64 // zero picks a random seed
}

func DefaultOptions() Options {
	return Options{
		Backend:        surface.Vector,
		Surface:        surface.DefaultOptions(),
		Erase:          erase.DefaultOptions(),
		Debris:         debris.DefaultOptions(),
		Growth:         growth.DefaultOptions(),
		Width:          1920,
		Height:         1080,
		AbsorberRadius: 24,
		AbsorberStart:  geom.Pt(400, 300),
	}
}

type handler struct {
	down func(p geom.Point)
	move func(p geom.Point)
	up   func()
}

type Session struct {
	ID string

	opts     Options
	surf     surface.Surface
	coord    *erase.Coordinator
	spawner  *debris.Spawner
	field    *debris.Field
	growth   *growth.Accumulator
	tool     Tool
	handlers map[Tool]handler

	absorber geom.Point
	eraser   geom.Point
	down     bool
	hits     int
}

func New(opts Options) *Session {
	if opts.Width <= 0 || opts.Height <= 0 {
		def := DefaultOptions()
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.AbsorberRadius <= 0 {
		opts.AbsorberRadius = DefaultOptions().AbsorberRadius
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	if opts.Backend == surface.Raster {
		opts.Surface.Paint.Width = int(opts.Width)
		opts.Surface.Paint.Height = int(opts.Height)
	}

	s := &Session{
		ID:       uuid.NewString(),
		opts:     opts,
		surf:     surface.New(opts.Backend, opts.Surface),
		spawner:  debris.NewSpawner(rand.New(rand.NewPCG(seed, 1)), opts.Debris),
		field:    debris.NewField(geom.Point{}, geom.Pt(opts.Width, opts.Height), opts.Debris),
		growth:   growth.New(rand.New(rand.NewPCG(seed, 2)), opts.Growth),
		absorber: opts.AbsorberStart,
		eraser:   opts.AbsorberStart,
	}
	s.coord = erase.New(s.surf, opts.Erase)
	s.SetEraseRadius(s.coord.EraseRadius())
	s.handlers = map[Tool]handler{
		Eraser: {
			down: s.eraseDown,
			move: s.eraseMove,
			up:   s.coord.End,
		},
		NeriKeshi: {
			down: func(p geom.Point) { s.absorber = s.clampToWorld(p) },
			move: func(p geom.Point) { s.absorber = s.clampToWorld(p) },
			up:   func() {},
		},
		Pencil: {
			down: func(p geom.Point) { s.coord.Begin(p) },
			move: func(p geom.Point) { s.coord.Extend(p) },
			up:   s.coord.End,
		},
	}
	s.SetTool(Eraser)
	logx.Logger().Info("session started", "id", s.ID, "backend", opts.Backend.String(), "seed", seed)
	return s
}

func (s *Session) Tool() Tool { return s.tool }

// SetTool switches tools, ending any stroke or erase in progress.
func (s *Session) SetTool(t Tool) {
	if _, ok := s.handlers[t]; !ok {
		return
	}
	s.coord.End()
	s.down = false
	s.tool = t
	switch t {
	case Pencil:
		s.coord.SetMode(erase.Draw)
	case Eraser:
		s.coord.SetMode(erase.Erase)
	}
	logx.Logger().Debug("tool", "tool", t.String())
}

// CycleTool advances to the next tool and returns it.
func (s *Session) CycleTool() Tool {
	s.SetTool(s.tool.Next())
	return s.tool
}

func (s *Session) PointerDown(p geom.Point) {
	s.down = true
	s.handlers[s.tool].down(p)
}

// PointerMove only acts while the pointer is down.
func (s *Session) PointerMove(p geom.Point) {
	if !s.down {
		return
	}
	s.handlers[s.tool].move(p)
}

func (s *Session) PointerUp() {
	if !s.down {
		return
	}
	s.down = false
	s.handlers[s.tool].up()
}

func (s *Session) Down() bool { return s.down }

func (s *Session) eraseDown(p geom.Point) {
	s.eraser = p
	s.handleResult(s.coord.Begin(p))
}

func (s *Session) eraseMove(p geom.Point) {
	s.eraser = p
	s.handleResult(s.coord.Extend(p))
}

func (s *Session) handleResult(r erase.Result) {
	if !r.Hit {
		return
	}
	s.hits++
	s.field.Add(s.spawner.Spawn(r.Contact)...)
}

// Tick advances the debris and feeds whatever the absorber touches into
// the accumulator. Call it after the frame's input and before Snapshot.
func (s *Session) Tick(dt float64) int {
	s.field.Step(dt)
	n := s.field.Absorb(s.AbsorberCircle())
	for i := 0; i < n; i++ {
		s.growth.Absorb(1)
	}
	return n
}

// AbsorberCircle is the collision area of the kneaded eraser.
func (s *Session) AbsorberCircle() geom.Circle {
	return geom.Circle{Center: s.absorber, Radius: s.opts.AbsorberRadius * s.growth.Base()}
}

func (s *Session) EraserCircle() geom.Circle {
	return geom.Circle{Center: s.eraser, Radius: s.coord.EraseRadius()}
}

// SetEraseRadius changes the erase radius. On the raster backend the eraser
// nib is rebuilt to match so erasing never builds one per call.
func (s *Session) SetEraseRadius(r float64) {
	s.coord.SetEraseRadius(r)
	if raster, ok := s.Raster(); ok {
		raster.SetEraserRadius(s.coord.EraseRadius())
	}
}

// SetBrush restyles the raster nib. The vector backend has no style.
func (s *Session) SetBrush(radius float64, c color.Color, opacity float64) {
	if r, ok := s.Raster(); ok {
		r.SetStyle(radius, c, opacity)
	}
}

// Clear wipes the ink and debris. Growth is kept.
func (s *Session) Clear() {
	s.coord.End()
	s.down = false
	s.surf.Clear()
	s.field.Clear()
}

func (s *Session) Backend() surface.Kind { return s.opts.Backend }
func (s *Session) Width() float64        { return s.opts.Width }
func (s *Session) Height() float64       { return s.opts.Height }
func (s *Session) Growth() *growth.Accumulator {
	return s.growth
}

// Raster returns the paint surface when the session uses the raster backend.
func (s *Session) Raster() (*paint.Surface, bool) {
	r, ok := s.surf.(*surface.RasterSurface)
	if !ok {
		return nil, false
	}
	return r.Surface, true
}

// Strokes returns the stroke store when the session uses the vector backend.
func (s *Session) Strokes() (*stroke.Store, bool) {
	v, ok := s.surf.(*surface.VectorSurface)
	if !ok {
		return nil, false
	}
	return v.Store, true
}

// Snapshot is a read-only view of one frame. AbsorberRX and AbsorberRY are
// the displayed half-axes of the absorber, wobble included.
type Snapshot struct {
	Tool       Tool
	Backend    surface.Kind
	Runs       [][]geom.Point
	Preview    *image.RGBA
	Debris     []debris.Piece
	Absorber   geom.Circle
	AbsorberRX float64
	AbsorberRY float64
	Eraser     geom.Circle
	ScaleX     float64
	ScaleY     float64
	Ratio      float64
	Percent    int
	Absorbed   int
	Hits       int
}

// Snapshot collects what a renderer needs. For the raster backend the ink
// is downscaled to cols x rows; pass zero to skip the preview.
func (s *Session) Snapshot(cols, rows int) Snapshot {
	sx, sy := s.growth.Scale()
	snap := Snapshot{
		Tool:       s.tool,
		Backend:    s.opts.Backend,
		Debris:     s.field.Pieces(),
		Absorber:   s.AbsorberCircle(),
		AbsorberRX: s.opts.AbsorberRadius * sx,
		AbsorberRY: s.opts.AbsorberRadius * sy,
		Eraser:     s.EraserCircle(),
		ScaleX:     sx,
		ScaleY:     sy,
		Ratio:      s.growth.GrowthRatio(),
		Percent:    s.growth.Percent(),
		Absorbed:   s.growth.Absorbed(),
		Hits:       s.hits,
	}
	if store, ok := s.Strokes(); ok {
		snap.Runs = store.Runs()
	}
	if r, ok := s.Raster(); ok && cols > 0 && rows > 0 {
		snap.Preview = r.Preview(cols, rows)
	}
	return snap
}

func (s *Session) clampToWorld(p geom.Point) geom.Point {
	return geom.Pt(geom.Clamp(p.X, 0, s.opts.Width), geom.Clamp(p.Y, 0, s.opts.Height))
}

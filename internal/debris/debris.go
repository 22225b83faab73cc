// Package debris spawns eraser crumbs where erasing touches ink and moves
// them until the growth entity absorbs them.
package debris

import (
	"math"
	"math/rand/v2"

	"nerikeshi/internal/geom"
	"nerikeshi/internal/logx"
)

type Options struct {
	MaxOffset  float64 // distance from the contact point
	MaxSpeed   float64 // per velocity component, units/s
	MaxSpin    float64 // rad/s
	MinScale   float64
	MaxScale   float64
	Drag       float64 // linear deceleration, units/s^2
	Bounce     float64
	BaseRadius float64 // collision radius at scale 1
}

func DefaultOptions() Options {
	return Options{
		MaxOffset:  30,
		MaxSpeed:   15,
		MaxSpin:    math.Pi,
		MinScale:   0.8,
		MaxScale:   1.2,
		Drag:       20,
		Bounce:     0.2,
		BaseRadius: 6,
	}
}

type Piece struct {
	Pos      geom.Point
	Vel      geom.Point
	Rotation float64
	Spin     float64
	Scale    float64
}

// Spawner turns erase contacts into pieces.
type Spawner struct {
	rng  *rand.Rand
	opts Options
}

func NewSpawner(rng *rand.Rand, opts Options) *Spawner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	return &Spawner{rng: rng, opts: opts}
}

func (s *Spawner) Options() Options {
	return s.opts
}

// Spawn returns one or two pieces scattered around contact.
func (s *Spawner) Spawn(contact geom.Point) []Piece {
	n := 1 + s.rng.IntN(2)
	pieces := make([]Piece, 0, n)
	for i := 0; i < n; i++ {
		angle := s.rng.Float64() * 2 * math.Pi
		dist := s.opts.MaxOffset * math.Sqrt(s.rng.Float64())
		pieces = append(pieces, Piece{
			Pos: contact.Add(geom.Pt(math.Cos(angle)*dist, math.Sin(angle)*dist)),
			Vel: geom.Pt(
				s.between(-s.opts.MaxSpeed, s.opts.MaxSpeed),
				s.between(-s.opts.MaxSpeed, s.opts.MaxSpeed),
			),
			Rotation: s.rng.Float64() * 2 * math.Pi,
			Spin:     s.between(-s.opts.MaxSpin, s.opts.MaxSpin),
			Scale:    s.between(s.opts.MinScale, s.opts.MaxScale),
		})
	}
	return pieces
}

func (s *Spawner) between(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Field holds the live pieces inside a rectangular world.
type Field struct {
	pieces []Piece
	min    geom.Point
	max    geom.Point
	opts   Options
}

func NewField(min, max geom.Point, opts Options) *Field {
	return &Field{
		pieces: make([]Piece, 0),
		min:    min,
		max:    max,
		opts:   opts,
	}
}

func (f *Field) Add(pieces ...Piece) {
	f.pieces = append(f.pieces, pieces...)
}

func (f *Field) Len() int {
	return len(f.pieces)
}

// Pieces returns a copy of the live pieces.
func (f *Field) Pieces() []Piece {
	out := make([]Piece, len(f.pieces))
	copy(out, f.pieces)
	return out
}

func (f *Field) Radius(p Piece) float64 {
	return f.opts.BaseRadius * p.Scale
}

// Step advances every piece by dt seconds.
func (f *Field) Step(dt float64) {
	if dt <= 0 {
		return
	}
	for i := range f.pieces {
		p := &f.pieces[i]
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Rotation = math.Mod(p.Rotation+p.Spin*dt, 2*math.Pi)
		p.Vel = applyDrag(p.Vel, f.opts.Drag*dt)
		p.Spin = applyDrag1(p.Spin, f.opts.Drag*dt*0.1)
		f.bounce(p)
	}
}

func (f *Field) bounce(p *Piece) {
	if p.Pos.X < f.min.X {
		p.Pos.X = f.min.X
		p.Vel.X = -p.Vel.X * f.opts.Bounce
	} else if p.Pos.X > f.max.X {
		p.Pos.X = f.max.X
		p.Vel.X = -p.Vel.X * f.opts.Bounce
	}
	if p.Pos.Y < f.min.Y {
		p.Pos.Y = f.min.Y
		p.Vel.Y = -p.Vel.Y * f.opts.Bounce
	} else if p.Pos.Y > f.max.Y {
		p.Pos.Y = f.max.Y
		p.Vel.Y = -p.Vel.Y * f.opts.Bounce
	}
}

// Absorb removes every piece overlapping target and returns how many went.
func (f *Field) Absorb(target geom.Circle) int {
	kept := f.pieces[:0]
	n := 0
	for _, p := range f.pieces {
		if target.Overlaps(geom.Circle{Center: p.Pos, Radius: f.Radius(p)}) {
			n++
			continue
		}
		kept = append(kept, p)
	}
	f.pieces = kept
	if n > 0 {
		logx.Logger().Debug("debris absorbed", "count", n, "left", len(f.pieces))
	}
	return n
}

func (f *Field) Clear() {
	f.pieces = f.pieces[:0]
}

// applyDrag slows v by amount along its direction without reversing it.
func applyDrag(v geom.Point, amount float64) geom.Point {
	speed := math.Hypot(v.X, v.Y)
	if speed <= amount || speed == 0 {
		return geom.Point{}
	}
	return v.Scale((speed - amount) / speed)
}

func applyDrag1(v, amount float64) float64 {
	switch {
	case v > amount:
		return v - amount
	case v < -amount:
		return v + amount
	default:
		return 0
	}
}

// Package growth accumulates absorbed debris into the size of the kneaded
// eraser. The base scale only ever moves up and stays within bounds; the
// displayed scale adds a small wobble on top.
package growth

import (
	"math"
	"math/rand/v2"

	"nerikeshi/internal/geom"
	"nerikeshi/internal/logx"
)

type Options struct {
	MinScale   float64
	MaxScale   float64
	Increment  float64 // base growth per unit of strength
	PhaseStep  float64
	Wave       float64
	Jitter     float64 // relative, applied symmetrically
	MinAnchors int
	MaxAnchors int
	MinRadius  float64
	MaxRadius  float64
}

func DefaultOptions() Options {
	return Options{
		MinScale:   0.8,
		MaxScale:   8.0,
		Increment:  1e-5,
		PhaseStep:  0.001,
		Wave:       0.002,
		Jitter:     0.01,
		MinAnchors: 8,
		MaxAnchors: 10,
		MinRadius:  0.8,
		MaxRadius:  1.0,
	}
}

// Anchor is a point on the unit outline the wobble is computed from.
type Anchor = geom.Point

type Accumulator struct {
	opts     Options
	rng      *rand.Rand
	base     float64
	phase    float64
	anchors  []Anchor
	absorbed int
}

func New(rng *rand.Rand, opts Options) *Accumulator {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.MaxScale < opts.MinScale {
		opts.MaxScale = opts.MinScale
	}
	if opts.MinAnchors < 1 {
		opts.MinAnchors = 1
	}
	if opts.MaxAnchors < opts.MinAnchors {
		opts.MaxAnchors = opts.MinAnchors
	}
	return &Accumulator{
		opts: opts,
		rng:  rng,
		base: opts.MinScale,
	}
}

// Absorb grows the base scale by Increment x strength. Strength is clamped
// to [0, 1] so no input can shrink the accumulator.
func (a *Accumulator) Absorb(strength float64) {
	if a.anchors == nil {
		a.anchors = a.makeAnchors()
	}
	if math.IsNaN(strength) {
		strength = 0
	}
	a.base = geom.Clamp(a.base+a.opts.Increment*geom.Clamp01(strength), a.opts.MinScale, a.opts.MaxScale)
	a.phase += a.opts.PhaseStep
	a.absorbed++
	if a.absorbed%1000 == 0 {
		logx.Logger().Debug("growth", "absorbed", a.absorbed, "base", a.base, "ratio", a.GrowthRatio())
	}
}

func (a *Accumulator) makeAnchors() []Anchor {
	n := a.opts.MinAnchors + a.rng.IntN(a.opts.MaxAnchors-a.opts.MinAnchors+1)
	anchors := make([]Anchor, n)
	for i := range anchors {
		angle := 2 * math.Pi * float64(i) / float64(n)
		r := a.opts.MinRadius + a.rng.Float64()*(a.opts.MaxRadius-a.opts.MinRadius)
		anchors[i] = geom.Pt(math.Cos(angle)*r, math.Sin(angle)*r)
	}
	return anchors
}

// Scale returns the displayed x and y scale. Both are always within
// [MinScale, MaxScale].
func (a *Accumulator) Scale() (float64, float64) {
	sx, sy := a.base, a.base
	for _, p := range a.anchors {
		wave := math.Sin(a.phase+p.X*1.5) * a.opts.Wave
		sx += wave * p.X
		sy += wave * p.Y
	}
	sx = a.clamp(sx)
	sy = a.clamp(sy)
	if a.opts.Jitter > 0 && a.anchors != nil {
		sx *= 1 + (a.rng.Float64()*2-1)*a.opts.Jitter
		sy *= 1 + (a.rng.Float64()*2-1)*a.opts.Jitter
	}
	return a.clamp(sx), a.clamp(sy)
}

func (a *Accumulator) clamp(v float64) float64 {
	return geom.Clamp(v, a.opts.MinScale, a.opts.MaxScale)
}

// Base is the un-wobbled scale.
func (a *Accumulator) Base() float64 {
	return a.base
}

// GrowthRatio maps the base scale onto [0, 1].
func (a *Accumulator) GrowthRatio() float64 {
	span := a.opts.MaxScale - a.opts.MinScale
	if span <= 0 {
		return 0
	}
	return geom.Clamp01((a.base - a.opts.MinScale) / span)
}

// Percent is GrowthRatio rounded to a whole percentage.
func (a *Accumulator) Percent() int {
	return int(math.Round(a.GrowthRatio() * 100))
}

func (a *Accumulator) Absorbed() int {
	return a.absorbed
}

// Anchors returns a copy of the wobble anchors; nil before the first Absorb.
func (a *Accumulator) Anchors() []Anchor {
	if a.anchors == nil {
		return nil
	}
	out := make([]Anchor, len(a.anchors))
	copy(out, a.anchors)
	return out
}

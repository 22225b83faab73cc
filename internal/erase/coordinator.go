// Package erase turns raw pointer events into rate-limited stroke segments
// or erase queries against a drawing surface.
package erase

import (
	"nerikeshi/internal/geom"
	"nerikeshi/internal/logx"
	"nerikeshi/internal/surface"
)

// Mode is supplied by the host and selects what an interaction does.
type Mode int

const (
	Draw Mode = iota
	Erase
)

func (m Mode) String() string {
	if m == Erase {
		return "erase"
	}
	return "draw"
}

// State is the coordinator's interaction state.
type State int

const (
	Idle State = iota
	Drawing
	Erasing
)

func (s State) String() string {
	switch s {
	case Drawing:
		return "drawing"
	case Erasing:
		return "erasing"
	default:
		return "idle"
	}
}

const DefaultMinSegment = 2.0

type Options struct {
	MinSegment  float64
	EraseRadius float64
}

func DefaultOptions() Options {
	return Options{
		MinSegment:  DefaultMinSegment,
		EraseRadius: 15,
	}
}

// Result describes what one pointer event did. Hit is false for the common
// case of an erase that touched no ink.
type Result struct {
	Accepted bool
	Hit      bool
	Contact  geom.Point
}

type Coordinator struct {
	surf  surface.Surface
	opts  Options
	mode  Mode
	state State
	last  geom.Point
}

func New(surf surface.Surface, opts Options) *Coordinator {
	if opts.MinSegment < 0 {
		opts.MinSegment = 0
	}
	if opts.EraseRadius <= 0 {
		opts.EraseRadius = DefaultOptions().EraseRadius
	}
	return &Coordinator{
		surf: surf,
		opts: opts,
	}
}

// SetMode switches between drawing and erasing. An interaction in progress
// is ended first.
func (c *Coordinator) SetMode(m Mode) {
	if m == c.mode {
		return
	}
	c.End()
	c.mode = m
}

func (c *Coordinator) Mode() Mode   { return c.mode }
func (c *Coordinator) State() State { return c.state }

func (c *Coordinator) SetEraseRadius(r float64) {
	if r > 0 {
		c.opts.EraseRadius = r
	}
}

func (c *Coordinator) EraseRadius() float64 {
	return c.opts.EraseRadius
}

// Begin starts an interaction at p. It does nothing while one is active.
func (c *Coordinator) Begin(p geom.Point) Result {
	if c.state != Idle {
		return Result{}
	}
	c.last = p
	switch c.mode {
	case Erase:
		c.state = Erasing
		return c.erase(p)
	default:
		c.state = Drawing
		c.surf.StartStroke(p)
		logx.Logger().Debug("draw begin", "x", p.X, "y", p.Y)
		return Result{Accepted: true}
	}
}

// Extend continues the interaction. Moves shorter than MinSegment from the
// last accepted point are dropped, which bounds the point rate regardless
// of how often the input device samples.
func (c *Coordinator) Extend(p geom.Point) Result {
	if c.state == Idle {
		return Result{}
	}
	if geom.Dist(c.last, p) < c.opts.MinSegment {
		return Result{}
	}
	c.last = p
	if c.state == Erasing {
		return c.erase(p)
	}
	c.surf.DrawTo(p)
	return Result{Accepted: true}
}

// End seals the interaction. Always safe, including when idle.
func (c *Coordinator) End() {
	if c.state == Idle {
		return
	}
	if c.state == Drawing {
		c.surf.Seal()
	}
	logx.Logger().Debug("interaction end", "state", c.state.String())
	c.state = Idle
}

func (c *Coordinator) erase(p geom.Point) Result {
	contact, hit := c.surf.EraseAt(p, c.opts.EraseRadius)
	return Result{Accepted: true, Hit: hit, Contact: contact}
}

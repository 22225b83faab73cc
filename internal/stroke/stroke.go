// Package stroke keeps freehand strokes as ordered point lists and answers
// point-radius erase queries against them.
package stroke

import (
	"nerikeshi/internal/geom"
	"nerikeshi/internal/logx"

	"github.com/google/uuid"
)

const (
	DefaultMinSegment = 2.0
	// DefaultInkSpacing is the distance between hit-test samples along a
	// line; gaps wider than four spacings are drawn as breaks.
	DefaultInkSpacing = 4.0
)

type Options struct {
	MinSegment   float64
	GapThreshold float64
}

func DefaultOptions() Options {
	return Options{
		MinSegment:   DefaultMinSegment,
		GapThreshold: DefaultInkSpacing * 4,
	}
}

// Stroke is the point sequence of one pointer-down interval.
type Stroke struct {
	ID     string
	Points []geom.Point
}

// Store is an ordered list of strokes in paint order. When a stroke is
// active it is always the last element.
type Store struct {
	strokes []*Stroke
	active  bool
	opts    Options
}

func NewStore(opts Options) *Store {
	if opts.MinSegment < 0 {
		opts.MinSegment = 0
	}
	if opts.GapThreshold <= 0 {
		opts.GapThreshold = DefaultInkSpacing * 4
	}
	return &Store{
		strokes: make([]*Stroke, 0),
		opts:    opts,
	}
}

// StartStroke seals any active stroke and begins a new one at p.
func (s *Store) StartStroke(p geom.Point) {
	s.Seal()
	st := &Stroke{
		ID:     uuid.NewString(),
		Points: []geom.Point{p},
	}
	s.strokes = append(s.strokes, st)
	s.active = true
	logx.Logger().Debug("stroke started", "id", st.ID, "x", p.X, "y", p.Y)
}

// AppendToActive adds p to the active stroke when it is at least
// MinSegment away from the stroke's last point.
func (s *Store) AppendToActive(p geom.Point) bool {
	st := s.activeStroke()
	if st == nil {
		return false
	}
	if n := len(st.Points); n > 0 && geom.Dist(st.Points[n-1], p) < s.opts.MinSegment {
		return false
	}
	st.Points = append(st.Points, p)
	return true
}

// Seal ends the active stroke. Safe to call with nothing active.
func (s *Store) Seal() {
	if !s.active {
		return
	}
	s.active = false
	if st := s.strokes[len(s.strokes)-1]; len(st.Points) == 0 {
		s.strokes = s.strokes[:len(s.strokes)-1]
	}
}

func (s *Store) Active() bool {
	return s.active
}

// EraseAt removes every point within radius of center from every stroke and
// reports whether anything was removed.
func (s *Store) EraseAt(center geom.Point, radius float64) bool {
	_, hit := s.EraseContact(center, radius)
	return hit
}

// EraseContact behaves like EraseAt and also returns the first removed
// point in paint order.
func (s *Store) EraseContact(center geom.Point, radius float64) (geom.Point, bool) {
	if radius < 0 || len(s.strokes) == 0 {
		return geom.Point{}, false
	}
	var (
		contact geom.Point
		hit     bool
		removed int
	)
	r2 := radius * radius
	for _, st := range s.strokes {
		kept := st.Points[:0]
		for _, p := range st.Points {
			if geom.DistSq(center, p) <= r2 {
				if !hit {
					contact = p
					hit = true
				}
				removed++
				continue
			}
			kept = append(kept, p)
		}
		st.Points = kept
	}
	if !hit {
		return geom.Point{}, false
	}
	s.dropEmpty()
	logx.Logger().Debug("stroke erase", "x", center.X, "y", center.Y, "radius", radius, "removed", removed)
	return contact, true
}

// dropEmpty removes emptied strokes, keeping relative order. The active
// stroke stays in place even when empty so later appends still land in it.
func (s *Store) dropEmpty() {
	last := len(s.strokes) - 1
	kept := s.strokes[:0]
	for i, st := range s.strokes {
		if len(st.Points) == 0 && !(s.active && i == last) {
			continue
		}
		kept = append(kept, st)
	}
	for i := len(kept); i < len(s.strokes); i++ {
		s.strokes[i] = nil
	}
	s.strokes = kept
}

// Clear empties the store, including any active stroke.
func (s *Store) Clear() {
	s.strokes = make([]*Stroke, 0)
	s.active = false
}

// Strokes returns a copy of every stroke in paint order.
func (s *Store) Strokes() []Stroke {
	out := make([]Stroke, 0, len(s.strokes))
	for _, st := range s.strokes {
		pts := make([]geom.Point, len(st.Points))
		copy(pts, st.Points)
		out = append(out, Stroke{ID: st.ID, Points: pts})
	}
	return out
}

func (s *Store) Len() int {
	return len(s.strokes)
}

func (s *Store) PointCount() int {
	n := 0
	for _, st := range s.strokes {
		n += len(st.Points)
	}
	return n
}

// Runs splits every drawable stroke wherever two consecutive points are
// farther apart than GapThreshold. Runs are disjoint: a renderer must never
// join the last point of one run to the first point of the next.
func (s *Store) Runs() [][]geom.Point {
	var runs [][]geom.Point
	for _, st := range s.strokes {
		if len(st.Points) < 2 {
			continue
		}
		cur := []geom.Point{st.Points[0]}
		for i := 1; i < len(st.Points); i++ {
			a, b := st.Points[i-1], st.Points[i]
			if geom.Dist(a, b) > s.opts.GapThreshold {
				runs = append(runs, cur)
				cur = []geom.Point{b}
				continue
			}
			cur = append(cur, b)
		}
		runs = append(runs, cur)
	}
	return runs
}

// Paths returns the polylines to draw: the runs with at least two points.
func (s *Store) Paths() [][]geom.Point {
	var paths [][]geom.Point
	for _, run := range s.Runs() {
		if len(run) >= 2 {
			paths = append(paths, run)
		}
	}
	return paths
}

func (s *Store) activeStroke() *Stroke {
	if !s.active || len(s.strokes) == 0 {
		return nil
	}
	return s.strokes[len(s.strokes)-1]
}

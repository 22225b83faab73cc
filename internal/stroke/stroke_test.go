package stroke

import (
	"math/rand/v2"
	"testing"

	"nerikeshi/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(s *Store, pts ...geom.Point) {
	s.StartStroke(pts[0])
	for _, p := range pts[1:] {
		s.AppendToActive(p)
	}
	s.Seal()
}

func TestStartStroke(t *testing.T) {
	s := NewStore(DefaultOptions())
	s.StartStroke(geom.Pt(1, 1))
	require.Equal(t, 1, s.Len())
	assert.True(t, s.Active())

	strokes := s.Strokes()
	assert.NotEmpty(t, strokes[0].ID)
	assert.Equal(t, []geom.Point{geom.Pt(1, 1)}, strokes[0].Points)

	// A single point renders nothing.
	assert.Empty(t, s.Paths())

	s.StartStroke(geom.Pt(5, 5))
	require.Equal(t, 2, s.Len())
	assert.NotEqual(t, s.Strokes()[0].ID, s.Strokes()[1].ID)
}

func TestAppendToActiveThreshold(t *testing.T) {
	s := NewStore(DefaultOptions())
	assert.False(t, s.AppendToActive(geom.Pt(10, 10)), "no active stroke")

	s.StartStroke(geom.Pt(0, 0))
	assert.False(t, s.AppendToActive(geom.Pt(1, 0)))
	assert.True(t, s.AppendToActive(geom.Pt(2, 0)))
	assert.False(t, s.AppendToActive(geom.Pt(3.5, 0)))
	assert.True(t, s.AppendToActive(geom.Pt(4, 0)))

	s.Seal()
	assert.False(t, s.Active())
	assert.False(t, s.AppendToActive(geom.Pt(50, 0)))
	assert.Equal(t, 3, s.PointCount())
}

func TestAppendCountProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	s := NewStore(DefaultOptions())
	last := geom.Pt(100, 100)
	s.StartStroke(last)
	accepted := 0
	for i := 0; i < 2000; i++ {
		p := last.Add(geom.Pt(rng.Float64()*6-3, rng.Float64()*6-3))
		want := geom.Dist(last, p) >= DefaultMinSegment
		got := s.AppendToActive(p)
		require.Equal(t, want, got)
		if got {
			accepted++
			last = p
		}
	}
	assert.Equal(t, accepted+1, len(s.Strokes()[0].Points))
}

func TestEraseSoundAndExhaustive(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	s := NewStore(Options{MinSegment: 0})
	for k := 0; k < 10; k++ {
		s.StartStroke(geom.Pt(rng.Float64()*200, rng.Float64()*200))
		for i := 0; i < 50; i++ {
			s.AppendToActive(geom.Pt(rng.Float64()*200, rng.Float64()*200))
		}
		s.Seal()
	}
	before := s.Strokes()
	center := geom.Pt(100, 100)
	radius := 40.0
	s.EraseAt(center, radius)

	var survivors []geom.Point
	for _, st := range s.Strokes() {
		survivors = append(survivors, st.Points...)
	}
	for _, p := range survivors {
		assert.Greater(t, geom.Dist(center, p), radius)
	}
	var outside []geom.Point
	for _, st := range before {
		for _, p := range st.Points {
			if geom.Dist(center, p) > radius {
				outside = append(outside, p)
			}
		}
	}
	assert.Equal(t, outside, survivors, "erase must keep every outside point in order")
}

func TestEraseIdempotent(t *testing.T) {
	s := NewStore(DefaultOptions())
	line(s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0), geom.Pt(30, 0))

	assert.True(t, s.EraseAt(geom.Pt(15, 0), 6))
	after := s.Strokes()
	assert.False(t, s.EraseAt(geom.Pt(15, 0), 6))
	assert.Equal(t, after, s.Strokes())
}

func TestEraseContactIsFirstInPaintOrder(t *testing.T) {
	s := NewStore(DefaultOptions())
	line(s, geom.Pt(0, 0), geom.Pt(4, 0))
	line(s, geom.Pt(2, 1), geom.Pt(2, 5))

	c, ok := s.EraseContact(geom.Pt(2, 0), 3)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(0, 0), c)

	_, ok = s.EraseContact(geom.Pt(500, 500), 3)
	assert.False(t, ok)
}

func TestEraseMiddleLeavesDisjointRuns(t *testing.T) {
	s := NewStore(DefaultOptions())
	line(s, geom.Pt(0, 0), geom.Pt(10, 0), geom.Pt(20, 0))
	require.Len(t, s.Paths(), 1)

	assert.True(t, s.EraseAt(geom.Pt(10, 0), 5))
	assert.Equal(t, []geom.Point{geom.Pt(0, 0), geom.Pt(20, 0)}, s.Strokes()[0].Points)

	runs := s.Runs()
	require.Len(t, runs, 2)
	assert.Equal(t, []geom.Point{geom.Pt(0, 0)}, runs[0])
	assert.Equal(t, []geom.Point{geom.Pt(20, 0)}, runs[1])
	assert.Empty(t, s.Paths(), "the surviving ends must not be joined")
}

func TestEraseDropsEmptiedStrokes(t *testing.T) {
	s := NewStore(DefaultOptions())
	line(s, geom.Pt(0, 0), geom.Pt(3, 0))
	line(s, geom.Pt(100, 0), geom.Pt(103, 0))
	line(s, geom.Pt(200, 0), geom.Pt(203, 0))

	assert.True(t, s.EraseAt(geom.Pt(101, 0), 5))
	strokes := s.Strokes()
	require.Len(t, strokes, 2)
	assert.Equal(t, geom.Pt(0, 0), strokes[0].Points[0])
	assert.Equal(t, geom.Pt(200, 0), strokes[1].Points[0])
}

func TestEraseKeepsActiveStrokeLast(t *testing.T) {
	s := NewStore(DefaultOptions())
	line(s, geom.Pt(0, 0), geom.Pt(3, 0))
	s.StartStroke(geom.Pt(50, 50))

	assert.True(t, s.EraseAt(geom.Pt(50, 50), 1))
	require.Equal(t, 2, s.Len())
	assert.True(t, s.AppendToActive(geom.Pt(60, 60)))
	assert.Equal(t, []geom.Point{geom.Pt(60, 60)}, s.Strokes()[1].Points)

	s.Seal()
	s.Seal()
	assert.False(t, s.Active())
}

func TestEmptyStoreIsTotal(t *testing.T) {
	s := NewStore(DefaultOptions())
	assert.False(t, s.EraseAt(geom.Pt(0, 0), 10))
	assert.False(t, s.EraseAt(geom.Pt(0, 0), -1))
	assert.Empty(t, s.Paths())
	assert.Empty(t, s.Runs())
	s.Seal()
	s.Clear()
	assert.Equal(t, 0, s.Len())
}

func TestClear(t *testing.T) {
	s := NewStore(DefaultOptions())
	line(s, geom.Pt(0, 0), geom.Pt(10, 0))
	s.StartStroke(geom.Pt(1, 1))
	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Active())
	assert.False(t, s.AppendToActive(geom.Pt(5, 5)))
}

package surface

import (
	"testing"

	"nerikeshi/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"":        Vector,
		"vector":  Vector,
		"Raster":  Raster,
		" paint ": Raster,
	} {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseKind("svg")
	assert.Error(t, err)
	assert.Equal(t, "raster", Raster.String())
}

func TestContractOnBothBackends(t *testing.T) {
	opts := DefaultOptions()
	opts.Paint.Width = 200
	opts.Paint.Height = 200

	for _, kind := range []Kind{Vector, Raster} {
		t.Run(kind.String(), func(t *testing.T) {
			s := New(kind, opts)

			s.StartStroke(geom.Pt(0, 100))
			for x := 5.0; x <= 100; x += 5 {
				assert.True(t, s.DrawTo(geom.Pt(x, 100)))
			}
			s.Seal()

			contact, hit := s.EraseAt(geom.Pt(50, 100), 15)
			require.True(t, hit)
			assert.LessOrEqual(t, geom.Dist(contact, geom.Pt(50, 100)), 15*1.2)

			_, hit = s.EraseAt(geom.Pt(50, 100), 15)
			assert.False(t, hit, "erase is idempotent")

			_, hit = s.EraseAt(geom.Pt(100, 100), 15)
			assert.True(t, hit)

			s.Clear()
			_, hit = s.EraseAt(geom.Pt(0, 100), 15)
			assert.False(t, hit)
		})
	}
}

func TestVectorDrawToSkipsShortSegments(t *testing.T) {
	s := New(Vector, DefaultOptions())
	assert.False(t, s.DrawTo(geom.Pt(1, 1)), "no active stroke")
	s.StartStroke(geom.Pt(0, 0))
	assert.False(t, s.DrawTo(geom.Pt(1, 0)))
	assert.True(t, s.DrawTo(geom.Pt(3, 0)))
}

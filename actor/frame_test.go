package actor

import (
	"testing"

	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestIdentityFrameTransformIsNoop(t *testing.T) {
	f := Identity()
	p := mgl64.Vec3{1, 2, 3}
	assert.Equal(t, p, f.TransformPoint(p))
	assert.Equal(t, p, f.TransformDirection(p))
}

func TestTransformRoundTrip(t *testing.T) {
	f := Frame{
		Rotation:    geom.AxisAngle(mgl64.Vec3{0, 1, 0}, 0.7),
		Translation: mgl64.Vec3{1, -2, 3},
	}
	p := mgl64.Vec3{0.3, 0.4, 0.5}
	world := f.TransformPoint(p)
	back := f.InverseTransformPoint(world)
	assert.InDelta(t, p.X(), back.X(), 1e-9)
	assert.InDelta(t, p.Y(), back.Y(), 1e-9)
	assert.InDelta(t, p.Z(), back.Z(), 1e-9)
}

func TestTransformDirectionIgnoresTranslation(t *testing.T) {
	f := Frame{Rotation: mgl64.Ident3(), Translation: mgl64.Vec3{10, 10, 10}}
	d := mgl64.Vec3{1, 0, 0}
	assert.Equal(t, d, f.TransformDirection(d))
}

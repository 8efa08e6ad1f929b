package collision

import (
	"testing"

	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quad() ([]geom.Triangle, []mgl64.Vec3) {
	positions := []mgl64.Vec3{{-1, 0, -1}, {1, 0, -1}, {1, 0, 1}, {-1, 0, 1}}
	triangles := []geom.Triangle{{0, 1, 2}, {0, 2, 3}}
	return triangles, positions
}

func floorBody() *actor.Body {
	tris, pos := quad()
	b := actor.NewBody()
	b.Bind(actor.Identity(), mgl64.Vec3{}, mgl64.Vec3{}, 0, tris, pos)
	return b
}

func pointBody(p mgl64.Vec3) *actor.Body {
	b := actor.NewBody()
	b.Bind(actor.Identity(), mgl64.Vec3{}, mgl64.Vec3{}, 1, nil, []mgl64.Vec3{p})
	return b
}

func TestBuildSkipsStaticStaticPairs(t *testing.T) {
	a := floorBody()
	b := floorBody()
	bodies := []*actor.Body{a, b}

	cb := Callbacks{
		Shapes: func(ctx any) []ShapePair { return []ShapePair{{A: 0, B: 1}} },
		Verts:  func(ctx any, sidTris, sidVerts int, maxDist float64) []VertexWitness { return nil },
	}
	contacts := Build(bodies, cb, 0.25)
	assert.Empty(t, contacts)
}

func TestBuildSkipsPairsMissingTriangles(t *testing.T) {
	a := pointBody(mgl64.Vec3{0, 0, 0})
	b := pointBody(mgl64.Vec3{0, 0.1, 0})
	bodies := []*actor.Body{a, b}

	cb := Callbacks{
		Shapes: func(ctx any) []ShapePair { return []ShapePair{{A: 0, B: 1}} },
		Verts:  func(ctx any, sidTris, sidVerts int, maxDist float64) []VertexWitness { return nil },
	}
	contacts := Build(bodies, cb, 0.25)
	assert.Empty(t, contacts)
}

func TestCollideDirectionRejectsSeparatingWitness(t *testing.T) {
	floor := floorBody()
	// Triangle {0,1,2} of quad() winds to a -y outward normal, so a vertex
	// well on the -y side is outside the solid: rejected.
	point := pointBody(mgl64.Vec3{0, -1, 0})

	bodies := []*actor.Body{floor, point}
	cb := Callbacks{
		Verts: func(ctx any, sidTris, sidVerts int, maxDist float64) []VertexWitness {
			return []VertexWitness{{TriangleID: 0, Barycentric: mgl64.Vec3{0.5, 0.25, 0.25}, VertexID: 0, Distance: 1}}
		},
	}
	contacts := collideDirection(bodies, 0, 1, cb, 10)
	assert.Empty(t, contacts)
}

func TestCollideDirectionAcceptsPenetratingWitness(t *testing.T) {
	floor := floorBody()
	// Triangle {0,1,2} faces -y, so a vertex just inside the solid sits on
	// the +y side of its closest point (0,0,-0.5): accepted.
	point := pointBody(mgl64.Vec3{0, 0.05, -0.5})

	bodies := []*actor.Body{floor, point}
	cb := Callbacks{
		Verts: func(ctx any, sidTris, sidVerts int, maxDist float64) []VertexWitness {
			return []VertexWitness{{TriangleID: 0, Barycentric: mgl64.Vec3{0.5, 0.25, 0.25}, VertexID: 0, Distance: 0.05}}
		},
	}
	contacts := collideDirection(bodies, 0, 1, cb, 10)
	require.Len(t, contacts, 1)
	assert.Equal(t, floor, contacts[0].BodyA)
	assert.Equal(t, point, contacts[0].BodyB)
}

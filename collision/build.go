package collision

import (
	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/constraint"
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// RejectionEpsilon is the non-interpenetration bias: a witness is only
// accepted as a contact when the vertex-to-triangle direction opposes the
// triangle normal by more than this margin.
const RejectionEpsilon = -0.01

// Build runs the broad phase and, for each surviving candidate pair, the
// vertex-overlap callback in both triangle/vertex role assignments,
// producing the step's contact list.
//
// A pair is dropped before contact generation when both bodies are
// non-simulated (static-static), or when either body carries no triangle
// geometry.
func Build(bodies []*actor.Body, cb Callbacks, maxRadius float64) []*constraint.Contact {
	pairs := cb.Shapes(cb.Ctx)
	var contacts []*constraint.Contact

	for _, pair := range pairs {
		a, b := bodies[pair.A], bodies[pair.B]
		if !a.Simulated && !b.Simulated {
			continue
		}
		if a.Triangles == nil || b.Triangles == nil {
			continue
		}

		contacts = append(contacts, collideDirection(bodies, pair.A, pair.B, cb, maxRadius)...)
		contacts = append(contacts, collideDirection(bodies, pair.B, pair.A, cb, maxRadius)...)
	}

	return contacts
}

// collideDirection invokes the vertex-overlap callback with sidTris'
// triangles against sidVerts' vertices, and emits contacts whose body pair
// is (bodies[sidTris], bodies[sidVerts]): the triangle-owning shape occupies
// the "A" slot for that witness, so the contact normal points away from it.
func collideDirection(bodies []*actor.Body, sidTris, sidVerts int, cb Callbacks, maxRadius float64) []*constraint.Contact {
	witnesses := cb.Verts(cb.Ctx, sidTris, sidVerts, maxRadius)
	if len(witnesses) == 0 {
		return nil
	}

	shapeTris := bodies[sidTris]
	shapeVerts := bodies[sidVerts]

	var contacts []*constraint.Contact
	for _, w := range witnesses {
		p := shapeVerts.Frame.TransformPoint(shapeVerts.Positions[w.VertexID])

		tri := shapeTris.Triangles[w.TriangleID]
		v0, v1, v2 := shapeTris.Positions[tri[0]], shapeTris.Positions[tri[1]], shapeTris.Positions[tri[2]]
		tp := shapeTris.Frame.TransformPoint(geom.Barycentric(v0, v1, v2, w.Barycentric))
		n := shapeTris.Frame.TransformDirection(geom.TriangleNormal(v0, v1, v2)).Normalize()

		dir := p.Sub(tp)
		if dir.Len() == 0 {
			continue
		}
		dir = dir.Normalize()
		if n.Dot(dir) > RejectionEpsilon {
			continue
		}

		t1, t2 := geom.OrthonormalBasis(n)
		contacts = append(contacts, &constraint.Contact{
			BodyA: shapeTris,
			BodyB: shapeVerts,
			Frame: mgl64.Mat3{
				t1.X(), t1.Y(), t1.Z(),
				t2.X(), t2.Y(), t2.Z(),
				n.X(), n.Y(), n.Z(),
			},
			Origin: p,
			Depth:  w.Distance,
		})
	}
	return contacts
}

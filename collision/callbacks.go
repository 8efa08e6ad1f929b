// Package collision builds contact records from externally supplied
// broad-phase and vertex-overlap callbacks: the engine never owns a spatial
// index, it only consumes one through this callback protocol.
package collision

import "github.com/go-gl/mathgl/mgl64"

// ShapePair is a candidate pair of body indices returned by the broad phase.
// The broad phase may over-approximate.
type ShapePair struct {
	A, B int
}

// ClosestElement is the result of a point-against-shape query: the closest
// triangle to a query point within the search radius.
type ClosestElement struct {
	Distance    float64
	TriangleID  int
	Barycentric mgl64.Vec3
}

// VertexWitness asserts that vertex VertexID of shape B lies within the
// search radius of triangle TriangleID of shape A, at the given distance and
// barycentric coordinates of the closest point on that triangle.
type VertexWitness struct {
	TriangleID  int
	Barycentric mgl64.Vec3
	VertexID    int
	Distance    float64
}

// OverlapShapesFunc enumerates candidate body-pair indices. May
// over-approximate; the collision builder filters by actual contact.
type OverlapShapesFunc func(ctx any) []ShapePair

// OverlapShapeFunc returns the closest element of shape sid within maxDist of
// point, or false if none is within range. Unused by the default vertex-batch
// collision path; kept as the per-vertex alternative to OverlapVertsFunc for
// callers that want to query one point at a time.
type OverlapShapeFunc func(ctx any, sid int, point mgl64.Vec3, maxDist float64) (ClosestElement, bool)

// OverlapVertsFunc finds, for every vertex of shape sidVerts within maxDist
// of any triangle of shape sidTris, the closest such triangle.
type OverlapVertsFunc func(ctx any, sidTris, sidVerts int, maxDist float64) []VertexWitness

// OverlapRefitFunc is called after each step's pose advance so the caller can
// resynchronize its spatial index.
type OverlapRefitFunc func(ctx any)

// Callbacks bundles the four hooks the engine consumes. All four must be set
// before Scene.Advance is called; an unset field is invoked only if the
// engine reaches that code path, so a scene with no contacts possible could
// in principle run with Verts/Refit unset, but relying on that is fragile —
// always set all four.
type Callbacks struct {
	Ctx    any
	Shapes OverlapShapesFunc
	Shape  OverlapShapeFunc
	Verts  OverlapVertsFunc
	Refit  OverlapRefitFunc
}

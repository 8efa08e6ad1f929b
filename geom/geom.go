// Package geom provides the math primitives shared by the moments, collision
// and constraint packages: triangle and tetrahedron helpers, barycentric
// interpolation, and the axis-angle rotation matrix used by the integrator.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is a triangle as a vertex-index triple into a positions array.
type Triangle [3]int

// Tetra is a tetrahedron as a vertex-index quadruple into a positions array.
type Tetra [4]int

// TetrahedronVolume returns the signed volume of the tetrahedron (a,b,c,d).
// The sign follows the winding of (a,b,c,d); callers building a signed
// decomposition from triangles with an implicit apex at the origin pass
// (origin, v0, v1, v2) directly.
func TetrahedronVolume(a, b, c, d mgl64.Vec3) float64 {
	return mgl64.Mat3{
		b.Sub(a).X(), b.Sub(a).Y(), b.Sub(a).Z(),
		c.Sub(a).X(), c.Sub(a).Y(), c.Sub(a).Z(),
		d.Sub(a).X(), d.Sub(a).Y(), d.Sub(a).Z(),
	}.Det() / 6.0
}

// TriangleNormal returns the unit normal of the triangle (v0,v1,v2),
// oriented by the right-hand rule over the winding order.
func TriangleNormal(v0, v1, v2 mgl64.Vec3) mgl64.Vec3 {
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}

// Barycentric interpolates a point inside triangle (v0,v1,v2) given
// barycentric weights (u,v,w) with u+v+w == 1.
func Barycentric(v0, v1, v2 mgl64.Vec3, uvw mgl64.Vec3) mgl64.Vec3 {
	return v0.Mul(uvw.X()).Add(v1.Mul(uvw.Y())).Add(v2.Mul(uvw.Z()))
}

// ClosestPointOnTriangle projects p onto triangle (a,b,c) and returns the
// closest point together with its barycentric coordinates. Standard
// region-based projection (Ericson, "Real-Time Collision Detection" §5.1.5).
func ClosestPointOnTriangle(p, a, b, c mgl64.Vec3) (closest, uvw mgl64.Vec3) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a, mgl64.Vec3{1, 0, 0}
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b, mgl64.Vec3{0, 1, 0}
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Mul(v)), mgl64.Vec3{1 - v, v, 0}
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c, mgl64.Vec3{0, 0, 1}
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Mul(w)), mgl64.Vec3{1 - w, 0, w}
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(w)), mgl64.Vec3{0, 1 - w, w}
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w)), mgl64.Vec3{1 - v - w, v, w}
}

// OrthonormalBasis builds a right-handed orthonormal basis (t1, t2, n) from a
// unit normal n, completing it deterministically (Duff et al., "Building an
// Orthonormal Basis, Revisited").
func OrthonormalBasis(n mgl64.Vec3) (t1, t2 mgl64.Vec3) {
	sign := 1.0
	if n.Z() < 0 {
		sign = -1.0
	}
	a := -1.0 / (sign + n.Z())
	b := n.X() * n.Y() * a
	t1 = mgl64.Vec3{1 + sign*n.X()*n.X()*a, sign * b, -sign * n.X()}
	t2 = mgl64.Vec3{b, sign + n.Y()*n.Y()*a, -n.Y()}
	return t1, t2
}

// AxisAngle returns the rotation matrix for a right-handed rotation of angle
// radians around axis (which need not be normalized; a zero-length axis
// yields the identity).
func AxisAngle(axis mgl64.Vec3, angle float64) mgl64.Mat3 {
	if axis.Len() == 0 || angle == 0 {
		return mgl64.Ident3()
	}
	return mgl64.HomogRotate3D(angle, axis.Normalize()).Mat3()
}

// Orthonormalize re-projects m onto an orthonormal rotation matrix via
// Gram-Schmidt: column 0 keeps its direction, column 1 is made orthogonal to
// it, and column 2 is their cross product. Integrating rotation as a matrix drifts from
// orthonormality over many steps; callers that run long simulations may
// invoke this periodically instead of every step.
func Orthonormalize(m mgl64.Mat3) mgl64.Mat3 {
	col0 := mgl64.Vec3{m[0], m[1], m[2]}.Normalize()
	col1 := mgl64.Vec3{m[3], m[4], m[5]}
	col1 = col1.Sub(col0.Mul(col0.Dot(col1))).Normalize()
	col2 := col0.Cross(col1)
	return mgl64.Mat3{
		col0.X(), col0.Y(), col0.Z(),
		col1.X(), col1.Y(), col1.Z(),
		col2.X(), col2.Y(), col2.Z(),
	}
}

// Finite3 reports whether every component of v is finite.
func Finite3(v mgl64.Vec3) bool {
	return !math.IsNaN(v.X()) && !math.IsInf(v.X(), 0) &&
		!math.IsNaN(v.Y()) && !math.IsInf(v.Y(), 0) &&
		!math.IsNaN(v.Z()) && !math.IsInf(v.Z(), 0)
}

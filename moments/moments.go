// Package moments computes closed-form mass properties — volume, centroid,
// and inertia tensor — from a triangle mesh or an explicit tetrahedral mesh.
//
// The mesh is treated as the boundary of a solid: each triangle forms a
// signed tetrahedron with an implicit apex at the origin. Summing the signed
// volumes and centroids of those tetrahedra yields the solid's volume and
// centroid; summing their inertia tensors (Tonon, "Explicit Exact Formulas
// for the 3-D Tetrahedron Inertia Tensor in Terms of its Vertex Coordinates",
// Journal of Mathematics and Statistics 1(1), 2004) yields the inertia
// tensor, density-normalized.
//
// Callers must supply closed, outward-oriented meshes. An inverted or
// non-closed mesh yields a non-positive volume and a singular or
// negative-definite inertia tensor; this package does not detect that and
// returns the computed (garbage) values as-is.
package moments

import (
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Compute returns the volume, centroid, and inertia tensor (about the
// centroid, density-normalized) of the solid bounded by the given triangle
// mesh.
func Compute(triangles []geom.Triangle, positions []mgl64.Vec3) (volume float64, centroid mgl64.Vec3, inertia mgl64.Mat3) {
	origin := mgl64.Vec3{}

	for _, t := range triangles {
		v0, v1, v2 := positions[t[0]], positions[t[1]], positions[t[2]]
		tvol := geom.TetrahedronVolume(origin, v0, v1, v2)
		volume += tvol
		centroid = centroid.Add(v0.Add(v1).Add(v2).Mul(tvol / 4.0))
	}
	centroid = centroid.Mul(1.0 / volume)

	inertia = mgl64.Mat3{}
	for _, t := range triangles {
		v0, v1, v2 := positions[t[0]], positions[t[1]], positions[t[2]]
		inertia = inertia.Add(tetraInertia(origin, v0, v1, v2, centroid))
	}
	inertia = scale(inertia, 1.0/volume)

	return volume, centroid, inertia
}

// ComputeTetra is the variant of Compute that accepts an explicit tetrahedral
// mesh: each tetrahedron uses its own four vertices directly rather than an
// implicit apex at the origin.
func ComputeTetra(tetra []geom.Tetra, positions []mgl64.Vec3) (volume float64, centroid mgl64.Vec3, inertia mgl64.Mat3) {
	for _, t := range tetra {
		v0, v1, v2, v3 := positions[t[0]], positions[t[1]], positions[t[2]], positions[t[3]]
		tvol := geom.TetrahedronVolume(v0, v1, v2, v3)
		volume += tvol
		centroid = centroid.Add(v0.Add(v1).Add(v2).Add(v3).Mul(tvol / 4.0))
	}
	centroid = centroid.Mul(1.0 / volume)

	inertia = mgl64.Mat3{}
	for _, t := range tetra {
		v0, v1, v2, v3 := positions[t[0]], positions[t[1]], positions[t[2]], positions[t[3]]
		inertia = inertia.Add(tetraInertia(v0, v1, v2, v3, centroid))
	}
	inertia = scale(inertia, 1.0/volume)

	return volume, centroid, inertia
}

// tetraInertia is Tonon's closed form for the inertia tensor of tetrahedron
// (a,b,c,d) about an arbitrary center, weighted by the tetrahedron's signed
// volume (so it composes additively across a signed decomposition).
func tetraInertia(a, b, c, d, center mgl64.Vec3) mgl64.Mat3 {
	v := geom.TetrahedronVolume(a, b, c, d)
	r := [4]mgl64.Vec3{a.Sub(center), b.Sub(center), c.Sub(center), d.Sub(center)}

	var diag, offd mgl64.Vec3
	for j := 0; j < 3; j++ {
		sumSq := 0.0
		sumCross := 0.0
		for i := 0; i < 4; i++ {
			sumSq += r[i][j] * r[i][j]
			for k := i + 1; k < 4; k++ {
				sumCross += r[i][j] * r[k][j]
			}
		}
		diag[j] = (sumSq + sumCross) * 6 * v / 60
	}

	for j := 0; j < 3; j++ {
		j1, j2 := (j+1)%3, (j+2)%3
		sumSame := 0.0
		for i := 0; i < 4; i++ {
			sumSame += 2 * r[i][j1] * r[i][j2]
		}
		sumCross := 0.0
		for i := 0; i < 4; i++ {
			for k := 0; k < 4; k++ {
				if i == k {
					continue
				}
				sumCross += r[i][j1] * r[k][j2]
			}
		}
		offd[j] = (sumSame + sumCross) * 6 * v / 120
	}

	return mgl64.Mat3{
		diag.Y() + diag.Z(), -offd.Z(), -offd.Y(),
		-offd.Z(), diag.X() + diag.Z(), -offd.X(),
		-offd.Y(), -offd.X(), diag.X() + diag.Y(),
	}
}

func scale(m mgl64.Mat3, s float64) mgl64.Mat3 {
	for i := range m {
		m[i] *= s
	}
	return m
}

package sceneconfig

import (
	"fmt"

	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// meshTable resolves named meshes referenced by a scene document. It covers
// only the two primitives the bundled scene documents need; anything beyond
// that is a full asset pipeline and out of scope here.
func meshTable() map[string]func(subdivisions int) ([]geom.Triangle, []mgl64.Vec3) {
	return map[string]func(int) ([]geom.Triangle, []mgl64.Vec3){
		"cube":   func(int) ([]geom.Triangle, []mgl64.Vec3) { return UnitCube() },
		"sphere": UnitSphere,
	}
}

// ResolveMesh looks up a built-in mesh by name. subdivisions is ignored by
// "cube" and controls the tessellation density of "sphere".
func ResolveMesh(name string, subdivisions int) ([]geom.Triangle, []mgl64.Vec3, error) {
	gen, ok := meshTable()[name]
	if !ok {
		return nil, nil, fmt.Errorf("sceneconfig: unknown mesh %q", name)
	}
	triangles, positions := gen(subdivisions)
	return triangles, positions, nil
}

// UnitCube returns the 12-triangle, 8-vertex mesh of an axis-aligned cube of
// side 1 centered at the origin, outward-oriented.
func UnitCube() ([]geom.Triangle, []mgl64.Vec3) {
	h := 0.5
	positions := []mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	triangles := []geom.Triangle{
		{0, 2, 1}, {0, 3, 2}, // -z
		{4, 5, 6}, {4, 6, 7}, // +z
		{0, 1, 5}, {0, 5, 4}, // -y
		{3, 7, 6}, {3, 6, 2}, // +y
		{0, 4, 7}, {0, 7, 3}, // -x
		{1, 2, 6}, {1, 6, 5}, // +x
	}
	return triangles, positions
}

// UnitSphere returns a unit-radius sphere built by subdividing a cube's six
// faces into an n×n grid and normalizing every vertex onto the sphere. The
// cube projection avoids the degenerate pole triangles of a latitude-based
// tessellation. n is clamped to at least 1.
func UnitSphere(subdivisions int) ([]geom.Triangle, []mgl64.Vec3) {
	n := subdivisions
	if n < 1 {
		n = 1
	}

	var positions []mgl64.Vec3
	var triangles []geom.Triangle

	// Each face's (du, dv) is ordered so du×dv points outward, matching the
	// triangle winding below.
	faces := [6]struct {
		origin, du, dv mgl64.Vec3
	}{
		{mgl64.Vec3{-1, -1, 1}, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{0, 2, 0}},  // +z
		{mgl64.Vec3{1, -1, -1}, mgl64.Vec3{-2, 0, 0}, mgl64.Vec3{0, 2, 0}}, // -z
		{mgl64.Vec3{-1, 1, -1}, mgl64.Vec3{0, 0, 2}, mgl64.Vec3{2, 0, 0}},  // +y
		{mgl64.Vec3{-1, -1, 1}, mgl64.Vec3{0, 0, -2}, mgl64.Vec3{2, 0, 0}}, // -y
		{mgl64.Vec3{1, -1, -1}, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, 2}},  // +x
		{mgl64.Vec3{-1, -1, 1}, mgl64.Vec3{0, 2, 0}, mgl64.Vec3{0, 0, -2}}, // -x
	}

	for _, face := range faces {
		base := len(positions)
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				u := float64(i) / float64(n)
				v := float64(j) / float64(n)
				p := face.origin.Add(face.du.Mul(u)).Add(face.dv.Mul(v))
				positions = append(positions, p.Normalize())
			}
		}
		stride := n + 1
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				a := base + j*stride + i
				b := base + j*stride + i + 1
				c := base + (j+1)*stride + i + 1
				d := base + (j+1)*stride + i
				triangles = append(triangles, geom.Triangle{a, b, c}, geom.Triangle{a, c, d})
			}
		}
	}

	return triangles, positions
}

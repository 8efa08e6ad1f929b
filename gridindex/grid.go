// Package gridindex is a reference implementation of the four callbacks the
// engine consumes (package collision): a uniform spatial hash for the broad
// phase, and brute-force closest-point-on-triangle search for the vertex
// overlap queries. It is a caller-side acceleration structure, not part of
// the engine; the engine's stepping stays single-threaded, but this package
// is free to split its own broad-phase scan across goroutines.
package gridindex

import (
	"sort"
	"sync"

	"github.com/fenwick-sim/rbd/actor"
	"github.com/fenwick-sim/rbd/collision"
	"github.com/fenwick-sim/rbd/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max mgl64.Vec3
}

func (a AABB) overlaps(b AABB) bool {
	return a.Max.X() >= b.Min.X() && a.Min.X() <= b.Max.X() &&
		a.Max.Y() >= b.Min.Y() && a.Min.Y() <= b.Max.Y() &&
		a.Max.Z() >= b.Min.Z() && a.Min.Z() <= b.Max.Z()
}

type cellKey struct{ x, y, z int }

type cell struct {
	bodies []int
}

// Grid is a uniform spatial hash over a fixed set of bodies. It owns no
// copy of body state: Refit re-reads body frames from the bound slice.
type Grid struct {
	cellSize float64
	cellMask int
	cells    []cell
	workers  int

	bodies []*actor.Body
	aabbs  []AABB
}

// New creates a grid with the given cell size and a hash table sized to the
// next power of two at or above numCells.
func New(cellSize float64, numCells int) *Grid {
	numCells = nextPow2(numCells)
	return &Grid{
		cellSize: cellSize,
		cellMask: numCells - 1,
		cells:    make([]cell, numCells),
		workers:  4,
	}
}

func nextPow2(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Bind attaches the grid to a body table and performs an initial rebuild.
func (g *Grid) Bind(bodies []*actor.Body) {
	g.bodies = bodies
	g.aabbs = make([]AABB, len(bodies))
	g.rebuild()
}

// Callbacks returns the collision.Callbacks bundle implemented by this grid.
func (g *Grid) Callbacks() collision.Callbacks {
	return collision.Callbacks{
		Ctx: g,
		Shapes: func(ctx any) []collision.ShapePair {
			return ctx.(*Grid).shapePairs()
		},
		Shape: func(ctx any, sid int, point mgl64.Vec3, maxDist float64) (collision.ClosestElement, bool) {
			return ctx.(*Grid).closestElement(sid, point, maxDist)
		},
		Verts: func(ctx any, sidTris, sidVerts int, maxDist float64) []collision.VertexWitness {
			return ctx.(*Grid).vertexWitnesses(sidTris, sidVerts, maxDist)
		},
		Refit: func(ctx any) {
			ctx.(*Grid).rebuild()
		},
	}
}

func worldAABB(b *actor.Body) AABB {
	if len(b.Positions) == 0 {
		return AABB{}
	}
	min := b.Frame.TransformPoint(b.Positions[0])
	max := min
	for _, p := range b.Positions[1:] {
		w := b.Frame.TransformPoint(p)
		min = mgl64.Vec3{minf(min.X(), w.X()), minf(min.Y(), w.Y()), minf(min.Z(), w.Z())}
		max = mgl64.Vec3{maxf(max.X(), w.X()), maxf(max.Y(), w.Y()), maxf(max.Z(), w.Z())}
	}
	return AABB{Min: min, Max: max}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func (g *Grid) worldToCell(p mgl64.Vec3) cellKey {
	return cellKey{int(floorDiv(p.X(), g.cellSize)), int(floorDiv(p.Y(), g.cellSize)), int(floorDiv(p.Z(), g.cellSize))}
}

func floorDiv(v, size float64) float64 {
	q := v / size
	if q < 0 {
		return q - 1
	}
	return q
}

func (g *Grid) hash(k cellKey) int {
	h := (k.x * 73856093) ^ (k.y * 19349663) ^ (k.z * 83492791)
	if h < 0 {
		h = -h
	}
	return h & g.cellMask
}

func (g *Grid) rebuild() {
	for i := range g.cells {
		g.cells[i].bodies = g.cells[i].bodies[:0]
	}
	for i, b := range g.bodies {
		aabb := worldAABB(b)
		g.aabbs[i] = aabb
		minCell, maxCell := g.worldToCell(aabb.Min), g.worldToCell(aabb.Max)
		for x := minCell.x; x <= maxCell.x; x++ {
			for y := minCell.y; y <= maxCell.y; y++ {
				for z := minCell.z; z <= maxCell.z; z++ {
					idx := g.hash(cellKey{x, y, z})
					g.cells[idx].bodies = append(g.cells[idx].bodies, i)
				}
			}
		}
	}
	for i := range g.cells {
		sort.Ints(g.cells[i].bodies)
	}
}

// shapePairs scans each body's occupied cells for AABB overlaps, splitting
// the scan across goroutines. A dedicated seen-set per worker avoids
// emitting the same pair twice without needing a shared lock.
func (g *Grid) shapePairs() []collision.ShapePair {
	n := len(g.bodies)
	if n == 0 {
		return nil
	}
	workers := g.workers
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}

	results := make([][]collision.ShapePair, workers)
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start, end := w*chunk, min(n, (w+1)*chunk)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var local []collision.ShapePair
			seen := make(map[int]bool)
			for a := start; a < end; a++ {
				for k := range seen {
					delete(seen, k)
				}
				minCell, maxCell := g.worldToCell(g.aabbs[a].Min), g.worldToCell(g.aabbs[a].Max)
				for x := minCell.x; x <= maxCell.x; x++ {
					for y := minCell.y; y <= maxCell.y; y++ {
						for z := minCell.z; z <= maxCell.z; z++ {
							for _, b := range g.cells[g.hash(cellKey{x, y, z})].bodies {
								if b <= a || seen[b] {
									continue
								}
								seen[b] = true
								if !g.bodies[a].Simulated && !g.bodies[b].Simulated {
									continue
								}
								if g.aabbs[a].overlaps(g.aabbs[b]) {
									local = append(local, collision.ShapePair{A: a, B: b})
								}
							}
						}
					}
				}
			}
			results[w] = local
		}(w, start, end)
	}
	wg.Wait()

	var pairs []collision.ShapePair
	for _, r := range results {
		pairs = append(pairs, r...)
	}
	return pairs
}

// closestElement brute-forces the closest triangle of shape sid to point,
// within maxDist.
func (g *Grid) closestElement(sid int, point mgl64.Vec3, maxDist float64) (collision.ClosestElement, bool) {
	b := g.bodies[sid]
	best := collision.ClosestElement{Distance: maxDist}
	found := false

	for ti, tri := range b.Triangles {
		v0 := b.Frame.TransformPoint(b.Positions[tri[0]])
		v1 := b.Frame.TransformPoint(b.Positions[tri[1]])
		v2 := b.Frame.TransformPoint(b.Positions[tri[2]])

		closest, uvw := geom.ClosestPointOnTriangle(point, v0, v1, v2)
		d := closest.Sub(point).Len()
		if d <= best.Distance {
			best = collision.ClosestElement{Distance: d, TriangleID: ti, Barycentric: uvw}
			found = true
		}
	}

	return best, found
}

// vertexWitnesses finds, for every vertex of sidVerts, the closest triangle
// of sidTris within maxDist, in the local (body-space) frames the collision
// builder expects: barycentric coordinates are against sidTris' local
// vertex positions, and VertexID indexes sidVerts' local positions.
func (g *Grid) vertexWitnesses(sidTris, sidVerts int, maxDist float64) []collision.VertexWitness {
	vertsBody := g.bodies[sidVerts]
	trisBody := g.bodies[sidTris]
	if len(trisBody.Triangles) == 0 {
		return nil
	}

	var witnesses []collision.VertexWitness
	for vi, localVertex := range vertsBody.Positions {
		worldVertex := vertsBody.Frame.TransformPoint(localVertex)

		best := collision.ClosestElement{Distance: maxDist}
		found := false
		for ti, tri := range trisBody.Triangles {
			v0 := trisBody.Frame.TransformPoint(trisBody.Positions[tri[0]])
			v1 := trisBody.Frame.TransformPoint(trisBody.Positions[tri[1]])
			v2 := trisBody.Frame.TransformPoint(trisBody.Positions[tri[2]])

			closest, uvw := geom.ClosestPointOnTriangle(worldVertex, v0, v1, v2)
			d := closest.Sub(worldVertex).Len()
			if d <= best.Distance {
				best = collision.ClosestElement{Distance: d, TriangleID: ti, Barycentric: uvw}
				found = true
			}
		}
		if !found {
			continue
		}

		witnesses = append(witnesses, collision.VertexWitness{
			TriangleID:  best.TriangleID,
			Barycentric: best.Barycentric,
			VertexID:    vi,
			Distance:    best.Distance,
		})
	}
	return witnesses
}

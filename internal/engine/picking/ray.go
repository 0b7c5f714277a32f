// Package picking provides ray casting and object picking utilities.
package picking

import (
	gomath "math"

	"github.com/gambo89/gambo-room/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts viewport pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	// Unproject near and far points
	nearPoint := math.Vec4{ndcX, ndcY, -1.0, 1.0}
	farPoint := math.Vec4{ndcX, ndcY, 1.0, 1.0}

	nearWorld := invViewProj.MulVec4(nearPoint)
	farWorld := invViewProj.MulVec4(farPoint)

	// Perspective divide
	if nearWorld[3] != 0 {
		nearWorld[0] /= nearWorld[3]
		nearWorld[1] /= nearWorld[3]
		nearWorld[2] /= nearWorld[3]
	}
	if farWorld[3] != 0 {
		farWorld[0] /= farWorld[3]
		farWorld[1] /= farWorld[3]
		farWorld[2] /= farWorld[3]
	}

	origin := math.Vec3{X: nearWorld[0], Y: nearWorld[1], Z: nearWorld[2]}
	dir := math.Vec3{
		X: farWorld[0] - nearWorld[0],
		Y: farWorld[1] - nearWorld[1],
		Z: farWorld[2] - nearWorld[2],
	}.Normalize()

	return Ray{Origin: origin, Direction: dir}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to the hit, the outward face normal at the entry
// point, and whether an intersection occurred. If the ray starts inside the
// box, the exit distance is returned with a zero normal.
func (r Ray) IntersectAABB(box AABB) (t float32, normal math.Vec3, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := [3]float32{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float32{r.Direction.X, r.Direction.Y, r.Direction.Z}
	bmin := [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
	bmax := [3]float32{box.Max.X, box.Max.Y, box.Max.Z}

	entryAxis := -1
	entrySign := float32(0)

	for axis := 0; axis < 3; axis++ {
		if dir[axis] != 0 {
			t1 := (bmin[axis] - origin[axis]) / dir[axis]
			t2 := (bmax[axis] - origin[axis]) / dir[axis]
			sign := float32(-1) // entering through the min face
			if t1 > t2 {
				t1, t2 = t2, t1
				sign = 1
			}
			if t1 > tmin {
				tmin = t1
				entryAxis = axis
				entrySign = sign
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if origin[axis] < bmin[axis] || origin[axis] > bmax[axis] {
			return 0, math.Vec3{}, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, math.Vec3{}, false
	}

	// Ray starts inside: return exit distance, no meaningful face normal
	if tmin < 0 {
		return tmax, math.Vec3{}, true
	}

	var n math.Vec3
	switch entryAxis {
	case 0:
		n = math.Vec3{X: entrySign}
	case 1:
		n = math.Vec3{Y: entrySign}
	case 2:
		n = math.Vec3{Z: entrySign}
	}
	return tmin, n, true
}

// NewAABB creates an AABB from corner coordinates, handling swapped corners.
func NewAABB(minX, minY, minZ, maxX, maxY, maxZ float32) AABB {
	if minX > maxX {
		minX, maxX = maxX, minX
	}
	if minY > maxY {
		minY, maxY = maxY, minY
	}
	if minZ > maxZ {
		minZ, maxZ = maxZ, minZ
	}
	return AABB{
		Min: math.Vec3{X: minX, Y: minY, Z: minZ},
		Max: math.Vec3{X: maxX, Y: maxY, Z: maxZ},
	}
}

// Quad is a planar rectangle used for UV hit-testing on screen-like meshes.
// Origin is the corner at UV (0,0); EdgeU and EdgeV span the rectangle and
// carry its orientation.
type Quad struct {
	Origin math.Vec3
	EdgeU  math.Vec3
	EdgeV  math.Vec3
}

// Normal returns the quad's unit plane normal.
func (q Quad) Normal() math.Vec3 {
	return q.EdgeU.Cross(q.EdgeV).Normalize()
}

// Intersect tests the ray against the quad. On a hit it returns the ray
// distance and the UV coordinate in [0,1]x[0,1].
func (r Ray) Intersect(q Quad) (t, u, v float32, hit bool) {
	n := q.Normal()

	denom := r.Direction.Dot(n)
	if gomath.Abs(float64(denom)) < 1e-6 {
		return 0, 0, 0, false // Ray parallel to plane
	}

	t = q.Origin.Sub(r.Origin).Dot(n) / denom
	if t < 0 {
		return 0, 0, 0, false // Behind ray origin
	}

	p := r.At(t).Sub(q.Origin)
	u = p.Dot(q.EdgeU) / q.EdgeU.Dot(q.EdgeU)
	v = p.Dot(q.EdgeV) / q.EdgeV.Dot(q.EdgeV)
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

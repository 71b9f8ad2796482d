package math

// Plane is a plane in the form ax + by + cz + d = 0 with (a,b,c) pointing
// toward the positive half-space.
type Plane struct {
	Normal Vec3
	D      float32
}

// DistanceToPoint returns the signed distance from p to the plane.
func (p Plane) DistanceToPoint(point Vec3) float32 {
	return p.Normal.Dot(point) + p.D
}

// Frustum is a view frustum as six inward-facing planes.
type Frustum struct {
	Planes [6]Plane
}

// Frustum plane indices.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// FrustumFromMatrix extracts frustum planes from a combined view-projection
// matrix (Gribb/Hartmann method). Planes are normalized so signed distances
// are in world units.
func FrustumFromMatrix(viewProj Mat4) Frustum {
	// Row i of the column-major matrix.
	row := func(i int) Vec4 {
		return Vec4{viewProj[i], viewProj[i+4], viewProj[i+8], viewProj[i+12]}
	}

	r0 := row(0)
	r1 := row(1)
	r2 := row(2)
	r3 := row(3)

	var f Frustum
	f.Planes[PlaneLeft] = planeFromVec4(addVec4(r3, r0))
	f.Planes[PlaneRight] = planeFromVec4(subVec4(r3, r0))
	f.Planes[PlaneBottom] = planeFromVec4(addVec4(r3, r1))
	f.Planes[PlaneTop] = planeFromVec4(subVec4(r3, r1))
	f.Planes[PlaneNear] = planeFromVec4(addVec4(r3, r2))
	f.Planes[PlaneFar] = planeFromVec4(subVec4(r3, r2))
	return f
}

// Intersects reports whether the box is at least partially inside the
// frustum. Uses the positive-vertex test per plane; conservative (may
// report true for boxes just outside a corner), which is fine for culling.
func (f Frustum) Intersects(box AABB) bool {
	for _, plane := range f.Planes {
		// Box corner farthest along the plane normal.
		p := box.Min
		if plane.Normal.X >= 0 {
			p.X = box.Max.X
		}
		if plane.Normal.Y >= 0 {
			p.Y = box.Max.Y
		}
		if plane.Normal.Z >= 0 {
			p.Z = box.Max.Z
		}
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint reports whether p lies inside all six planes.
func (f Frustum) ContainsPoint(p Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func planeFromVec4(v Vec4) Plane {
	n := Vec3{X: v[0], Y: v[1], Z: v[2]}
	l := n.Length()
	if l == 0 {
		return Plane{}
	}
	return Plane{Normal: n.Scale(1 / l), D: v[3] / l}
}

func addVec4(a, b Vec4) Vec4 {
	return Vec4{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

func subVec4(a, b Vec4) Vec4 {
	return Vec4{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

package math

// AABB is an axis-aligned bounding box in world space.
type AABB struct {
	Min, Max Vec3
}

// NewAABB returns a box spanning min..max.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the box center point.
func (b AABB) Center() Vec3 {
	return Vec3{
		X: (b.Min.X + b.Max.X) * 0.5,
		Y: (b.Min.Y + b.Max.Y) * 0.5,
		Z: (b.Min.Z + b.Max.Z) * 0.5,
	}
}

// Size returns the box extents along each axis.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// ContainsPoint reports whether p lies inside the box (inclusive).
func (b AABB) ContainsPoint(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Intersects reports whether two boxes overlap.
func (b AABB) Intersects(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Union returns the smallest box containing both boxes.
func (b AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{
			X: minf(b.Min.X, other.Min.X),
			Y: minf(b.Min.Y, other.Min.Y),
			Z: minf(b.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			X: maxf(b.Max.X, other.Max.X),
			Y: maxf(b.Max.Y, other.Max.Y),
			Z: maxf(b.Max.Z, other.Max.Z),
		},
	}
}

// ExpandToPoint grows the box to include p.
func (b AABB) ExpandToPoint(p Vec3) AABB {
	return AABB{
		Min: Vec3{X: minf(b.Min.X, p.X), Y: minf(b.Min.Y, p.Y), Z: minf(b.Min.Z, p.Z)},
		Max: Vec3{X: maxf(b.Max.X, p.X), Y: maxf(b.Max.Y, p.Y), Z: maxf(b.Max.Z, p.Z)},
	}
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

package math

import "testing"

func box(minX, minY, minZ, maxX, maxY, maxZ float32) AABB {
	return AABB{
		Min: Vec3{X: minX, Y: minY, Z: minZ},
		Max: Vec3{X: maxX, Y: maxY, Z: maxZ},
	}
}

func TestAABBCenterSize(t *testing.T) {
	b := box(0, 0, 0, 10, 20, 30)

	c := b.Center()
	if c.X != 5 || c.Y != 10 || c.Z != 15 {
		t.Errorf("expected center (5,10,15), got %v", c)
	}

	s := b.Size()
	if s.X != 10 || s.Y != 20 || s.Z != 30 {
		t.Errorf("expected size (10,20,30), got %v", s)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	b := box(-1, -1, -1, 1, 1, 1)

	cases := []struct {
		p    Vec3
		want bool
	}{
		{Vec3{0, 0, 0}, true},
		{Vec3{1, 1, 1}, true}, // boundary is inclusive
		{Vec3{-1, -1, -1}, true},
		{Vec3{1.001, 0, 0}, false},
		{Vec3{0, -2, 0}, false},
	}

	for _, c := range cases {
		if got := b.ContainsPoint(c.p); got != c.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestAABBIntersects(t *testing.T) {
	a := box(0, 0, 0, 10, 10, 10)

	if !a.Intersects(box(5, 5, 5, 15, 15, 15)) {
		t.Error("overlapping boxes should intersect")
	}
	if !a.Intersects(box(10, 0, 0, 20, 10, 10)) {
		t.Error("boxes sharing a face should intersect")
	}
	if a.Intersects(box(11, 0, 0, 20, 10, 10)) {
		t.Error("separated boxes should not intersect")
	}
	if !a.Intersects(box(2, 2, 2, 8, 8, 8)) {
		t.Error("contained box should intersect")
	}
}

func TestAABBUnion(t *testing.T) {
	a := box(0, 0, 0, 5, 5, 5)
	b := box(-3, 2, 1, 4, 8, 10)

	u := a.Union(b)
	want := box(-3, 0, 0, 5, 8, 10)
	if u != want {
		t.Errorf("Union = %v, want %v", u, want)
	}
}

func TestAABBExpandToPoint(t *testing.T) {
	b := box(0, 0, 0, 1, 1, 1)

	e := b.ExpandToPoint(Vec3{X: 5, Y: -2, Z: 0.5})
	want := box(0, -2, 0, 5, 1, 1)
	if e != want {
		t.Errorf("ExpandToPoint = %v, want %v", e, want)
	}

	// Point already inside leaves the box unchanged
	if got := b.ExpandToPoint(Vec3{X: 0.5, Y: 0.5, Z: 0.5}); got != b {
		t.Errorf("expected unchanged box, got %v", got)
	}
}

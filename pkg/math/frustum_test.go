package math

import (
	"math"
	"testing"
)

// testViewProj is a 90 degree perspective looking down -Z from the origin.
func testViewProj() Mat4 {
	return Perspective(math.Pi/2, 1, 1, 100)
}

func TestFrustumContainsPoint(t *testing.T) {
	f := FrustumFromMatrix(testViewProj())

	cases := []struct {
		p    Vec3
		want bool
	}{
		{Vec3{0, 0, -10}, true},   // straight ahead
		{Vec3{5, 5, -10}, true},   // inside the cone
		{Vec3{0, 0, 10}, false},   // behind the camera
		{Vec3{0, 0, -0.5}, false}, // in front of the near plane
		{Vec3{0, 0, -200}, false}, // beyond the far plane
		{Vec3{50, 0, -10}, false}, // far outside the right plane
	}

	for _, c := range cases {
		if got := f.ContainsPoint(c.p); got != c.want {
			t.Errorf("ContainsPoint(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestFrustumIntersectsBox(t *testing.T) {
	f := FrustumFromMatrix(testViewProj())

	inside := AABB{Min: Vec3{-1, -1, -11}, Max: Vec3{1, 1, -9}}
	if !f.Intersects(inside) {
		t.Error("box straight ahead should intersect")
	}

	behind := AABB{Min: Vec3{-1, -1, 9}, Max: Vec3{1, 1, 11}}
	if f.Intersects(behind) {
		t.Error("box behind the camera should not intersect")
	}

	straddling := AABB{Min: Vec3{-1, -1, -2}, Max: Vec3{1, 1, 2}}
	if !f.Intersects(straddling) {
		t.Error("box straddling the near plane should intersect")
	}

	huge := AABB{Min: Vec3{-1000, -1000, -1000}, Max: Vec3{1000, 1000, 1000}}
	if !f.Intersects(huge) {
		t.Error("box enclosing the whole frustum should intersect")
	}

	farRight := AABB{Min: Vec3{100, -1, -11}, Max: Vec3{102, 1, -9}}
	if f.Intersects(farRight) {
		t.Error("box far outside the side plane should not intersect")
	}
}

func TestFrustumWithViewMatrix(t *testing.T) {
	// Camera at (0,50,0) looking at the origin.
	view := LookAt(Vec3{0, 50, 0}, Vec3{0, 0, 0}, Vec3{0, 0, -1})
	viewProj := Perspective(math.Pi/3, 16.0/9.0, 1, 500).Mul(view)
	f := FrustumFromMatrix(viewProj)

	if !f.ContainsPoint(Vec3{0, 0, 0}) {
		t.Error("look-at target should be inside the frustum")
	}
	if f.ContainsPoint(Vec3{0, 200, 0}) {
		t.Error("point behind the camera should be outside")
	}

	ground := AABB{Min: Vec3{-10, 0, -10}, Max: Vec3{10, 1, 10}}
	if !f.Intersects(ground) {
		t.Error("ground box under the camera target should intersect")
	}
}

func TestFrustumPlanesNormalized(t *testing.T) {
	f := FrustumFromMatrix(testViewProj())

	for i, plane := range f.Planes {
		l := plane.Normal.Length()
		if math.Abs(float64(l)-1) > 1e-5 {
			t.Errorf("plane %d normal not unit length: %v", i, l)
		}
	}
}

func TestPlaneDistanceToPoint(t *testing.T) {
	// The plane y = 0 with normal +Y
	p := Plane{Normal: Vec3{0, 1, 0}, D: 0}

	if got := p.DistanceToPoint(Vec3{0, 5, 0}); got != 5 {
		t.Errorf("expected distance 5, got %v", got)
	}
	if got := p.DistanceToPoint(Vec3{3, -2, 7}); got != -2 {
		t.Errorf("expected distance -2, got %v", got)
	}
}

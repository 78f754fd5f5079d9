package types

import "testing"

func TestVectorOps(t *testing.T) {
	a := XYZ(1, 2, 3)
	b := XYZ(4, 5, 6)

	if got := a.Add(b); got != XYZ(5, 7, 9) {
		t.Fatalf("expected add to return (5, 7, 9); got %v", got)
	}
	if got := b.Sub(a); got != XYZ(3, 3, 3) {
		t.Fatalf("expected sub to return (3, 3, 3); got %v", got)
	}
	if got := a.Mul(2); got != XYZ(2, 4, 6) {
		t.Fatalf("expected mul to return (2, 4, 6); got %v", got)
	}
	if got := a.MulVec(b); got != XYZ(4, 10, 18) {
		t.Fatalf("expected component-wise mul to return (4, 10, 18); got %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Fatalf("expected dot product 32; got %f", got)
	}
	if got := XYZ(1, 0, 0).Cross(XYZ(0, 1, 0)); got != XYZ(0, 0, 1) {
		t.Fatalf("expected x cross y to be z; got %v", got)
	}
	if got := a.SqrDistance(b); got != 27 {
		t.Fatalf("expected squared distance 27; got %f", got)
	}
	if got := XYZ(3, 4, 0).Len(); got != 5 {
		t.Fatalf("expected length 5; got %f", got)
	}
}

func TestNormalize(t *testing.T) {
	n := XYZ(0, 0, -5).Normalize()
	if n != XYZ(0, 0, -1) {
		t.Fatalf("expected (0, 0, -1); got %v", n)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Fatalf("expected normalizing the zero vector to return the zero vector; got %v", z)
	}
}

func TestCos(t *testing.T) {
	type spec struct {
		a, b Vec3
		exp  float32
	}
	specs := []spec{
		{XYZ(1, 0, 0), XYZ(2, 0, 0), 1},
		{XYZ(1, 0, 0), XYZ(0, 3, 0), 0},
		{XYZ(1, 0, 0), XYZ(-1, 0, 0), -1},
		{XYZ(0, 0, 0), XYZ(1, 0, 0), 0},
	}

	for index, s := range specs {
		if got := s.a.Cos(s.b); got != s.exp {
			t.Fatalf("[spec %d] expected cos %f; got %f", index, s.exp, got)
		}
	}
}

func TestMinMaxClamp(t *testing.T) {
	a := XYZ(1, 5, -2)
	b := XYZ(3, 2, -4)
	if got := MinVec3(a, b); got != XYZ(1, 2, -4) {
		t.Fatalf("expected min (1, 2, -4); got %v", got)
	}
	if got := MaxVec3(a, b); got != XYZ(3, 5, -2) {
		t.Fatalf("expected max (3, 5, -2); got %v", got)
	}
	if got := XYZ(-1, 128, 300).Clamp(0, 255); got != XYZ(0, 128, 255) {
		t.Fatalf("expected clamped (0, 128, 255); got %v", got)
	}
	if got := a.MaxComponent(); got != 5 {
		t.Fatalf("expected max component 5; got %f", got)
	}
}

func TestRay(t *testing.T) {
	r := NewRay(XYZ(0, 0, 0), XYZ(0, 0, -2))
	if got := r.At(2); got != XYZ(0, 0, -4) {
		t.Fatalf("expected point (0, 0, -4); got %v", got)
	}
	if r.IsDegenerate() {
		t.Fatal("expected ray with non-zero direction not to be degenerate")
	}
	if !NewRay(XYZ(1, 1, 1), Vec3{}).IsDegenerate() {
		t.Fatal("expected ray with zero direction to be degenerate")
	}
}

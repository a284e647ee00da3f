package geometry

import (
	"math"
	"reflect"
	"testing"
)

func square(x0, y0, size float64) Polygon {
	return Polygon{
		{x0, y0},
		{x0 + size, y0},
		{x0 + size, y0 + size},
		{x0, y0 + size},
		{x0, y0},
	}
}

func TestPolygonArea(t *testing.T) {
	p := square(0, 0, 10)
	if p.Area() != 100 {
		t.Fatalf("Expected area 100, got %g", p.Area())
	}
	if p.Clockwise() {
		t.Fatal("CCW square classified as clockwise")
	}

	r := Polygon(LineString(p).Reversed())
	if !r.Clockwise() {
		t.Fatal("Reversed square should be clockwise")
	}
	if r.Area() != 100 {
		t.Fatalf("Area should not depend on winding, got %g", r.Area())
	}
}

func TestPolygonContains(t *testing.T) {
	p := square(0, 0, 10)

	if !p.Contains(Coordinate{5, 5}) {
		t.Fatal("Center should be inside")
	}
	if p.Contains(Coordinate{15, 5}) {
		t.Fatal("Outside point should not be inside")
	}
	if p.Contains(Coordinate{-1, -1}) {
		t.Fatal("Outside corner should not be inside")
	}
}

func TestLineStringLength(t *testing.T) {
	l := LineString{{0, 0}, {3, 4}, {3, 14}}
	if l.Length() != 15 {
		t.Fatalf("Expected length 15, got %g", l.Length())
	}
	if l.MinSegment() != 5 {
		t.Fatalf("Expected min segment 5, got %g", l.MinSegment())
	}
}

func TestReversed(t *testing.T) {
	l := LineString{{0, 0}, {1, 0}, {2, 1}}
	r := l.Reversed()
	expected := LineString{{2, 1}, {1, 0}, {0, 0}}
	if !reflect.DeepEqual(r, expected) {
		t.Fatalf("Bad reversal: %v", r)
	}
	// Original untouched
	if !reflect.DeepEqual(l, LineString{{0, 0}, {1, 0}, {2, 1}}) {
		t.Fatal("Reversed should not mutate its receiver")
	}
}

func TestTriangleArea(t *testing.T) {
	a := TriangleArea(Coordinate{0, 0}, Coordinate{10, 0}, Coordinate{0, 10})
	if a != 50 {
		t.Fatalf("Expected area 50, got %g", a)
	}
}

func TestRound(t *testing.T) {
	coords := []Coordinate{{1.23456, 7.891011}}
	Round(coords, 2)
	if coords[0] != (Coordinate{1.23, 7.89}) {
		t.Fatalf("Bad rounding: %v", coords[0])
	}
}

func TestBounds(t *testing.T) {
	m := MultiLine{
		{{0, 5}, {10, 5}},
		{{-2, 1}, {3, 8}},
	}
	b := m.Bounds()
	if b != [4]float64{-2, 1, 10, 8} {
		t.Fatalf("Bad bounds: %v", b)
	}
}

func TestCentroid(t *testing.T) {
	c := square(0, 0, 10).Centroid()
	if math.Abs(c[0]-5) > 1e-12 || math.Abs(c[1]-5) > 1e-12 {
		t.Fatalf("Bad centroid: %v", c)
	}
}

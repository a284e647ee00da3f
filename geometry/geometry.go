package geometry

import (
	"math"
)

// Coordinate is a 2D point, [x, y].
type Coordinate [2]float64

func (c Coordinate) X() float64 { return c[0] }
func (c Coordinate) Y() float64 { return c[1] }

func Equals(a, b Coordinate) bool {
	return a[0] == b[0] && a[1] == b[1]
}

func Distance(a, b Coordinate) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	return math.Sqrt(dx*dx + dy*dy)
}

// LineString is an ordered sequence of at least two coordinates.
type LineString []Coordinate

func (l LineString) First() Coordinate { return l[0] }
func (l LineString) Last() Coordinate  { return l[len(l)-1] }

func (l LineString) Length() float64 {
	total := 0.0
	for i := 1; i < len(l); i++ {
		total += Distance(l[i-1], l[i])
	}
	return total
}

// MinSegment returns the length of the shortest segment.
func (l LineString) MinSegment() float64 {
	min := math.Inf(1)
	for i := 1; i < len(l); i++ {
		d := Distance(l[i-1], l[i])
		if d < min {
			min = d
		}
	}
	return min
}

func (l LineString) Reversed() LineString {
	out := make(LineString, len(l))
	for i := range l {
		out[i] = l[len(l)-1-i]
	}
	return out
}

func (l LineString) Clone() LineString {
	out := make(LineString, len(l))
	copy(out, l)
	return out
}

func (l LineString) Bounds() [4]float64 {
	return bounds(l)
}

// Polygon is a closed ring: the first and last coordinates are equal.
type Polygon []Coordinate

// Closed reports whether the ring closes on itself.
func (p Polygon) Closed() bool {
	return len(p) >= 4 && Equals(p[0], p[len(p)-1])
}

// Area returns the unsigned shoelace area of the ring.
func (p Polygon) Area() float64 {
	return math.Abs(p.signedArea())
}

func (p Polygon) signedArea() float64 {
	sum := 0.0
	for i := 0; i < len(p)-1; i++ {
		sum += p[i][0]*p[i+1][1] - p[i+1][0]*p[i][1]
	}
	return sum / 2
}

func (p Polygon) Clockwise() bool {
	return p.signedArea() < 0
}

// Contains tests point containment with an even-odd crossing count.
// Points exactly on the boundary may land on either side.
func (p Polygon) Contains(pt Coordinate) bool {
	n := len(p)
	if n < 4 {
		return false
	}
	inside := false
	x, y := pt[0], pt[1]
	for i, j := 0, n-2; i < n-1; j, i = i, i+1 {
		xi, yi := p[i][0], p[i][1]
		xj, yj := p[j][0], p[j][1]
		if ((yi > y) != (yj > y)) && (x < (xj-xi)*(y-yi)/(yj-yi)+xi) {
			inside = !inside
		}
	}
	return inside
}

func (p Polygon) Bounds() [4]float64 {
	return bounds(p)
}

func (p Polygon) Centroid() Coordinate {
	// Mean of ring vertices, skipping the closing duplicate.
	var cx, cy float64
	n := len(p) - 1
	for i := 0; i < n; i++ {
		cx += p[i][0]
		cy += p[i][1]
	}
	return Coordinate{cx / float64(n), cy / float64(n)}
}

// MultiLine is a flat collection of line strings.
type MultiLine []LineString

func (m MultiLine) Bounds() [4]float64 {
	b := [4]float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, l := range m {
		b = expandBounds(b, bounds(l))
	}
	return b
}

func bounds(coords []Coordinate) [4]float64 {
	b := [4]float64{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, c := range coords {
		if c[0] < b[0] {
			b[0] = c[0]
		}
		if c[1] < b[1] {
			b[1] = c[1]
		}
		if c[0] > b[2] {
			b[2] = c[0]
		}
		if c[1] > b[3] {
			b[3] = c[1]
		}
	}
	return b
}

func expandBounds(a, b [4]float64) [4]float64 {
	if b[0] < a[0] {
		a[0] = b[0]
	}
	if b[1] < a[1] {
		a[1] = b[1]
	}
	if b[2] > a[2] {
		a[2] = b[2]
	}
	if b[3] > a[3] {
		a[3] = b[3]
	}
	return a
}

// TriangleArea returns the unsigned area of the triangle a-b-c.
func TriangleArea(a, b, c Coordinate) float64 {
	return math.Abs((b[0]-a[0])*(c[1]-a[1])-(c[0]-a[0])*(b[1]-a[1])) / 2
}

// Round rounds all coordinates in place to the given number of decimal
// digits.  Rounding on ingest keeps endpoint matching exact across
// shapes loaded from different files.
func Round(coords []Coordinate, digits int) {
	scale := math.Pow(10, float64(digits))
	for i := range coords {
		coords[i][0] = math.Round(coords[i][0]*scale) / scale
		coords[i][1] = math.Round(coords[i][1]*scale) / scale
	}
}

package geometry

// DistanceToSegment returns the distance from p to the segment a-b.
func DistanceToSegment(p, a, b Coordinate) float64 {
	dx := b[0] - a[0]
	dy := b[1] - a[1]

	len2 := dx*dx + dy*dy
	if len2 == 0 {
		return Distance(p, a)
	}

	t := ((p[0]-a[0])*dx + (p[1]-a[1])*dy) / len2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Distance(p, Coordinate{a[0] + t*dx, a[1] + t*dy})
}

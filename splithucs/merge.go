package splithucs

import (
	"fmt"

	"github.com/amanzi/watershed-workflow/geometry"
)

// mergeRings stitches line pieces into closed rings by matching endpoints,
// reversing pieces where needed.  Rings whose first vertex lies inside a
// larger ring are treated as interior and dropped.
func mergeRings(in geometry.MultiLine) ([]geometry.Polygon, error) {
	lines := make([]geometry.LineString, len(in))
	for i, l := range in {
		lines[i] = l.Clone()
	}

	// Keep merging until nothing matches anymore.
	repeat := true
	for repeat {
		repeat = false

		for i := 0; i < len(lines); i++ {
			line := lines[i]
			if geometry.Equals(line.First(), line.Last()) {
				continue
			}

			for j := 0; j < len(lines); j++ {
				if i == j {
					continue
				}
				line2 := lines[j]

				if geometry.Equals(line.Last(), line2.First()) {
					lines[i] = append(lines[i], line2[1:]...)
				} else if geometry.Equals(line.Last(), line2.Last()) {
					lines[i] = append(lines[i], line2.Reversed()[1:]...)
				} else if geometry.Equals(line.First(), line2.Last()) {
					lines[i] = append(line2.Clone(), line[1:]...)
				} else if geometry.Equals(line.First(), line2.First()) {
					lines[i] = append(line2.Reversed(), line[1:]...)
				} else {
					continue
				}

				lines = append(lines[:j], lines[j+1:]...)
				repeat = true
				break
			}

			if repeat {
				break
			}
		}
	}

	rings := make([]geometry.Polygon, 0, len(lines))
	for _, l := range lines {
		p := geometry.Polygon(l)
		if !p.Closed() {
			return nil, fmt.Errorf("piece chain from %v to %v does not close", l.First(), l.Last())
		}
		rings = append(rings, p)
	}

	// Discard rings nested inside a larger one.
	out := make([]geometry.Polygon, 0, len(rings))
	for i, r := range rings {
		nested := false
		for j, other := range rings {
			if i == j || other.Area() <= r.Area() {
				continue
			}
			if other.Contains(r[0]) {
				nested = true
				break
			}
		}
		if !nested {
			out = append(out, r)
		}
	}
	return out, nil
}

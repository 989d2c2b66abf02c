// Package layout turns tier assignments into fixed diagram
// coordinates. The tier index becomes the x axis; nodes inside a tier
// fan out vertically around the axis so the drawing stays symmetric.
package layout

// Point is a node position in diagram coordinates.
type Point struct {
	X float64
	Y float64
}

// Assign maps every node to its position. Tier i lands at x=i. Within
// a tier the first node sits on the axis and the rest alternate
// outward: an odd-sized tier yields 0, -1, +1, -2, +2 and an
// even-sized tier straddles the axis with +0.5, -0.5, -1.5, +1.5,
// -2.5, +2.5. The ordering is fixed so the same tiers always produce
// the same picture.
func Assign(tiers [][]string) map[string]Point {
	pos := make(map[string]Point)

	for tierIdx, tier := range tiers {
		if len(tier) == 0 {
			continue
		}
		x := float64(tierIdx)

		if len(tier)%2 == 1 {
			pos[tier[0]] = Point{X: x, Y: 0}
			for i := 1; i < len(tier); i++ {
				if i%2 == 0 {
					pos[tier[i]] = Point{X: x, Y: float64(i / 2)}
				} else {
					pos[tier[i]] = Point{X: x, Y: -float64((i + 1) / 2)}
				}
			}
			continue
		}

		upper := 0.5
		lower := -0.5
		pos[tier[0]] = Point{X: x, Y: upper}
		pos[tier[1]] = Point{X: x, Y: lower}
		for idx := 2; idx < len(tier); idx++ {
			i := idx - 1
			if i%2 == 0 {
				pos[tier[idx]] = Point{X: x, Y: upper + float64(i/2)}
			} else {
				pos[tier[idx]] = Point{X: x, Y: lower - float64((i+1)/2)}
			}
		}
	}

	return pos
}

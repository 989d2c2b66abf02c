package layout

// DefaultPadding is the gap between the outermost nodes and the
// corner anchors.
const DefaultPadding = 0.5

// Corner anchors carry whitespace labels so nothing shows up at the
// corners of a rendered diagram. One to four spaces keep the four
// labels distinct: upper-left, upper-right, lower-left, lower-right.
var anchorLabels = [4]string{" ", "  ", "   ", "    "}

// AnchorLabels returns the corner anchor labels in order: upper-left,
// upper-right, lower-left, lower-right.
func AnchorLabels() []string {
	return []string{anchorLabels[0], anchorLabels[1], anchorLabels[2], anchorLabels[3]}
}

// IsAnchor reports whether label names a corner anchor.
func IsAnchor(label string) bool {
	for _, a := range anchorLabels {
		if label == a {
			return true
		}
	}
	return false
}

// AddAnchors surrounds the positioned nodes with four anchor points
// padding away from the bounding box, so renderers reserve a stable
// margin around the diagram. The map is modified in place and
// returned. An empty map is returned unchanged.
func AddAnchors(pos map[string]Point, padding float64) map[string]Point {
	if len(pos) == 0 {
		return pos
	}

	minX, minY, maxX, maxY := bounds(pos)

	pos[anchorLabels[0]] = Point{X: minX - padding, Y: maxY + padding}
	pos[anchorLabels[1]] = Point{X: maxX + padding, Y: maxY + padding}
	pos[anchorLabels[2]] = Point{X: minX - padding, Y: minY - padding}
	pos[anchorLabels[3]] = Point{X: maxX + padding, Y: minY - padding}

	return pos
}

func bounds(pos map[string]Point) (minX, minY, maxX, maxY float64) {
	first := true
	for _, p := range pos {
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			first = false
			continue
		}
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY
}

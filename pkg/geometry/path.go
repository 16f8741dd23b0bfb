package geometry

// PointToSegmentDistance calculates the minimum distance from point p
// to the line segment a-b.
func PointToSegmentDistance(p, a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y

	if dx == 0 && dy == 0 {
		// Segment is a point
		return p.Distance(a)
	}

	// Parameter t of closest point on infinite line
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / (dx*dx + dy*dy)

	// Clamp to segment
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*dx, Y: a.Y + t*dy}
	return p.Distance(closest)
}

// PolylineContains reports whether the point lies within the stroked
// outline of the polyline, i.e. within width/2 of any of its segments.
// A polyline with a single point is treated as a dot of the same width.
func PolylineContains(points []Point2D, width float64, p Point2D) bool {
	if len(points) == 0 {
		return false
	}

	radius := width / 2

	// Quick bounds rejection before per-segment distance checks.
	if !BoundingBox(points).Expand(radius).Contains(p) {
		return false
	}

	if len(points) == 1 {
		return p.Distance(points[0]) <= radius
	}

	for i := 0; i < len(points)-1; i++ {
		if PointToSegmentDistance(p, points[i], points[i+1]) <= radius {
			return true
		}
	}
	return false
}

// PolylineLength returns the total length of the polyline.
func PolylineLength(points []Point2D) float64 {
	var total float64
	for i := 0; i < len(points)-1; i++ {
		total += points[i].Distance(points[i+1])
	}
	return total
}

// TranslatePoints returns a copy of the points moved by the given delta.
func TranslatePoints(points []Point2D, delta Point2D) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = p.Add(delta)
	}
	return out
}

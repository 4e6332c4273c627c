package drive

// wallEpsilon widens a wall's bounding box to absorb rounding at endpoints.
const wallEpsilon = 0.001

// Wall is an immutable line segment bounding the track. Its bounding box is
// computed once at construction.
type Wall struct {
	start, end             Point
	minX, maxX, minY, maxY float64
}

// NewWall creates the wall from (x1,y1) to (x2,y2).
func NewWall(x1, y1, x2, y2 float64) *Wall {
	return &Wall{
		start: Point{X: x1, Y: y1},
		end:   Point{X: x2, Y: y2},
		minX:  min(x1, x2) - wallEpsilon,
		maxX:  max(x1, x2) + wallEpsilon,
		minY:  min(y1, y2) - wallEpsilon,
		maxY:  max(y1, y2) + wallEpsilon,
	}
}

// Start returns the first endpoint.
func (w *Wall) Start() Point { return w.start }

// End returns the second endpoint.
func (w *Wall) End() Point { return w.end }

// Bounds returns the epsilon-expanded bounding box corners.
func (w *Wall) Bounds() (lo, hi Point) {
	return Point{X: w.minX, Y: w.minY}, Point{X: w.maxX, Y: w.maxY}
}

func (w *Wall) inBounds(p Point) bool {
	return p.X >= w.minX && p.X <= w.maxX && p.Y >= w.minY && p.Y <= w.maxY
}

// Intersect intersects the line through p1,p2 with this wall. The line
// intersection is clipped to the wall's bounding box only: the point is not
// checked against the extent of p1,p2, so callers get hits anywhere along the
// probing line.
func (w *Wall) Intersect(p1, p2 Point) (Point, bool) {
	hit, ok := LineIntersect(p1, p2, w.start, w.end)
	if !ok || !w.inBounds(hit) {
		return Point{}, false
	}
	return hit, true
}

// HitsVehicle probes from the vehicle position orthogonally to the wall.
// Any probe hit inside the wall bounds is recorded as a distance point on the
// vehicle, and the vehicle collides when that hit is closer than its
// collision radius.
func (w *Wall) HitsVehicle(v *Vehicle) bool {
	dx := w.end.X - w.start.X
	dy := w.end.Y - w.start.Y
	probe := Point{X: v.Position.X - dy, Y: v.Position.Y + dx}

	hit, ok := w.Intersect(v.Position, probe)
	if !ok {
		return false
	}
	v.addDistancePoint(hit)
	return v.Position.DistanceTo(hit) < v.CollisionRadius()
}

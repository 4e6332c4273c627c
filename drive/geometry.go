package drive

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// parallelEpsilon is the determinant below which two lines count as parallel.
const parallelEpsilon = 1e-12

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint creates a point.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Vec converts the point into a 2-element vector for vector math.
func (p Point) Vec() mgl64.Vec2 {
	return mgl64.Vec2{p.X, p.Y}
}

func pointFromVec(v mgl64.Vec2) Point {
	return Point{X: v[0], Y: v[1]}
}

// DistanceTo returns the Euclidean distance between p and q.
func (p Point) DistanceTo(q Point) float64 {
	return q.Vec().Sub(p.Vec()).Len()
}

// Goal is the circular target area of a track.
type Goal struct {
	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p lies inside or on the goal circle.
func (g Goal) Contains(p Point) bool {
	return p.DistanceTo(g.Center) <= g.Radius
}

// LineIntersect intersects the infinite line through p1,p2 with the infinite
// line through q1,q2. It returns false when the lines are parallel.
func LineIntersect(p1, p2, q1, q2 Point) (Point, bool) {
	d1 := p2.Vec().Sub(p1.Vec())
	d2 := q2.Vec().Sub(q1.Vec())
	det := cross(d1, d2)
	if math.Abs(det) < parallelEpsilon {
		return Point{}, false
	}
	t := cross(q1.Vec().Sub(p1.Vec()), d2) / det
	return pointFromVec(p1.Vec().Add(d1.Mul(t))), true
}

// cross is the z component of the 3D cross product of a and b.
func cross(a, b mgl64.Vec2) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// direction returns the unit vector for a heading in degrees.
func direction(degrees float64) mgl64.Vec2 {
	radians := mgl64.DegToRad(degrees)
	return mgl64.Vec2{math.Cos(radians), math.Sin(radians)}
}

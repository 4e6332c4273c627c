package drive

import "github.com/baldhumanity/neat-drive/drive/nn"

// defaultGoalRadius is the radius of the goal placed by Reset.
const defaultGoalRadius = 20

// Track is a rectangular area bounded by walls with one goal.
type Track struct {
	width  float64
	height float64
	walls  []*Wall
	goal   Goal
}

// NewTrack creates a track enclosed by its four boundary walls with the goal
// near the far corner.
func NewTrack(width, height float64) *Track {
	t := &Track{width: width, height: height}
	t.Reset()
	return t
}

// Reset removes every wall except the enclosing rectangle and puts the goal
// back at (0.9*width, 0.9*height).
func (t *Track) Reset() {
	t.walls = nil
	t.AddRect(0, 0, t.width, t.height)
	t.goal = Goal{Center: Point{X: t.width * 0.9, Y: t.height * 0.9}, Radius: defaultGoalRadius}
}

// Width of the track; sensor distances are normalized by it.
func (t *Track) Width() float64 { return t.width }

// Height of the track.
func (t *Track) Height() float64 { return t.height }

// Walls returns the walls in insertion order. The slice must not be modified.
func (t *Track) Walls() []*Wall { return t.walls }

// Goal returns the track goal.
func (t *Track) Goal() Goal { return t.goal }

// SetGoal moves the goal.
func (t *Track) SetGoal(g Goal) { t.goal = g }

// AddWall appends a wall.
func (t *Track) AddWall(w *Wall) {
	t.walls = append(t.walls, w)
}

// AddRect appends the four walls of the axis-aligned rectangle (x1,y1)-(x2,y2).
func (t *Track) AddRect(x1, y1, x2, y2 float64) {
	t.AddWall(NewWall(x1, y1, x2, y1))
	t.AddWall(NewWall(x1, y1, x1, y2))
	t.AddWall(NewWall(x2, y1, x2, y2))
	t.AddWall(NewWall(x1, y2, x2, y2))
}

// AddRandomWalls appends amount walls with both endpoints uniformly placed
// inside the track.
func (t *Track) AddRandomWalls(amount int, rng nn.Source) {
	for i := 0; i < amount; i++ {
		x1 := rng.Float64() * t.width
		y1 := rng.Float64() * t.height
		x2 := rng.Float64() * t.width
		y2 := rng.Float64() * t.height
		t.AddWall(NewWall(x1, y1, x2, y2))
	}
}

// DistanceToGoal returns the distance from p to the goal center.
func (t *Track) DistanceToGoal(p Point) float64 {
	return p.DistanceTo(t.goal.Center)
}

// InGoal reports whether p is within the goal radius.
func (t *Track) InGoal(p Point) bool {
	return t.goal.Contains(p)
}

// HitsVehicle reports whether the vehicle collides with any wall. Walls are
// probed in order and probing stops at the first collision.
func (t *Track) HitsVehicle(v *Vehicle) bool {
	for _, w := range t.walls {
		if w.HitsVehicle(v) {
			return true
		}
	}
	return false
}

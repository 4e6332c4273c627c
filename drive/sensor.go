package drive

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultSensorRange is the half-angle in degrees of the sensor fan.
const DefaultSensorRange = 50

// Sensor is a ray at a fixed angular offset from the vehicle heading.
type Sensor struct {
	Offset float64 // degrees, relative to heading

	// Distance is the raw distance of the last scan; +Inf when nothing was hit.
	Distance float64
	Hit      Point
	HasHit   bool
}

// NewSensor creates a sensor that has not scanned yet.
func NewSensor(offset float64) Sensor {
	return Sensor{Offset: offset, Distance: math.Inf(1)}
}

// NewSensorFan spreads amount sensors evenly over (-spread, spread) degrees,
// excluding both edges.
func NewSensorFan(spread float64, amount int) []Sensor {
	sensors := make([]Sensor, amount)
	inc := 2 * spread / float64(amount+1)
	for i := range sensors {
		sensors[i] = NewSensor(float64(i+1)*inc - spread)
	}
	return sensors
}

// Scan casts the sensor ray from the vehicle and stores the nearest wall hit
// in front of it. It returns the distance divided by the track width, which is
// +Inf when no wall is hit.
func (s *Sensor) Scan(v *Vehicle, t *Track) float64 {
	dir := direction(v.Heading + s.Offset)
	start := v.Position
	end := pointFromVec(start.Vec().Add(dir))
	useX := math.Abs(dir[0]) > math.Abs(dir[1])

	s.Distance = math.Inf(1)
	s.HasHit = false
	for _, w := range t.walls {
		s.scanWall(w, start, end, dir, useX)
	}
	return s.Distance / t.width
}

func (s *Sensor) scanWall(w *Wall, start, end Point, dir mgl64.Vec2, useX bool) {
	hit, ok := w.Intersect(start, end)
	if !ok {
		return
	}
	// signed distance along the ray; projecting on the dominant axis avoids
	// dividing by a near-zero component
	var distance float64
	if useX {
		distance = (hit.X - start.X) / dir[0]
	} else {
		distance = (hit.Y - start.Y) / dir[1]
	}
	if distance < 0 {
		return
	}
	if distance < s.Distance {
		s.Distance = distance
		s.Hit = hit
		s.HasHit = true
	}
}

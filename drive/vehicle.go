package drive

// DefaultVehicleWidth is the body width used for the collision radius.
const DefaultVehicleWidth = 50

// Vehicle is a point with a heading that moves at constant speed and senses
// walls through its sensors.
type Vehicle struct {
	Position Point
	Heading  float64 // degrees
	Speed    float64

	// Width of the body; the collision radius is Width / 2.5.
	Width float64
	// SensorRange is the half-angle of the sensor fan in degrees.
	SensorRange float64
	Sensors     []Sensor

	Crashed bool
	InGoal  bool

	// DistancePoints holds the wall probe hits of the last collision check.
	DistancePoints []Point
}

// NewVehicle creates a vehicle with sensorCount sensors spread over the
// default range.
func NewVehicle(position Point, heading, speed float64, sensorCount int) *Vehicle {
	return &Vehicle{
		Position:    position,
		Heading:     heading,
		Speed:       speed,
		Width:       DefaultVehicleWidth,
		SensorRange: DefaultSensorRange,
		Sensors:     NewSensorFan(DefaultSensorRange, sensorCount),
	}
}

// Copy returns a vehicle at the same position, heading and speed with a fresh
// sensor set of the same size. Flags and distance points are not copied.
func (v *Vehicle) Copy() *Vehicle {
	return &Vehicle{
		Position:    v.Position,
		Heading:     v.Heading,
		Speed:       v.Speed,
		Width:       v.Width,
		SensorRange: v.SensorRange,
		Sensors:     NewSensorFan(v.SensorRange, len(v.Sensors)),
	}
}

// SetSensorCount replaces the sensors with a fresh fan of n sensors.
func (v *Vehicle) SetSensorCount(n int) {
	v.Sensors = NewSensorFan(v.SensorRange, n)
}

// CollisionRadius is the distance to a wall below which the vehicle crashes.
func (v *Vehicle) CollisionRadius() float64 {
	return v.Width / 2.5
}

func (v *Vehicle) addDistancePoint(p Point) {
	v.DistancePoints = append(v.DistancePoints, p)
}

// ReadSensors updates the goal and crash flags, then scans every sensor in
// order and returns the normalized distances. The result is the network's
// input vector.
func (v *Vehicle) ReadSensors(t *Track) []float64 {
	v.InGoal = t.InGoal(v.Position)
	v.DistancePoints = v.DistancePoints[:0]
	v.Crashed = t.HitsVehicle(v)

	readings := make([]float64, len(v.Sensors))
	for i := range v.Sensors {
		readings[i] = v.Sensors[i].Scan(v, t)
	}
	return readings
}

// Steer turns the vehicle by delta degrees.
func (v *Vehicle) Steer(delta float64) {
	v.Heading += delta
}

// Step moves the vehicle Speed units along its heading.
func (v *Vehicle) Step() {
	v.Position = pointFromVec(v.Position.Vec().Add(direction(v.Heading).Mul(v.Speed)))
}

// StepBack moves the vehicle Speed units against its heading.
func (v *Vehicle) StepBack() {
	v.Position = pointFromVec(v.Position.Vec().Sub(direction(v.Heading).Mul(v.Speed)))
}

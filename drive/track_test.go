package drive

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrack(t *testing.T) {
	tr := NewTrack(800, 600)
	assert.Len(t, tr.Walls(), 4)
	assert.Equal(t, Goal{Center: NewPoint(720, 540), Radius: 20}, tr.Goal())

	tr.AddRect(100, 100, 200, 200)
	tr.AddRandomWalls(3, rand.New(rand.NewSource(7)))
	assert.Len(t, tr.Walls(), 11)
	for _, w := range tr.Walls()[8:] {
		assert.True(t, w.Start().X >= 0 && w.Start().X <= 800)
		assert.True(t, w.End().Y >= 0 && w.End().Y <= 600)
	}

	tr.SetGoal(Goal{Center: NewPoint(1, 1), Radius: 3})
	tr.Reset()
	assert.Len(t, tr.Walls(), 4)
	assert.Equal(t, 20.0, tr.Goal().Radius)
}

func TestTrackDistanceToGoal(t *testing.T) {
	tr := NewTrack(800, 800)
	tr.SetGoal(Goal{Center: NewPoint(400, 400), Radius: 20})
	assert.InDelta(t, 500.0, tr.DistanceToGoal(NewPoint(100, 0)), 1e-9)
	assert.True(t, tr.InGoal(NewPoint(410, 400)))
	assert.False(t, tr.InGoal(NewPoint(430, 400)))
}

func TestNewSensorFan(t *testing.T) {
	fan := NewSensorFan(50, 2)
	require.Len(t, fan, 2)
	assert.InDelta(t, -50.0/3, fan[0].Offset, 1e-12)
	assert.InDelta(t, 50.0/3, fan[1].Offset, 1e-12)

	single := NewSensorFan(50, 1)
	assert.InDelta(t, 0.0, single[0].Offset, 1e-12)

	for _, s := range NewSensorFan(50, 5) {
		assert.True(t, s.Offset > -50 && s.Offset < 50)
		assert.True(t, math.IsInf(s.Distance, 1))
	}
}

func TestSensorScan(t *testing.T) {
	tr := NewTrack(800, 800)
	v := NewVehicle(NewPoint(100, 400), 0, 5, 1)
	s := &v.Sensors[0]

	got := s.Scan(v, tr)
	assert.InDelta(t, 700.0/800, got, 1e-12)
	assert.InDelta(t, 700.0, s.Distance, 1e-9)
	assert.True(t, s.HasHit)
	assert.InDelta(t, 800.0, s.Hit.X, 1e-9)

	// wall behind the vehicle is ignored
	v.Heading = 180
	got = s.Scan(v, tr)
	assert.InDelta(t, 100.0/800, got, 1e-12)
}

func TestSensorScanPicksNearestWall(t *testing.T) {
	tr := NewTrack(800, 800)
	tr.AddWall(NewWall(300, 0, 300, 800))
	v := NewVehicle(NewPoint(100, 400), 0, 5, 1)
	assert.InDelta(t, 200.0/800, v.Sensors[0].Scan(v, tr), 1e-12)
}

func TestSensorScanNoHit(t *testing.T) {
	tr, err := TrackFromRecord(TrackRecord{Width: 800, Height: 800, Goal: Goal{Radius: 1}})
	require.NoError(t, err)
	v := NewVehicle(NewPoint(100, 400), 30, 5, 3)
	for _, r := range v.ReadSensors(tr) {
		assert.True(t, math.IsInf(r, 1))
	}
	for _, s := range v.Sensors {
		assert.False(t, s.HasHit)
		assert.False(t, s.Distance < 0)
	}
}

func TestVehicleMovement(t *testing.T) {
	v := NewVehicle(NewPoint(10, 10), 0, 5, 2)
	v.Step()
	assert.Equal(t, NewPoint(15, 10), v.Position)

	v.Steer(90)
	v.Step()
	assert.InDelta(t, 15.0, v.Position.X, 1e-9)
	assert.InDelta(t, 15.0, v.Position.Y, 1e-9)

	v.StepBack()
	assert.InDelta(t, 10.0, v.Position.Y, 1e-9)
	assert.Equal(t, 20.0, v.CollisionRadius())
}

func TestVehicleCopy(t *testing.T) {
	v := NewVehicle(NewPoint(10, 10), 45, 5, 3)
	v.Crashed = true
	v.InGoal = true
	v.Sensors[0].Distance = 3

	c := v.Copy()
	assert.Equal(t, v.Position, c.Position)
	assert.Equal(t, v.Heading, c.Heading)
	assert.Len(t, c.Sensors, 3)
	assert.False(t, c.Crashed)
	assert.False(t, c.InGoal)
	assert.True(t, math.IsInf(c.Sensors[0].Distance, 1))

	c.SetSensorCount(5)
	assert.Len(t, c.Sensors, 5)
	assert.Len(t, v.Sensors, 3)
}

func TestReadSensorsUpdatesFlags(t *testing.T) {
	tr := NewTrack(800, 800)
	tr.SetGoal(Goal{Center: NewPoint(400, 400), Radius: 20})

	v := NewVehicle(NewPoint(400, 410), 0, 5, 2)
	readings := v.ReadSensors(tr)
	assert.Len(t, readings, 2)
	assert.True(t, v.InGoal)
	assert.False(t, v.Crashed)
	assert.Len(t, v.DistancePoints, 4)

	v = NewVehicle(NewPoint(5, 400), 0, 5, 2)
	v.ReadSensors(tr)
	assert.True(t, v.Crashed)
	assert.False(t, v.InGoal)
}

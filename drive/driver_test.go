package drive

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// zeroNetwork returns a network without hidden layers that always outputs 0.
func zeroNetwork(t *testing.T, inputs int) *nn.Network {
	t.Helper()
	net, err := nn.NewFromNeurons(inputs, nil, nn.Neuron{Weights: make([]float64, inputs)})
	require.NoError(t, err)
	return net
}

// straightTrack is an empty 800x800 track with the goal dead ahead of a
// vehicle starting at (100, 400) with heading 0.
func straightTrack(goalX, radius float64) *Track {
	tr := NewTrack(800, 800)
	tr.SetGoal(Goal{Center: NewPoint(goalX, 400), Radius: radius})
	return tr
}

func TestNewDriverRejectsWidthMismatch(t *testing.T) {
	net, err := nn.New(3, 1, 2, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	_, err = NewDriver(NewVehicle(NewPoint(0, 0), 0, 5, 2), net, NewTrack(100, 100))
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "sensors", cfgErr.Field)
}

func TestDriverStepSteersByGain(t *testing.T) {
	net, err := nn.NewFromNeurons(1, nil, nn.Neuron{Weights: []float64{0}, Bias: 0.5})
	require.NoError(t, err)
	v := NewVehicle(NewPoint(400, 400), 0, 5, 1)
	d, err := NewDriver(v, net, NewTrack(800, 800))
	require.NoError(t, err)

	moving, err := d.Step()
	require.NoError(t, err)
	assert.True(t, moving)
	assert.Equal(t, 5.0, v.Heading)
	assert.InDelta(t, 400+5*math.Cos(5*math.Pi/180), v.Position.X, 1e-9)
}

func TestDriverStopsWhenCrashed(t *testing.T) {
	v := NewVehicle(NewPoint(100, 400), 0, 5, 1)
	d, err := NewDriver(v, zeroNetwork(t, 1), NewTrack(800, 800))
	require.NoError(t, err)

	v.Crashed = true
	moving, err := d.Step()
	require.NoError(t, err)
	assert.False(t, moving)
	assert.Equal(t, NewPoint(100, 400), v.Position, "a stopped driver must not move")
}

func TestDriverFitness(t *testing.T) {
	tr := straightTrack(400, 20)
	d, err := NewDriver(NewVehicle(NewPoint(100, 0), 0, 5, 1), zeroNetwork(t, 1), tr)
	require.NoError(t, err)
	assert.InDelta(t, -500.0, d.Fitness(), 1e-9)
}

// A zero-steering network drives straight at a goal D ahead. The vehicle sits
// inside the goal after ceil(D/speed) ticks and not before; the flag is read
// at the start of the following tick and the driver stops on the one after.
func TestDriverFitnessOfLostVehicle(t *testing.T) {
	tr := straightTrack(400, 20)
	d, err := NewDriver(NewVehicle(NewPoint(100, 400), 0, 5, 1), zeroNetwork(t, 1), tr)
	require.NoError(t, err)

	d.Vehicle.Position = NewPoint(math.NaN(), math.NaN())
	assert.True(t, math.IsInf(d.Fitness(), -1))
}

func TestDriveStraightIntoGoal(t *testing.T) {
	const (
		speed  = 5.0
		radius = 2.0
		d      = 300.0
	)
	tr := straightTrack(100+d, radius)

	hidden := [][]nn.Neuron{{
		{Weights: []float64{0, 0}},
		{Weights: []float64{0, 0}},
	}}
	net, err := nn.NewFromNeurons(2, hidden, nn.Neuron{Weights: []float64{0, 0}})
	require.NoError(t, err)

	v := NewVehicle(NewPoint(100, 400), 0, speed, 2)
	driver, err := NewDriver(v, net, tr)
	require.NoError(t, err)

	want := int(math.Ceil(d / speed))
	for tick := 1; tick <= want; tick++ {
		moving, err := driver.Step()
		require.NoError(t, err)
		require.True(t, moving, "tick %d", tick)
		assert.Equal(t, tick == want, tr.InGoal(v.Position), "tick %d", tick)
		assert.False(t, v.InGoal, "tick %d", tick)
		assert.False(t, v.Crashed, "tick %d", tick)
	}

	moving, err := driver.Step()
	require.NoError(t, err)
	assert.True(t, moving)
	assert.True(t, v.InGoal)

	moving, err = driver.Step()
	require.NoError(t, err)
	assert.False(t, moving)
}

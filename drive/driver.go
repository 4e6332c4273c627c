package drive

import (
	"fmt"
	"math"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// DefaultSteeringGain scales the network output into a heading change in degrees.
const DefaultSteeringGain = 10

// Driver binds one vehicle and one network to a shared track.
type Driver struct {
	Vehicle *Vehicle
	Network *nn.Network
	Track   *Track
	Gain    float64
}

// NewDriver binds v and net to track. The vehicle's sensor count must equal
// the network input width.
func NewDriver(v *Vehicle, net *nn.Network, track *Track) (*Driver, error) {
	if len(v.Sensors) != net.InputWidth() {
		return nil, configErrorf("sensors", "vehicle has %d sensors, network expects %d inputs", len(v.Sensors), net.InputWidth())
	}
	return &Driver{Vehicle: v, Network: net, Track: track, Gain: DefaultSteeringGain}, nil
}

// Step advances the driver by one tick. It returns false without touching any
// state once the vehicle has crashed or reached the goal.
func (d *Driver) Step() (bool, error) {
	v := d.Vehicle
	if v.InGoal || v.Crashed {
		return false, nil
	}
	readings := v.ReadSensors(d.Track)
	out, err := d.Network.FeedForward(readings)
	if err != nil {
		return false, fmt.Errorf("driver step: %w", err)
	}
	v.Steer(out * d.Gain)
	v.Step()
	return true, nil
}

// Fitness is the negative distance from the vehicle to the goal center. A
// vehicle whose position is no longer a number scores -Inf.
func (d *Driver) Fitness() float64 {
	f := -d.Track.DistanceToGoal(d.Vehicle.Position)
	if math.IsNaN(f) {
		return math.Inf(-1)
	}
	return f
}

package drive

import (
	"fmt"

	"github.com/baldhumanity/neat-drive/drive/nn"
)

// spawn creates PopulationSize drivers, each on a fresh copy of the start
// vehicle, with networks produced by next.
func (t *Trainer) spawn(next func() (*nn.Network, error)) ([]*Driver, error) {
	drivers := make([]*Driver, t.opts.PopulationSize)
	for i := range drivers {
		net, err := next()
		if err != nil {
			return nil, fmt.Errorf("failed to create network %d: %w", i, err)
		}
		d, err := NewDriver(t.start.Copy(), net, t.track)
		if err != nil {
			return nil, err
		}
		d.Gain = t.opts.SteeringGain
		drivers[i] = d
	}
	return drivers, nil
}

// initialPopulation seeds the first generation with random networks of the
// configured shape, or with mutated clones of the seed network when one is set.
func (t *Trainer) initialPopulation() ([]*Driver, error) {
	if t.opts.SeedNetwork != nil {
		return t.offspring(t.opts.SeedNetwork)
	}
	inputs := len(t.start.Sensors)
	return t.spawn(func() (*nn.Network, error) {
		return nn.New(inputs, t.shape.Layers, t.shape.LayerSize, t.rng)
	})
}

// offspring refills the population with clones of parent, each mutated by
// the mutation rate.
func (t *Trainer) offspring(parent *nn.Network) ([]*Driver, error) {
	return t.spawn(func() (*nn.Network, error) {
		child := parent.Clone()
		child.Mutate(t.opts.MutationRate, t.rng)
		return child, nil
	})
}

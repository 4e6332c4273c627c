// Package nn implements the fixed-topology feed-forward networks that steer
// vehicles, with their mutation and persisted record format.
package nn

// Network is a layered feed-forward network: zero or more hidden layers of
// leaky-ReLU neurons followed by a single linear output neuron.
//
// Every hidden neuron in layer 0 has inputWidth weights, every neuron in a
// later layer has layerSize weights, and the output neuron has layerSize
// weights (inputWidth when there are no hidden layers).
type Network struct {
	inputWidth int
	layers     int
	layerSize  int
	hidden     [][]Neuron // layer-major
	output     Neuron

	// scratch buffers reused between evaluations
	bufA, bufB []float64
}

// New creates a network of the given shape with every weight and bias drawn
// uniformly from [-1, 1].
func New(inputWidth, layers, layerSize int, rng Source) (*Network, error) {
	if err := validateShape(inputWidth, layers, layerSize); err != nil {
		return nil, err
	}

	net := &Network{
		inputWidth: inputWidth,
		layers:     layers,
		layerSize:  layerSize,
		hidden:     make([][]Neuron, layers),
	}
	prev := inputWidth
	for i := 0; i < layers; i++ {
		layer := make([]Neuron, layerSize)
		for j := range layer {
			layer[j] = newRandomNeuron(prev, LeakyReLU, rng)
		}
		net.hidden[i] = layer
		prev = layerSize
	}
	net.output = newRandomNeuron(prev, Linear, rng)
	return net, nil
}

// NewFromNeurons assembles a network from explicit neurons. Activations are
// forced to LeakyReLU for hidden neurons and Linear for the output neuron.
func NewFromNeurons(inputWidth int, hidden [][]Neuron, output Neuron) (*Network, error) {
	layers := len(hidden)
	layerSize := 0
	if layers > 0 {
		layerSize = len(hidden[0])
	}
	if err := validateShape(inputWidth, layers, layerSize); err != nil {
		return nil, err
	}

	net := &Network{
		inputWidth: inputWidth,
		layers:     layers,
		layerSize:  layerSize,
		hidden:     make([][]Neuron, layers),
	}
	prev := inputWidth
	for i, layer := range hidden {
		if len(layer) != layerSize {
			return nil, configErrorf("neurons", "layer %d has %d neurons, want %d", i, len(layer), layerSize)
		}
		copied := make([]Neuron, layerSize)
		for j := range layer {
			if len(layer[j].Weights) != prev {
				return nil, configErrorf("neurons", "layer %d neuron %d has %d weights, want %d", i, j, len(layer[j].Weights), prev)
			}
			copied[j] = layer[j].Copy()
			copied[j].Activation = LeakyReLU
		}
		net.hidden[i] = copied
		prev = layerSize
	}
	if len(output.Weights) != prev {
		return nil, configErrorf("outputNeuron", "has %d weights, want %d", len(output.Weights), prev)
	}
	net.output = output.Copy()
	net.output.Activation = Linear
	return net, nil
}

func validateShape(inputWidth, layers, layerSize int) error {
	if inputWidth <= 0 {
		return configErrorf("inputNeuronAmount", "must be positive, got %d", inputWidth)
	}
	if layers < 0 {
		return configErrorf("layers", "must not be negative, got %d", layers)
	}
	if layers > 0 && layerSize <= 0 {
		return configErrorf("layerSize", "must be positive when layers > 0, got %d", layerSize)
	}
	return nil
}

// InputWidth is the number of inputs the network expects.
func (net *Network) InputWidth() int { return net.inputWidth }

// Layers is the number of hidden layers.
func (net *Network) Layers() int { return net.layers }

// LayerSize is the number of neurons per hidden layer.
func (net *Network) LayerSize() int { return net.layerSize }

// FeedForward propagates inputs through the hidden layers and returns the
// output neuron's linear value. A Network is not safe for concurrent
// FeedForward calls because it reuses internal buffers.
func (net *Network) FeedForward(inputs []float64) (float64, error) {
	if len(inputs) != net.inputWidth {
		return 0, configErrorf("inputs", "got %d values, network expects %d", len(inputs), net.inputWidth)
	}

	current := inputs
	for i := 0; i < net.layers; i++ {
		out := net.buffer(i)
		for j := range net.hidden[i] {
			out[j] = net.hidden[i][j].FeedForward(current)
		}
		current = out
	}
	return net.output.FeedForward(current), nil
}

// buffer alternates between two scratch slices so a layer never writes into
// the slice it is reading from.
func (net *Network) buffer(layer int) []float64 {
	if len(net.bufA) != net.layerSize {
		net.bufA = make([]float64, net.layerSize)
		net.bufB = make([]float64, net.layerSize)
	}
	if layer%2 == 0 {
		return net.bufA
	}
	return net.bufB
}

// Mutate adds an independent uniform perturbation in [-rate, rate] to every
// weight and bias, hidden and output alike.
func (net *Network) Mutate(rate float64, rng Source) {
	for i := range net.hidden {
		for j := range net.hidden[i] {
			net.hidden[i][j].mutate(rate, rng)
		}
	}
	net.output.mutate(rate, rng)
}

// CloneFrom replaces this network's shape, weights and biases with a deep
// copy of other.
func (net *Network) CloneFrom(other *Network) {
	net.inputWidth = other.inputWidth
	net.layers = other.layers
	net.layerSize = other.layerSize
	net.hidden = make([][]Neuron, len(other.hidden))
	for i, layer := range other.hidden {
		copied := make([]Neuron, len(layer))
		for j := range layer {
			copied[j] = layer[j].Copy()
		}
		net.hidden[i] = copied
	}
	net.output = other.output.Copy()
	net.bufA, net.bufB = nil, nil
}

// Clone returns a deep copy of the network.
func (net *Network) Clone() *Network {
	clone := &Network{}
	clone.CloneFrom(net)
	return clone
}

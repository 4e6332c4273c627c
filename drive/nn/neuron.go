package nn

// Source is the random number source used for initialization and mutation.
// *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// uniform returns a value in [-scale, scale].
func uniform(rng Source, scale float64) float64 {
	return (rng.Float64()*2 - 1) * scale
}

// Neuron holds one weight per input plus a bias. It carries no state between
// evaluations.
type Neuron struct {
	Weights    []float64
	Bias       float64
	Activation Activation
}

// newRandomNeuron initializes every weight and the bias uniformly in [-1, 1].
func newRandomNeuron(inputs int, activation Activation, rng Source) Neuron {
	weights := make([]float64, inputs)
	for i := range weights {
		weights[i] = uniform(rng, 1)
	}
	return Neuron{
		Weights:    weights,
		Bias:       uniform(rng, 1),
		Activation: activation,
	}
}

// FeedForward computes activation(dot(inputs, weights) + bias).
// The caller guarantees len(inputs) == len(n.Weights).
func (n *Neuron) FeedForward(inputs []float64) float64 {
	sum := 0.0
	for i, in := range inputs {
		sum += in * n.Weights[i]
	}
	sum += n.Bias
	return n.Activation.Apply(sum)
}

// mutate perturbs every weight and the bias by an independent value in [-rate, rate].
func (n *Neuron) mutate(rate float64, rng Source) {
	for i := range n.Weights {
		n.Weights[i] += uniform(rng, rate)
	}
	n.Bias += uniform(rng, rate)
}

// Copy returns a deep copy of the neuron.
func (n *Neuron) Copy() Neuron {
	weights := make([]float64, len(n.Weights))
	copy(weights, n.Weights)
	return Neuron{Weights: weights, Bias: n.Bias, Activation: n.Activation}
}

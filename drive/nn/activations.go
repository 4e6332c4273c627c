package nn

import "fmt"

// Activation tags the transfer function applied to a neuron's weighted sum.
// Hidden neurons use LeakyReLU, the output neuron is Linear.
type Activation int

const (
	Linear Activation = iota
	LeakyReLU
)

// leakySlope is the gradient used for negative inputs of the leaky ReLU.
const leakySlope = 0.1

// Apply runs the activation function on x.
func (a Activation) Apply(x float64) float64 {
	switch a {
	case LeakyReLU:
		return LeakyReLUFunc(x)
	default:
		return x
	}
}

// String returns the activation name.
func (a Activation) String() string {
	switch a {
	case Linear:
		return "linear"
	case LeakyReLU:
		return "leaky_relu"
	default:
		return fmt.Sprintf("activation(%d)", int(a))
	}
}

// LeakyReLUFunc returns x for x >= 0 and 0.1*x otherwise.
func LeakyReLUFunc(x float64) float64 {
	if x < 0 {
		return leakySlope * x
	}
	return x
}

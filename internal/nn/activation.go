package nn

import (
	"math"
)

// Signal is the scalar type used for inputs, outputs, weights, thresholds
// and errors throughout the engine.
type Signal = float64

// Activation is a neuron transfer function together with its derivative.
//
// Derivative is expressed in terms of the already computed forward output,
// not the raw linear combination. Implementations are used as type
// parameters, so calls are statically dispatched.
type Activation interface {
	// Forward applies the transfer function to a linear combination.
	Forward(v Signal) Signal

	// Derivative returns the slope of the transfer function given its
	// forward output.
	Derivative(out Signal) Signal
}

// Sigmoid is the logistic activation.
//
// Applies the element-wise function: σ(x) = 1 / (1 + exp(-x))
//
// Sigmoid squashes values to the range (0, 1). Its derivative is evaluated
// on the output: σ'(x) = σ(x) * (1 - σ(x)).
//
// Example:
//
//	var s nn.Sigmoid
//	out := s.Forward(0.5)
//	slope := s.Derivative(out)
type Sigmoid struct{}

// Forward applies Sigmoid activation: σ(x) = 1 / (1 + exp(-x)).
func (Sigmoid) Forward(v Signal) Signal {
	return 1 / (1 + math.Exp(-v))
}

// Derivative returns out * (1 - out).
func (Sigmoid) Derivative(out Signal) Signal {
	return out * (1 - out)
}

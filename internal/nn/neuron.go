package nn

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Neuron holds one threshold and one incoming weight per upstream output.
//
// The output of a neuron is:
//
//	out = A.Forward(threshold + Σ inputs[i] * weights[i])
//
// Weights are created once with the network and updated in place during
// training. They are never resized.
type Neuron[A Activation] struct {
	Threshold Signal   `json:"threshold"`
	Weights   []Signal `json:"weights"`
}

// NewNeuron creates a neuron with fanIn zero weights and a zero threshold.
func NewNeuron[A Activation](fanIn int) Neuron[A] {
	return Neuron[A]{
		Weights: make([]Signal, fanIn),
	}
}

// FanIn returns the number of weights.
func (n *Neuron[A]) FanIn() int {
	return len(n.Weights)
}

// LinearCombination returns threshold + Σ inputs[i] * weights[i].
//
// Panics if len(inputs) != FanIn().
func (n *Neuron[A]) LinearCombination(inputs []Signal) Signal {
	if len(inputs) != len(n.Weights) {
		panic(fmt.Sprintf("Neuron: got %d inputs, expected %d", len(inputs), len(n.Weights)))
	}
	return n.Threshold + floats.Dot(inputs, n.Weights)
}

// Activate returns the activation of the neuron for inputs.
//
// Panics if len(inputs) != FanIn().
func (n *Neuron[A]) Activate(inputs []Signal) Signal {
	var act A
	return act.Forward(n.LinearCombination(inputs))
}

// Clone returns a deep copy of the neuron.
func (n *Neuron[A]) Clone() Neuron[A] {
	weights := make([]Signal, len(n.Weights))
	copy(weights, n.Weights)
	return Neuron[A]{
		Threshold: n.Threshold,
		Weights:   weights,
	}
}

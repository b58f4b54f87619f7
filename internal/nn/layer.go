package nn

import (
	"fmt"
)

// Layer is an ordered row of neurons that all read the same upstream vector.
//
// Invariant: every neuron has the same fan-in.
type Layer[A Activation] struct {
	Neurons []Neuron[A] `json:"neurons"`
}

// NewLayer creates a layer of width neurons, each with fanIn zero weights.
func NewLayer[A Activation](width, fanIn int) Layer[A] {
	neurons := make([]Neuron[A], width)
	for i := range neurons {
		neurons[i] = NewNeuron[A](fanIn)
	}
	return Layer[A]{Neurons: neurons}
}

// Width returns the number of neurons.
func (l *Layer[A]) Width() int {
	return len(l.Neurons)
}

// FanIn returns the number of weights per neuron.
func (l *Layer[A]) FanIn() int {
	if len(l.Neurons) == 0 {
		return 0
	}
	return l.Neurons[0].FanIn()
}

// InFeatures implements Module.
func (l *Layer[A]) InFeatures() int {
	return l.FanIn()
}

// OutFeatures implements Module.
func (l *Layer[A]) OutFeatures() int {
	return l.Width()
}

// Forward activates every neuron on upstream and returns the outputs in
// neuron order. Neurons are not modified.
//
// Panics if len(upstream) != FanIn().
func (l *Layer[A]) Forward(upstream []Signal) []Signal {
	if len(upstream) != l.FanIn() {
		panic(fmt.Sprintf("Layer: got %d inputs, expected %d", len(upstream), l.FanIn()))
	}
	out := make([]Signal, len(l.Neurons))
	for i := range l.Neurons {
		out[i] = l.Neurons[i].Activate(upstream)
	}
	return out
}

// Clone returns a deep copy of the layer.
func (l *Layer[A]) Clone() Layer[A] {
	neurons := make([]Neuron[A], len(l.Neurons))
	for i := range l.Neurons {
		neurons[i] = l.Neurons[i].Clone()
	}
	return Layer[A]{Neurons: neurons}
}

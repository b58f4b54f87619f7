// Package nn implements the numeric core of a fully connected feed-forward
// network trained by error backpropagation.
//
// This package provides:
//   - Activation: forward/derivative pair (Sigmoid is the only implementation)
//   - Neuron: threshold plus one weight per upstream output
//   - Layer: an ordered row of neurons sharing the same fan-in
//   - Network: layers chained from the input side to the output side
//   - Initializers: Ramp, Uniform, Xavier
//   - State dictionaries and checkpoints for persistence
//
// Shape mismatches are caller bugs and panic. Recoverable conditions, such as
// an invalid topology or a malformed model file, are returned as errors.
package nn

// Module is the interface shared by every component that maps an input
// vector to an output vector.
//
// Both Layer and Network implement Module:
//
//	var m nn.Module = net
//	out := m.Forward([]nn.Signal{0, 1})
type Module interface {
	// Forward maps inputs to outputs.
	//
	// Panics if len(inputs) != InFeatures().
	Forward(inputs []Signal) []Signal

	// InFeatures returns the expected input width.
	InFeatures() int

	// OutFeatures returns the produced output width.
	OutFeatures() int
}

package nn

import (
	"errors"
	"fmt"
)

// ErrInvalidTopology is returned when a topology cannot describe a network.
var ErrInvalidTopology = errors.New("invalid topology")

// TopologyError describes why a topology was rejected.
type TopologyError struct {
	Topology []int
	Index    int // Offending position, or -1 when the length is wrong
	Reason   string
}

// Error implements the error interface.
func (e *TopologyError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%v: %v: %s", ErrInvalidTopology, e.Topology, e.Reason)
	}
	return fmt.Sprintf("%v: %v: width at %d %s", ErrInvalidTopology, e.Topology, e.Index, e.Reason)
}

// Unwrap returns ErrInvalidTopology.
func (e *TopologyError) Unwrap() error {
	return ErrInvalidTopology
}

// ValidateTopology checks that topology has an input width and at least one
// layer, and that every width is positive.
func ValidateTopology(topology []int) error {
	if len(topology) < 2 {
		return &TopologyError{Topology: topology, Index: -1, Reason: "need an input width and at least one layer"}
	}
	for i, w := range topology {
		if w <= 0 {
			return &TopologyError{Topology: topology, Index: i, Reason: fmt.Sprintf("must be positive, got %d", w)}
		}
	}
	return nil
}

// Network is a fully connected feed-forward network.
//
// Layers are ordered from the input side to the output side. The fan-in of
// layer 0 is the raw input width and the fan-in of layer i > 0 is the width
// of layer i-1. A Network exclusively owns its layers and neurons.
//
// Example:
//
//	net, err := nn.New[nn.Sigmoid]([]int{2, 3, 3, 1}, nn.NewRamp(-0.5, 0.05))
//	if err != nil {
//	    return err
//	}
//	out := net.Activate([]nn.Signal{0, 1})
type Network[A Activation] struct {
	Layers []Layer[A] `json:"layers"`
}

// SigmoidNetwork is the network used by the trainer.
type SigmoidNetwork = Network[Sigmoid]

// New builds a network from topology, where topology[0] is the input width
// and topology[i] for i > 0 is the width of layer i-1.
//
// init is called once per neuron, in layer then neuron order. A nil init
// leaves every weight and threshold at zero, which does not break symmetry
// and is only useful before LoadStateDict.
func New[A Activation](topology []int, init Initializer) (*Network[A], error) {
	if err := ValidateTopology(topology); err != nil {
		return nil, err
	}

	layers := make([]Layer[A], 0, len(topology)-1)
	for i := 1; i < len(topology); i++ {
		layers = append(layers, NewLayer[A](topology[i], topology[i-1]))
	}

	net := &Network[A]{Layers: layers}
	if init != nil {
		for i := range net.Layers {
			layer := &net.Layers[i]
			for j := range layer.Neurons {
				neuron := &layer.Neurons[j]
				init.Init(&neuron.Threshold, neuron.Weights, layer.FanIn(), layer.Width())
			}
		}
	}
	return net, nil
}

// NewSigmoid builds a sigmoid network. See New.
func NewSigmoid(topology []int, init Initializer) (*SigmoidNetwork, error) {
	return New[Sigmoid](topology, init)
}

// InputWidth returns the fan-in of the first layer.
func (n *Network[A]) InputWidth() int {
	if len(n.Layers) == 0 {
		return 0
	}
	return n.Layers[0].FanIn()
}

// OutputWidth returns the width of the last layer.
func (n *Network[A]) OutputWidth() int {
	if len(n.Layers) == 0 {
		return 0
	}
	return n.Layers[len(n.Layers)-1].Width()
}

// InFeatures implements Module.
func (n *Network[A]) InFeatures() int {
	return n.InputWidth()
}

// OutFeatures implements Module.
func (n *Network[A]) OutFeatures() int {
	return n.OutputWidth()
}

// Topology returns the layer widths including the input width.
func (n *Network[A]) Topology() []int {
	topology := make([]int, 0, len(n.Layers)+1)
	topology = append(topology, n.InputWidth())
	for i := range n.Layers {
		topology = append(topology, n.Layers[i].Width())
	}
	return topology
}

// NumParameters returns the total count of weights and thresholds.
func (n *Network[A]) NumParameters() int {
	total := 0
	for i := range n.Layers {
		total += n.Layers[i].Width() * (n.Layers[i].FanIn() + 1)
	}
	return total
}

// Activate feeds inputs through every layer and returns the output of the
// last layer.
//
// Panics if len(inputs) != InputWidth().
func (n *Network[A]) Activate(inputs []Signal) []Signal {
	out := inputs
	for i := range n.Layers {
		out = n.Layers[i].Forward(out)
	}
	return out
}

// Forward implements Module. It is equivalent to Activate.
func (n *Network[A]) Forward(inputs []Signal) []Signal {
	return n.Activate(inputs)
}

// AllLayerActivations feeds inputs through every layer and returns the full
// activation stack [inputs, layer0, layer1, ..., output]. The result has
// len(Layers)+1 entries; entry 0 is a copy of inputs.
//
// Panics if len(inputs) != InputWidth().
func (n *Network[A]) AllLayerActivations(inputs []Signal) [][]Signal {
	acts := make([][]Signal, 0, len(n.Layers)+1)
	in := make([]Signal, len(inputs))
	copy(in, inputs)
	acts = append(acts, in)

	out := in
	for i := range n.Layers {
		out = n.Layers[i].Forward(out)
		acts = append(acts, out)
	}
	return acts
}

// Clone returns a deep copy of the network.
func (n *Network[A]) Clone() *Network[A] {
	layers := make([]Layer[A], len(n.Layers))
	for i := range n.Layers {
		layers[i] = n.Layers[i].Clone()
	}
	return &Network[A]{Layers: layers}
}

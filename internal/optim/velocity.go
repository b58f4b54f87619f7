package optim

import "github.com/born-ml/bpnet/internal/nn"

// Velocity holds the most recent change applied to every parameter.
//
// Weights[i][j][w] mirrors weight w of neuron j in layer i, Thresholds[i][j]
// mirrors that neuron's threshold. A trainer creates a fresh zeroed Velocity
// at the start of every epoch.
type Velocity struct {
	Weights    [][][]nn.Signal
	Thresholds [][]nn.Signal
}

// NewVelocity returns a zeroed Velocity shaped for topology.
//
// topology must be valid for nn.New.
func NewVelocity(topology []int) *Velocity {
	layers := len(topology) - 1
	v := &Velocity{
		Weights:    make([][][]nn.Signal, layers),
		Thresholds: make([][]nn.Signal, layers),
	}
	for i := range layers {
		fanIn, width := topology[i], topology[i+1]
		v.Weights[i] = make([][]nn.Signal, width)
		for j := range width {
			v.Weights[i][j] = make([]nn.Signal, fanIn)
		}
		v.Thresholds[i] = make([]nn.Signal, width)
	}
	return v
}

// VelocityFor returns a zeroed Velocity shaped for net.
func VelocityFor[A nn.Activation](net *nn.Network[A]) *Velocity {
	return NewVelocity(net.Topology())
}

// Reset zeroes every entry in place.
func (v *Velocity) Reset() {
	for i := range v.Weights {
		for j := range v.Weights[i] {
			clear(v.Weights[i][j])
		}
		clear(v.Thresholds[i])
	}
}

// Matches reports whether v is shaped for topology.
func (v *Velocity) Matches(topology []int) bool {
	if len(topology)-1 != len(v.Weights) || len(v.Weights) != len(v.Thresholds) {
		return false
	}
	for i := range v.Weights {
		fanIn, width := topology[i], topology[i+1]
		if len(v.Weights[i]) != width || len(v.Thresholds[i]) != width {
			return false
		}
		for j := range v.Weights[i] {
			if len(v.Weights[i][j]) != fanIn {
				return false
			}
		}
	}
	return true
}

// fits is Matches without building the topology slice.
func fits[A nn.Activation](v *Velocity, net *nn.Network[A]) bool {
	if len(v.Weights) != len(net.Layers) || len(v.Thresholds) != len(net.Layers) {
		return false
	}
	for i := range net.Layers {
		layer := &net.Layers[i]
		if len(v.Weights[i]) != layer.Width() || len(v.Thresholds[i]) != layer.Width() {
			return false
		}
		for j := range v.Weights[i] {
			if len(v.Weights[i][j]) != layer.FanIn() {
				return false
			}
		}
	}
	return true
}

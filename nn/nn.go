// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/serialization"
)

// Signal is the numeric type of inputs, outputs, weights and errors.
type Signal = nn.Signal

// Module is implemented by layers and networks.
type Module = nn.Module

// Activation is the squashing function of a network.
type Activation = nn.Activation

// Sigmoid is the logistic activation 1/(1+e^-v).
type Sigmoid = nn.Sigmoid

// Building blocks

// Neuron is a threshold plus one weight per upstream signal.
type Neuron[A Activation] = nn.Neuron[A]

// NewNeuron creates a zeroed neuron with fanIn weights.
func NewNeuron[A Activation](fanIn int) Neuron[A] {
	return nn.NewNeuron[A](fanIn)
}

// Layer is an ordered set of neurons sharing the same inputs.
type Layer[A Activation] = nn.Layer[A]

// NewLayer creates a zeroed layer of width neurons with fanIn weights each.
func NewLayer[A Activation](width, fanIn int) Layer[A] {
	return nn.NewLayer[A](width, fanIn)
}

// Network is a chain of layers ordered from the input side.
type Network[A Activation] = nn.Network[A]

// SigmoidNetwork is a network of sigmoid neurons.
type SigmoidNetwork = nn.SigmoidNetwork

// TopologyError describes an invalid topology.
type TopologyError = nn.TopologyError

// ErrInvalidTopology is wrapped by every TopologyError.
var ErrInvalidTopology = nn.ErrInvalidTopology

// New creates a network with the given topology.
//
// Example:
//
//	net, err := nn.New[nn.Sigmoid]([]int{2, 3, 1}, nn.NewUniform(1))
func New[A Activation](topology []int, init Initializer) (*Network[A], error) {
	return nn.New[A](topology, init)
}

// NewSigmoid creates a sigmoid network with the given topology.
func NewSigmoid(topology []int, init Initializer) (*SigmoidNetwork, error) {
	return nn.NewSigmoid(topology, init)
}

// ValidateTopology checks that topology describes at least one layer of
// positive width.
func ValidateTopology(topology []int) error {
	return nn.ValidateTopology(topology)
}

// MSE returns the mean squared error of outputs against targets.
func MSE(outputs, targets []Signal) Signal {
	return nn.MSE(outputs, targets)
}

// Initialization

// Initializer sets the starting parameters of each neuron.
type Initializer = nn.Initializer

// Ramp is the deterministic arithmetic progression initializer.
type Ramp = nn.Ramp

// Uniform draws weights from a bounded uniform distribution.
type Uniform = nn.Uniform

// Xavier draws weights with the Glorot uniform bound.
type Xavier = nn.Xavier

// Initializer names.
const (
	InitRamp    = nn.InitRamp
	InitUniform = nn.InitUniform
	InitXavier  = nn.InitXavier
)

// ErrUnknownInitializer is returned by InitializerByName.
var ErrUnknownInitializer = nn.ErrUnknownInitializer

// NewRamp creates a ramp starting at start and growing by step.
func NewRamp(start, step Signal) *Ramp {
	return nn.NewRamp(start, step)
}

// DefaultRamp creates the ramp starting at -0.5 with step 0.05.
func DefaultRamp() *Ramp {
	return nn.DefaultRamp()
}

// NewUniform creates a uniform initializer with bound 0.5.
func NewUniform(seed int64) *Uniform {
	return nn.NewUniform(seed)
}

// NewXavier creates a Xavier initializer.
func NewXavier(seed int64) *Xavier {
	return nn.NewXavier(seed)
}

// InitializerByName returns the initializer registered under name.
func InitializerByName(name string, seed int64) (Initializer, error) {
	return nn.InitializerByName(name, seed)
}

// Persistence

// Tensor is a named parameter block of a state dictionary.
type Tensor = serialization.Tensor

// Checkpoint is a trained network plus the state of its training run.
type Checkpoint[A Activation] = nn.Checkpoint[A]

// ErrStateMismatch is returned when stored parameters do not fit a network.
var ErrStateMismatch = nn.ErrStateMismatch

// ErrNotCheckpoint is returned by LoadCheckpoint for plain model files.
var ErrNotCheckpoint = nn.ErrNotCheckpoint

// NewCheckpoint creates a checkpoint with a fresh run ID.
func NewCheckpoint[A Activation](net *Network[A], epoch int, loss float64) *Checkpoint[A] {
	return nn.NewCheckpoint(net, epoch, loss)
}

// LoadCheckpoint reads a checkpoint written by Checkpoint.Save.
func LoadCheckpoint[A Activation](path string) (*Checkpoint[A], error) {
	return nn.LoadCheckpoint[A](path)
}

// Save writes net to path.
func Save[A Activation](path string, net *Network[A], metadata map[string]string) error {
	return nn.Save(path, net, metadata)
}

// Load reads a network from path.
func Load[A Activation](path string) (*Network[A], error) {
	return nn.Load[A](path)
}

// FromStateDict builds a network from exported parameters.
func FromStateDict[A Activation](topology []int, dict map[string]Tensor) (*Network[A], error) {
	return nn.FromStateDict[A](topology, dict)
}

package optim

import (
	"fmt"

	"github.com/born-ml/bpnet/internal/nn"
)

// SGD implements online gradient descent with momentum.
//
// For weight w of neuron j in layer i, with local gradient δ and upstream
// activation a = acts[i][w]:
//
//	Δw = lr * δ * a + momentum * prevΔw
//	w  = w + Δw
//
// Thresholds use the same rule with a = 1. The local gradients already carry
// the sign of (target - output), so the change is added.
//
// Example:
//
//	sgd := optim.NewSGD[nn.Sigmoid](optim.SGDConfig{
//	    LR:       0.3,
//	    Momentum: 0.1,
//	})
//	sgd.Step(net, acts, grads, vel)
type SGD[A nn.Activation] struct {
	lr       nn.Signal
	momentum nn.Signal
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       nn.Signal // Learning rate (default: 0.01)
	Momentum nn.Signal // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD[A nn.Activation](config SGDConfig) *SGD[A] {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD[A]{
		lr:       config.LR,
		momentum: config.Momentum,
	}
}

// Step applies one sample's update to every parameter of net.
//
// acts and grads must have been computed from net before this call; Step
// reads no other network state than the parameters it overwrites. Panics if
// the shapes of acts, grads or vel do not match net.
func (s *SGD[A]) Step(net *nn.Network[A], acts, grads [][]nn.Signal, vel *Velocity) {
	if len(acts) != len(net.Layers)+1 || len(grads) != len(net.Layers) {
		panic(fmt.Sprintf("SGD: got %d activation vectors and %d gradient vectors for %d layers",
			len(acts), len(grads), len(net.Layers)))
	}
	if !fits(vel, net) {
		panic("SGD: velocity shape does not match network")
	}

	for i := range net.Layers {
		layer := &net.Layers[i]
		upstream := acts[i]
		if len(upstream) != layer.FanIn() || len(grads[i]) != layer.Width() {
			panic(fmt.Sprintf("SGD: layer %d got %d activations and %d gradients, expected %d and %d",
				i, len(upstream), len(grads[i]), layer.FanIn(), layer.Width()))
		}

		for j := range layer.Neurons {
			neuron := &layer.Neurons[j]
			step := s.lr * grads[i][j]
			prev := vel.Weights[i][j]

			for w := range neuron.Weights {
				delta := step*upstream[w] + s.momentum*prev[w]
				neuron.Weights[w] += delta
				prev[w] = delta
			}

			delta := step + s.momentum*vel.Thresholds[i][j]
			neuron.Threshold += delta
			vel.Thresholds[i][j] = delta
		}
	}
}

// GetLR returns the current learning rate.
func (s *SGD[A]) GetLR() nn.Signal {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD[A]) SetLR(lr nn.Signal) {
	s.lr = lr
}

// Momentum returns the momentum factor.
func (s *SGD[A]) Momentum() nn.Signal {
	return s.momentum
}

// Package optim implements the parameter update rule for training networks.
//
// This package provides:
//   - Optimizer interface: applies one sample's local gradients to a network
//   - Velocity: the previous parameter changes used by the momentum term
//   - SGD: online gradient descent with momentum
//
// Example usage:
//
//	sgd := optim.NewSGD[nn.Sigmoid](optim.SGDConfig{LR: 0.3, Momentum: 0.1})
//	vel := optim.NewVelocity(net.Topology())
//
//	for i := range inputs {
//	    acts := net.AllLayerActivations(inputs[i])
//	    grads := net.LocalGradients(acts, targets[i])
//	    sgd.Step(net, acts, grads, vel)
//	}
package optim

import "github.com/born-ml/bpnet/internal/nn"

// Optimizer is the base interface for update rules.
//
// Step receives the activations and local gradients of one sample, both
// computed from the network before any parameter changed, and updates the
// network in place.
type Optimizer[A nn.Activation] interface {
	// Step applies the update for one sample.
	//
	// acts is the result of AllLayerActivations and grads the result of
	// LocalGradients for the same sample. vel carries the previous changes
	// and is updated with the changes applied by this step.
	Step(net *nn.Network[A], acts, grads [][]nn.Signal, vel *Velocity)

	// GetLR returns the current learning rate.
	GetLR() nn.Signal
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR nn.Signal // Learning rate
}

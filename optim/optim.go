// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the online gradient descent update rule.
//
// # Overview
//
// This package contains:
//   - SGD: online gradient descent with momentum
//   - Velocity: the previous change of every parameter
//   - Optimizer interface for custom update rules
//
// # Basic Usage
//
//	sgd := optim.NewSGD[nn.Sigmoid](optim.SGDConfig{LR: 0.3, Momentum: 0.1})
//	vel := optim.VelocityFor(net)
//
//	acts := net.AllLayerActivations(input)
//	grads := net.LocalGradients(acts, target)
//	sgd.Step(net, acts, grads, vel)
//
// Most callers use package train, which runs this loop over a sample set and
// starts every epoch with a fresh Velocity.
package optim

import (
	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/optim"
)

// Optimizer interface defines the common interface for update rules.
type Optimizer[A nn.Activation] = optim.Optimizer[A]

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD represents online gradient descent with momentum.
type SGD[A nn.Activation] = optim.SGD[A]

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	sgd := optim.NewSGD[nn.Sigmoid](optim.SGDConfig{
//	    LR:       0.3,
//	    Momentum: 0.1,
//	})
func NewSGD[A nn.Activation](config SGDConfig) *SGD[A] {
	return optim.NewSGD[A](config)
}

// Velocity holds the most recent change of every parameter.
type Velocity = optim.Velocity

// NewVelocity returns a zeroed Velocity shaped for topology.
func NewVelocity(topology []int) *Velocity {
	return optim.NewVelocity(topology)
}

// VelocityFor returns a zeroed Velocity shaped for net.
func VelocityFor[A nn.Activation](net *nn.Network[A]) *Velocity {
	return optim.VelocityFor(net)
}

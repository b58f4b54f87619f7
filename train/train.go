// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train runs online backpropagation with momentum.
//
// # Basic Usage
//
//	net, _ := nn.NewSigmoid([]int{2, 3, 3, 1}, nn.DefaultRamp())
//	trainer, _ := train.New[nn.Sigmoid](train.DefaultConfig())
//
//	result, err := trainer.Train(ctx, net, inputs, targets)
//	if result.Converged {
//	    fmt.Println("converged after", result.Epochs, "epochs")
//	}
//
// Not converging within MaxEpochs is an ordinary Result with Converged false,
// not an error.
package train

import (
	"log/slog"

	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/optim"
	"github.com/born-ml/bpnet/internal/train"
)

// Config holds the hyperparameters of a training run.
type Config = train.Config

// Result is the outcome of a training run.
type Result = train.Result

// State is the terminal state of a run.
type State = train.State

// Trainer states.
const (
	Training = train.Training
	Success  = train.Success
	Failure  = train.Failure
)

// ErrInvalidConfig is returned for out-of-range hyperparameters.
var ErrInvalidConfig = train.ErrInvalidConfig

// DefaultConfig returns hyperparameters that solve XOR.
func DefaultConfig() Config {
	return train.DefaultConfig()
}

// Trainer trains networks with activation A.
type Trainer[A nn.Activation] = train.Trainer[A]

// Option configures a Trainer.
type Option = train.Option

// EpochStats is passed to the epoch hook.
type EpochStats = train.EpochStats

// WithLogger sets the logger for progress and outcome messages.
func WithLogger(logger *slog.Logger) Option {
	return train.WithLogger(logger)
}

// WithEpochHook registers fn to be called after every epoch.
func WithEpochHook(fn func(EpochStats)) Option {
	return train.WithEpochHook(fn)
}

// New creates a trainer for cfg.
func New[A nn.Activation](cfg Config, opts ...Option) (*Trainer[A], error) {
	return train.New[A](cfg, opts...)
}

// RestartConfig describes a set of independent training runs.
type RestartConfig = train.RestartConfig

// Run is the outcome of one of several independent runs.
type Run[A nn.Activation] = train.Run[A]

// Train runs a full training loop with the given hyperparameters.
func Train[A nn.Activation](net *nn.Network[A], inputs, targets [][]nn.Signal,
	targetError, rate, momentum nn.Signal, maxEpochs int,
) Result {
	return train.Train(net, inputs, targets, targetError, rate, momentum, maxEpochs)
}

// TrainEpoch runs one epoch with the given hyperparameters.
func TrainEpoch[A nn.Activation](net *nn.Network[A], inputs, targets [][]nn.Signal, rate, momentum nn.Signal) nn.Signal {
	return train.TrainEpoch(net, inputs, targets, rate, momentum)
}

// TrainSample trains on one sample with the given hyperparameters.
func TrainSample[A nn.Activation](net *nn.Network[A], input, target []nn.Signal,
	rate, momentum nn.Signal, vel *optim.Velocity,
) nn.Signal {
	return train.TrainSample(net, input, target, rate, momentum, vel)
}

// Evaluate activates net on every input.
func Evaluate[A nn.Activation](net *nn.Network[A], inputs [][]nn.Signal) [][]nn.Signal {
	return train.Evaluate(net, inputs)
}

// CountCorrect counts samples whose rounded outputs equal their targets.
func CountCorrect[A nn.Activation](net *nn.Network[A], inputs, targets [][]nn.Signal) int {
	return train.CountCorrect(net, inputs, targets)
}

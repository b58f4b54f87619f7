package train

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/optim"
)

// EpochStats is passed to the epoch hook after every epoch.
type EpochStats struct {
	Epoch   int           // 0-based epoch index
	Error   nn.Signal     // Sum of the sample errors
	Elapsed time.Duration // Time since Train started
}

// Option configures a Trainer.
type Option func(*options)

type options struct {
	logger *slog.Logger
	hook   func(EpochStats)
}

// WithLogger sets the logger for progress and outcome messages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEpochHook registers fn to be called after every epoch of Train.
//
// When the trainer is shared by TrainRestarts fn is called concurrently.
func WithEpochHook(fn func(EpochStats)) Option {
	return func(o *options) {
		o.hook = fn
	}
}

// Trainer trains networks with activation A.
//
// A Trainer holds no per-run state and may train several networks
// concurrently.
type Trainer[A nn.Activation] struct {
	cfg    Config
	sgd    *optim.SGD[A]
	logger *slog.Logger
	hook   func(EpochStats)
}

// New creates a trainer for cfg.
func New[A nn.Activation](cfg Config, opts ...Option) (*Trainer[A], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	return &Trainer[A]{
		cfg: cfg,
		sgd: optim.NewSGD[A](optim.SGDConfig{
			LR:       cfg.LearningRate,
			Momentum: cfg.Momentum,
		}),
		logger: o.logger,
		hook:   o.hook,
	}, nil
}

// Config returns the trainer's hyperparameters.
func (t *Trainer[A]) Config() Config {
	return t.cfg
}

// TrainSample trains net on one sample and returns the sample's mean squared
// error, measured on the output before the update.
//
// vel holds the previous sample's changes and receives this sample's.
// Panics if input, target or vel do not fit net.
func (t *Trainer[A]) TrainSample(net *nn.Network[A], input, target []nn.Signal, vel *optim.Velocity) nn.Signal {
	return trainSample(t.sgd, net, input, target, vel)
}

// TrainEpoch presents every sample once, in order, and returns the sum of
// the sample errors.
//
// Momentum state is fresh for the epoch. Panics if inputs and targets differ
// in length or any sample does not fit net.
func (t *Trainer[A]) TrainEpoch(net *nn.Network[A], inputs, targets [][]nn.Signal) nn.Signal {
	return trainEpoch(t.sgd, net, inputs, targets)
}

func trainSample[A nn.Activation](sgd *optim.SGD[A], net *nn.Network[A], input, target []nn.Signal, vel *optim.Velocity) nn.Signal {
	acts := net.AllLayerActivations(input)
	loss := nn.MSE(acts[len(acts)-1], target)
	grads := net.LocalGradients(acts, target)
	sgd.Step(net, acts, grads, vel)
	return loss
}

func trainEpoch[A nn.Activation](sgd *optim.SGD[A], net *nn.Network[A], inputs, targets [][]nn.Signal) nn.Signal {
	if len(inputs) != len(targets) {
		panic(fmt.Sprintf("TrainEpoch: got %d inputs and %d targets", len(inputs), len(targets)))
	}

	vel := optim.VelocityFor(net)
	var total nn.Signal
	for i := range inputs {
		total += trainSample(sgd, net, inputs[i], targets[i], vel)
	}
	return total
}

// Train runs epochs until the epoch error is at most the target error or the
// epoch budget is spent.
//
// Not converging is reported through Result, never as an error. The context
// is checked before every epoch; on cancellation Train returns the epochs
// completed so far together with the context's error.
func (t *Trainer[A]) Train(ctx context.Context, net *nn.Network[A], inputs, targets [][]nn.Signal) (Result, error) {
	start := time.Now()
	t.logger.Info("training started",
		"topology", net.Topology(),
		"samples", len(inputs),
		"learning_rate", t.cfg.LearningRate,
		"momentum", t.cfg.Momentum,
		"target_error", t.cfg.TargetError,
		"max_epochs", t.cfg.MaxEpochs)

	var loss nn.Signal
	for epoch := range t.cfg.MaxEpochs {
		if err := ctx.Err(); err != nil {
			t.logger.Warn("training interrupted", "epoch", epoch, "error", loss, "reason", err)
			return Result{Error: loss, Epochs: epoch}, fmt.Errorf("training interrupted at epoch %d: %w", epoch, err)
		}

		loss = t.TrainEpoch(net, inputs, targets)

		if t.hook != nil {
			t.hook(EpochStats{Epoch: epoch, Error: loss, Elapsed: time.Since(start)})
		}
		if t.cfg.LogEvery > 0 && epoch%t.cfg.LogEvery == 0 {
			t.logger.Info("epoch finished", "epoch", epoch, "error", loss)
		}

		if loss <= t.cfg.TargetError {
			t.logger.Info("training converged", "epoch", epoch, "error", loss, "elapsed", time.Since(start))
			return Result{Converged: true, Error: loss, Epochs: epoch}, nil
		}
		if t.cfg.StopOnDivergence && (math.IsNaN(loss) || math.IsInf(loss, 0)) {
			t.logger.Warn("training diverged", "epoch", epoch, "error", loss)
			return Result{Diverged: true, Error: loss, Epochs: epoch}, nil
		}
	}

	t.logger.Info("training stopped without convergence",
		"epochs", t.cfg.MaxEpochs, "error", loss, "elapsed", time.Since(start))
	return Result{Error: loss, Epochs: t.cfg.MaxEpochs}, nil
}

// TrainSample trains net on one sample with the given hyperparameters.
// Panics if rate or momentum is out of range.
func TrainSample[A nn.Activation](net *nn.Network[A], input, target []nn.Signal, rate, momentum nn.Signal, vel *optim.Velocity) nn.Signal {
	return trainSample(mustSGD[A](rate, momentum), net, input, target, vel)
}

// TrainEpoch runs one epoch with the given hyperparameters.
// Panics if rate or momentum is out of range.
func TrainEpoch[A nn.Activation](net *nn.Network[A], inputs, targets [][]nn.Signal, rate, momentum nn.Signal) nn.Signal {
	return trainEpoch(mustSGD[A](rate, momentum), net, inputs, targets)
}

// Train runs a full training loop with the given hyperparameters.
// Panics if a hyperparameter is out of range.
func Train[A nn.Activation](net *nn.Network[A], inputs, targets [][]nn.Signal,
	targetError, rate, momentum nn.Signal, maxEpochs int,
) Result {
	t := mustNew[A](Config{
		LearningRate: rate,
		Momentum:     momentum,
		TargetError:  targetError,
		MaxEpochs:    maxEpochs,
	})
	// Background context is never cancelled.
	result, _ := t.Train(context.Background(), net, inputs, targets)
	return result
}

func mustNew[A nn.Activation](cfg Config) *Trainer[A] {
	t, err := New[A](cfg)
	if err != nil {
		panic("train: " + err.Error())
	}
	return t
}

func mustSGD[A nn.Activation](rate, momentum nn.Signal) *optim.SGD[A] {
	if err := validateStep(rate, momentum); err != nil {
		panic("train: " + err.Error())
	}
	return optim.NewSGD[A](optim.SGDConfig{LR: rate, Momentum: momentum})
}

package train

import (
	"errors"
	"fmt"
	"math"

	"github.com/born-ml/bpnet/internal/nn"
)

// ErrInvalidConfig is returned for hyperparameters outside their domain.
var ErrInvalidConfig = errors.New("invalid training config")

// Config holds the hyperparameters of a training run.
type Config struct {
	LearningRate nn.Signal // Step size, > 0
	Momentum     nn.Signal // Weight of the previous change, in [0, 1)
	TargetError  nn.Signal // Epoch error at or below which training succeeds, >= 0
	MaxEpochs    int       // Epoch budget, > 0

	// LogEvery logs progress every LogEvery epochs. Zero disables progress
	// logging; start and end of a run are always logged.
	LogEvery int

	// StopOnDivergence ends training as soon as an epoch error is NaN or
	// infinite. Without it such a run simply exhausts its budget.
	StopOnDivergence bool
}

// DefaultConfig returns the hyperparameters that solve XOR with a [2,3,3,1]
// network.
func DefaultConfig() Config {
	return Config{
		LearningRate: 0.3,
		Momentum:     0.1,
		TargetError:  0.001,
		MaxEpochs:    100_000,
	}
}

// Validate checks every hyperparameter.
func (c Config) Validate() error {
	if err := validateStep(c.LearningRate, c.Momentum); err != nil {
		return err
	}
	if !(c.TargetError >= 0) {
		return fmt.Errorf("%w: target error %v must be non-negative", ErrInvalidConfig, c.TargetError)
	}
	if c.MaxEpochs <= 0 {
		return fmt.Errorf("%w: max epochs %d must be positive", ErrInvalidConfig, c.MaxEpochs)
	}
	if c.LogEvery < 0 {
		return fmt.Errorf("%w: log interval %d must not be negative", ErrInvalidConfig, c.LogEvery)
	}
	return nil
}

// validateStep checks the hyperparameters of a single update.
func validateStep(rate, momentum nn.Signal) error {
	if !(rate > 0) || math.IsInf(rate, 1) {
		return fmt.Errorf("%w: learning rate %v must be positive and finite", ErrInvalidConfig, rate)
	}
	if !(momentum >= 0 && momentum < 1) {
		return fmt.Errorf("%w: momentum %v must be in [0, 1)", ErrInvalidConfig, momentum)
	}
	return nil
}

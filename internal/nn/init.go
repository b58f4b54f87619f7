package nn

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrUnknownInitializer is returned by InitializerByName for unknown names.
var ErrUnknownInitializer = errors.New("unknown initializer")

// Initializer sets the starting parameters of one neuron.
//
// New calls Init once per neuron, in layer then neuron order. fanIn is the
// number of weights, fanOut the width of the layer the neuron belongs to.
// Implementations must not leave all weights of a network identical, or the
// neurons of a layer will receive identical updates and never differentiate.
type Initializer interface {
	Init(threshold *Signal, weights []Signal, fanIn, fanOut int)
}

// Initializer names accepted by InitializerByName.
const (
	InitRamp    = "ramp"
	InitUniform = "uniform"
	InitXavier  = "xavier"
)

// Ramp initializes parameters with a deterministic arithmetic progression.
//
// Each neuron takes the next value for its threshold, then the next value for
// each of its weights. With Start -0.5 and Step 0.05, a [2,3,3,1] network
// starts at -0.5 for the first threshold and ends at 0.7 for the last weight.
//
// A Ramp carries its position between calls; use a fresh Ramp per network.
type Ramp struct {
	Start Signal
	Step  Signal
	next  Signal
	used  bool
}

// NewRamp creates a Ramp beginning at start and advancing by step.
func NewRamp(start, step Signal) *Ramp {
	return &Ramp{Start: start, Step: step}
}

// DefaultRamp returns NewRamp(-0.5, 0.05).
func DefaultRamp() *Ramp {
	return NewRamp(-0.5, 0.05)
}

// Init implements Initializer.
func (r *Ramp) Init(threshold *Signal, weights []Signal, _, _ int) {
	if !r.used {
		r.next = r.Start
		r.used = true
	}
	*threshold = r.next
	r.next += r.Step
	for i := range weights {
		weights[i] = r.next
		r.next += r.Step
	}
}

// Uniform draws weights from U(-Bound, Bound) and sets every threshold to
// Threshold.
type Uniform struct {
	Bound     Signal
	Threshold Signal
	Rand      *rand.Rand
}

// NewUniform creates a Uniform initializer with bound 0.5 seeded by seed.
func NewUniform(seed int64) *Uniform {
	return &Uniform{
		Bound: 0.5,
		//nolint:gosec // Using math/rand for weight initialization (not security-critical)
		Rand: rand.New(rand.NewSource(seed)),
	}
}

// Init implements Initializer.
func (u *Uniform) Init(threshold *Signal, weights []Signal, _, _ int) {
	*threshold = u.Threshold
	for i := range weights {
		weights[i] = (u.Rand.Float64()*2.0 - 1.0) * u.Bound
	}
}

// Xavier (Glorot) initialization for weights.
//
// Initializes weights with values drawn from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Thresholds are set to zero.
type Xavier struct {
	Rand *rand.Rand
}

// NewXavier creates a Xavier initializer seeded by seed.
func NewXavier(seed int64) *Xavier {
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	return &Xavier{Rand: rand.New(rand.NewSource(seed))}
}

// Init implements Initializer.
func (x *Xavier) Init(threshold *Signal, weights []Signal, fanIn, fanOut int) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	*threshold = 0
	for i := range weights {
		weights[i] = (x.Rand.Float64()*2.0 - 1.0) * bound
	}
}

// InitializerByName returns a fresh initializer for name. seed is ignored by
// the deterministic ramp.
func InitializerByName(name string, seed int64) (Initializer, error) {
	switch name {
	case "", InitRamp:
		return DefaultRamp(), nil
	case InitUniform:
		return NewUniform(seed), nil
	case InitXavier:
		return NewXavier(seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInitializer, name)
	}
}

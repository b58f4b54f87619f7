package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/diff/fd"
)

// TestSigmoidForward tests Sigmoid at known points.
func TestSigmoidForward(t *testing.T) {
	var s Sigmoid

	// σ(0) = 0.5, σ(2) ≈ 0.8808, σ(-2) ≈ 0.1192
	assert.Equal(t, 0.5, s.Forward(0))
	assert.InDelta(t, 0.8808, s.Forward(2), 1e-4)
	assert.InDelta(t, 0.1192, s.Forward(-2), 1e-4)
}

// TestSigmoidBounds checks that finite inputs map into the open interval (0, 1).
func TestSigmoidBounds(t *testing.T) {
	var s Sigmoid
	for _, v := range []Signal{-30, -10, -1, -1e-9, 0, 1e-9, 1, 10, 30} {
		out := s.Forward(v)
		assert.Greater(t, out, 0.0, "σ(%v)", v)
		assert.Less(t, out, 1.0, "σ(%v)", v)
	}
}

// TestSigmoidDerivativeIdentity checks derivative(a) == a*(1-a) exactly.
func TestSigmoidDerivativeIdentity(t *testing.T) {
	var s Sigmoid
	for _, v := range []Signal{-3, -0.7, 0, 0.25, 4} {
		a := s.Forward(v)
		assert.Equal(t, a*(1-a), s.Derivative(a))
	}
}

// TestSigmoidDerivativeNumerical compares the output-based derivative with
// a central finite difference of Forward.
func TestSigmoidDerivativeNumerical(t *testing.T) {
	var s Sigmoid
	for _, v := range []Signal{-2, -0.5, 0, 0.5, 2} {
		numeric := fd.Derivative(s.Forward, v, &fd.Settings{Formula: fd.Central, Step: 1e-5})
		assert.InDelta(t, numeric, s.Derivative(s.Forward(v)), 1e-8, "at %v", v)
	}
}

// TestSigmoidDerivativeUsesOutput guards against evaluating on the raw sum.
func TestSigmoidDerivativeUsesOutput(t *testing.T) {
	var s Sigmoid
	// On the raw value 2 the shortcut gives 2*(1-2) = -2, far away from σ'(2).
	assert.Equal(t, -2.0, s.Derivative(2))
	assert.False(t, math.Abs(s.Derivative(s.Forward(2))-(-2)) < 1)
}

package train

import (
	"fmt"
	"math"

	"github.com/born-ml/bpnet/internal/nn"
	"github.com/born-ml/bpnet/internal/parallel"
)

// Evaluate activates net on every input and returns the outputs in input
// order. net is only read, so the samples are evaluated in parallel.
func Evaluate[A nn.Activation](net *nn.Network[A], inputs [][]nn.Signal) [][]nn.Signal {
	outputs := make([][]nn.Signal, len(inputs))
	parallel.For(len(inputs), func(i int) {
		outputs[i] = net.Activate(inputs[i])
	}, parallel.DefaultConfig())
	return outputs
}

// CountCorrect returns how many samples net gets exactly right after
// rounding every output to the nearest integer.
func CountCorrect[A nn.Activation](net *nn.Network[A], inputs, targets [][]nn.Signal) int {
	if len(inputs) != len(targets) {
		panic(fmt.Sprintf("CountCorrect: got %d inputs and %d targets", len(inputs), len(targets)))
	}

	correct := 0
	for i, out := range Evaluate(net, inputs) {
		if roundedEqual(out, targets[i]) {
			correct++
		}
	}
	return correct
}

func roundedEqual(out, target []nn.Signal) bool {
	if len(out) != len(target) {
		return false
	}
	for k := range out {
		if math.Round(out[k]) != target[k] {
			return false
		}
	}
	return true
}

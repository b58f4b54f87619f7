package nn

import (
	"fmt"
)

// MSE computes the mean squared error of one sample.
//
// Loss = Σ (targets[k] - outputs[k])² / len(outputs)
//
// Panics if the lengths differ.
func MSE(outputs, targets []Signal) Signal {
	if len(outputs) != len(targets) {
		panic(fmt.Sprintf("MSE: got %d outputs and %d targets", len(outputs), len(targets)))
	}
	var sum Signal
	for k, out := range outputs {
		diff := targets[k] - out
		sum += diff * diff
	}
	return sum / Signal(len(outputs))
}

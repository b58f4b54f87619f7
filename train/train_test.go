// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package train_test

import (
	"testing"

	"github.com/born-ml/bpnet/nn"
	"github.com/born-ml/bpnet/train"
)

func TestTrainXOR(t *testing.T) {
	net, err := nn.NewSigmoid([]int{2, 3, 3, 1}, nn.DefaultRamp())
	if err != nil {
		t.Fatal(err)
	}
	inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := [][]float64{{0}, {1}, {1}, {0}}

	result := train.Train(net, inputs, targets, 0.001, 0.3, 0.1, 100_000)
	if result.State() != train.Success {
		t.Fatalf("XOR did not converge: %s", result)
	}
	if got := train.CountCorrect(net, inputs, targets); got != 4 {
		t.Errorf("CountCorrect = %d, want 4", got)
	}
}

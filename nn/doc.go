// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides feed-forward sigmoid networks trained by backpropagation.
//
// # Overview
//
// This package contains:
//   - Building blocks: Neuron, Layer, Network
//   - Activation: Sigmoid
//   - Loss: MSE
//   - Initialization: Ramp, Uniform, Xavier
//   - Persistence: Save, Load, Checkpoint
//
// # Basic Usage
//
//	import "github.com/born-ml/bpnet/nn"
//
//	func main() {
//	    // 2 inputs, two hidden layers of 3, 1 output
//	    net, err := nn.NewSigmoid([]int{2, 3, 3, 1}, nn.DefaultRamp())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out := net.Activate([]float64{1, 0})
//	}
//
// # Topology
//
// A topology lists layer widths from the input side. Index 0 is the input
// width and produces no neurons; every later entry is a layer whose neurons
// take one weight per value of the previous entry.
//
//	[2, 3, 3, 1]  ->  3 neurons x 2 weights, 3 x 3, 1 x 3
//
// # Initialization
//
// Ramp is deterministic: thresholds and weights follow an arithmetic
// progression, so the same topology always trains the same way.
//
//	net, _ := nn.NewSigmoid(topology, nn.DefaultRamp())
//
// Uniform and Xavier draw from a seeded source:
//
//	net, _ := nn.NewSigmoid(topology, nn.NewXavier(42))
//
// # Persistence
//
// Networks are stored in the .bpn format with SHA-256 verified float64 data,
// so a loaded network is bit-for-bit the saved one.
//
//	err := nn.Save("xor.bpn", net, nil)
//	net, err := nn.Load[nn.Sigmoid]("xor.bpn")
//
// For training runs use Checkpoint, which also records the epoch, the error
// and the hyperparameters.
package nn

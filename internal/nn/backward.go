package nn

import (
	"fmt"
)

// LocalGradients runs the backward pass for one sample.
//
// acts must be the activation stack returned by AllLayerActivations for the
// current weights. The result holds one local gradient per neuron, indexed
// like Layers:
//
//	output layer: δn[k] = (target[k] - An[k]) * A'(An[k])
//	hidden layer: δi[j] = A'(Ai[j]) * Σk W(i+1)[k][j] * δ(i+1)[k]
//
// where Ai is the output of layer i (acts[i+1]). Layers are processed from
// the output side back; the gradients of layer i+1 are complete before layer
// i is computed. The network is only read.
//
// Panics if acts does not match the network shape or target does not match
// the output width.
func (n *Network[A]) LocalGradients(acts [][]Signal, target []Signal) [][]Signal {
	if len(acts) != len(n.Layers)+1 {
		panic(fmt.Sprintf("Network: got %d activation vectors, expected %d", len(acts), len(n.Layers)+1))
	}
	last := len(n.Layers) - 1
	output := acts[last+1]
	if len(output) != n.Layers[last].Width() {
		panic(fmt.Sprintf("Network: got %d output activations, expected %d", len(output), n.Layers[last].Width()))
	}
	if len(target) != len(output) {
		panic(fmt.Sprintf("Network: got %d targets, expected %d", len(target), len(output)))
	}

	var act A
	grads := make([][]Signal, len(n.Layers))

	outGrads := make([]Signal, len(output))
	for k, out := range output {
		outGrads[k] = (target[k] - out) * act.Derivative(out)
	}
	grads[last] = outGrads

	for i := last - 1; i >= 0; i-- {
		layerOut := acts[i+1]
		if len(layerOut) != n.Layers[i].Width() {
			panic(fmt.Sprintf("Network: layer %d got %d activations, expected %d", i, len(layerOut), n.Layers[i].Width()))
		}
		next := &n.Layers[i+1]
		nextGrads := grads[i+1]

		layerGrads := make([]Signal, len(layerOut))
		for j, out := range layerOut {
			var blame Signal
			for k := range next.Neurons {
				blame += next.Neurons[k].Weights[j] * nextGrads[k]
			}
			layerGrads[j] = act.Derivative(out) * blame
		}
		grads[i] = layerGrads
	}
	return grads
}
